package timescale

import (
	"fmt"
	"math"
	"strconv"
)

// Format selects how FormatTime renders a time value.
type Format int

const (
	// Auto uses h:mm:ss from one hour up, mm:ss below.
	Auto Format = iota
	// HMS always renders h:mm:ss.
	HMS
	// MS always renders mm:ss.
	MS
	// Seconds renders the raw seconds value.
	Seconds
)

// FormatTime renders seconds as a clock-style label. Negative values
// keep their sign, fractional parts are truncated for the clock
// formats, and non-finite input renders as an empty string.
func FormatTime(seconds float64, f Format) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}

	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	switch f {
	case Seconds:
		return sign + strconv.FormatFloat(seconds, 'f', -1, 64)
	case Auto:
		if seconds >= 3600 {
			f = HMS
		} else {
			f = MS
		}
	}

	total := int(seconds)
	if f == HMS {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%s%d:%02d", sign, total/60, total%60)
}
