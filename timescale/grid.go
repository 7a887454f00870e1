package timescale

import "math"

// niceSteps is the grid step ladder: sub-second, seconds, minutes,
// hours, then days.
var niceSteps = []float64{
	0.1, 0.2, 0.5,
	1, 2, 5, 10, 15, 30,
	60, 120, 300, 600, 900, 1800,
	3600, 7200, 14400, 21600, 43200,
	86400,
}

// GridInterval picks the smallest "nice" step such that the visible
// duration divided by the step does not exceed maxLabels.
func GridInterval(visibleDuration float64, maxLabels int) float64 {
	if maxLabels < 1 {
		maxLabels = 1
	}
	if visibleDuration <= 0 {
		return niceSteps[0]
	}
	for _, step := range niceSteps {
		if visibleDuration/step <= float64(maxLabels) {
			return step
		}
	}
	step := niceSteps[len(niceSteps)-1]
	for visibleDuration/step > float64(maxLabels) {
		step *= 2
	}
	return step
}

// GridLine is one vertical gridline: minor lines carry only a time,
// major lines also carry a formatted label.
type GridLine struct {
	Time  float64
	Label string
	Major bool
}

// GridLines produces the ordered gridlines for [viewStart, viewEnd] at
// multiples of the interval chosen by GridInterval. Every 5th multiple
// of the step is major and labeled. The sequence is recomputed on each
// call; there is no incremental state.
func GridLines(viewStart, viewEnd float64, maxLabels int) []GridLine {
	if viewEnd <= viewStart {
		return nil
	}
	step := GridInterval(viewEnd-viewStart, maxLabels)
	// Tiny tolerance so boundary multiples survive float error.
	eps := step * 1e-9

	var lines []GridLine
	for n := math.Ceil((viewStart - eps) / step); n*step <= viewEnd+eps; n++ {
		t := n * step
		if t < viewStart {
			t = viewStart
		}
		if t > viewEnd {
			t = viewEnd
		}
		gl := GridLine{Time: t, Major: math.Mod(n, 5) == 0}
		if gl.Major {
			gl.Label = FormatTime(n*step, Auto)
		}
		lines = append(lines, gl)
	}
	return lines
}
