// Package timescale provides the pure coordinate math for the
// timeline: clamping, affine range mapping, zoom/pan window
// arithmetic, grid interval selection, and clock-style formatting.
//
// Nothing in this package holds state; every function is a plain
// computation over its arguments.
package timescale

// Clamp limits v to [lo, hi]. Callers guarantee lo <= hi.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapRange maps v affinely from [inLo, inHi] to [outLo, outHi].
// A zero-width input range maps everything to outLo.
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)/(inHi-inLo)*(outHi-outLo)
}

// ZoomAtPoint scales the view window [viewStart, viewEnd] by factor
// (< 1 zooms in, > 1 zooms out) while holding center's fractional
// position within the window fixed. The new width is floored at
// minDur and capped at the data width; if the repositioned window
// overflows [dataStart, dataEnd] it is clamped by translation, never
// by re-scaling.
func ZoomAtPoint(viewStart, viewEnd, factor, center, dataStart, dataEnd, minDur float64) (newStart, newEnd float64) {
	width := viewEnd - viewStart
	newWidth := width * factor
	if newWidth < minDur {
		newWidth = minDur
	}
	if dataWidth := dataEnd - dataStart; newWidth > dataWidth {
		newWidth = dataWidth
	}

	ratio := 0.5
	if width > 0 {
		ratio = (center - viewStart) / width
	}
	newStart = center - ratio*newWidth
	newEnd = newStart + newWidth

	if newStart < dataStart {
		newEnd += dataStart - newStart
		newStart = dataStart
	}
	if newEnd > dataEnd {
		newStart -= newEnd - dataEnd
		newEnd = dataEnd
	}
	if newStart < dataStart {
		newStart = dataStart
	}
	return newStart, newEnd
}

// PanView translates the view window by delta, clamped by translation
// so it never exits [dataStart, dataEnd]. The window width is
// invariant under pan.
func PanView(viewStart, viewEnd, delta, dataStart, dataEnd float64) (newStart, newEnd float64) {
	newStart = viewStart + delta
	newEnd = viewEnd + delta
	if newStart < dataStart {
		newEnd += dataStart - newStart
		newStart = dataStart
	}
	if newEnd > dataEnd {
		newStart -= newEnd - dataEnd
		newEnd = dataEnd
	}
	if newStart < dataStart {
		newStart = dataStart
	}
	return newStart, newEnd
}
