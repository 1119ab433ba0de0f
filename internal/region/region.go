// Package region resolves the span of a buffer an editor command operates on.
//
// Offsets are byte offsets into the buffer string. Regions are half-open:
// [Start, End).
package region

// Region is a half-open span [Start, End) over a buffer.
// Start <= End once normalized.
type Region struct {
	Start int
	End   int
}

func New(start, end int) Region {
	return Normalize(Region{Start: start, End: end})
}

// Empty reports whether the region covers no text. An empty selection means
// "operate on the whole buffer".
func (r Region) Empty() bool {
	return r.Start == r.End
}

func (r Region) Len() int {
	return r.End - r.Start
}

// Normalize swaps Start and End when the region was given backwards, which is
// how editors report selections made from right to left.
func Normalize(r Region) Region {
	if r.Start <= r.End {
		return r
	}
	return Region{Start: r.End, End: r.Start}
}

// Clamp normalizes r and limits it to [0, bufferLen].
func Clamp(r Region, bufferLen int) Region {
	r = Normalize(r)
	r.Start = clampInt(r.Start, 0, bufferLen)
	r.End = clampInt(r.End, 0, bufferLen)
	return r
}

// Resolve returns the effective region for a command: the whole buffer when
// the selection is empty, the (clamped) selection otherwise.
func Resolve(selection Region, bufferLen int) Region {
	if bufferLen < 0 {
		bufferLen = 0
	}
	selection = Clamp(selection, bufferLen)
	if selection.Empty() {
		return Region{Start: 0, End: bufferLen}
	}
	return selection
}

// Text returns the part of buffer covered by r.
func Text(buffer string, r Region) string {
	r = Clamp(r, len(buffer))
	return buffer[r.Start:r.End]
}

// Replace returns buffer with the span r replaced by text.
func Replace(buffer string, r Region, text string) string {
	r = Clamp(r, len(buffer))
	return buffer[:r.Start] + text + buffer[r.End:]
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
