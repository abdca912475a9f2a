package audio

import "sort"

// History keeps the last few readings and reports their trimmed mean.
type History struct {
	values []float64
	next   int
	full   bool
	sorted []float64
}

// NewHistory returns a history of the given size, clamped to at least 1.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		values: make([]float64, size),
		sorted: make([]float64, 0, size),
	}
}

// Push records v and returns the trimmed mean of the stored readings.
func (h *History) Push(v float64) float64 {
	h.values[h.next] = v
	h.next = (h.next + 1) % len(h.values)
	if h.next == 0 {
		h.full = true
	}
	return h.Mean()
}

// Mean drops the lowest and highest readings when three or more are held
// and averages the rest.
func (h *History) Mean() float64 {
	n := h.Len()
	if n == 0 {
		return 0
	}
	h.sorted = append(h.sorted[:0], h.values[:n]...)
	if n < 3 {
		return average(h.sorted)
	}
	sort.Float64s(h.sorted)
	return average(h.sorted[1 : n-1])
}

// Len returns the number of readings held.
func (h *History) Len() int {
	if h.full {
		return len(h.values)
	}
	return h.next
}

// Reset forgets all readings.
func (h *History) Reset() {
	clear(h.values)
	h.next = 0
	h.full = false
}

func average(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
