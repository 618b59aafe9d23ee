package model

import "time"

const defaultHistoryCap = 60

// RunSample is the condensed record of one completed sweep kept for the
// trend strip.
type RunSample struct {
	At            time.Time
	TotalSum      int
	TotalCalls    int
	FailedRegions int
}

// RunHistory is a fixed-size ring buffer of RunSamples. When the buffer is
// full, new pushes overwrite the oldest entry. Nothing here is persisted.
type RunHistory struct {
	buf  []RunSample
	head int // index of the next write position
	size int // number of valid entries
}

// NewRunHistory creates a RunHistory with the given capacity.
// If capacity <= 0, the defaultHistoryCap (60) is used.
func NewRunHistory(capacity int) *RunHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &RunHistory{
		buf: make([]RunSample, capacity),
	}
}

// Push appends a new sample, overwriting the oldest if full.
func (h *RunHistory) Push(s RunSample) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid samples.
func (h *RunHistory) Len() int {
	return h.size
}

// Clear resets the history to empty.
func (h *RunHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Last returns the most recent sample, if any.
func (h *RunHistory) Last() (RunSample, bool) {
	if h.size == 0 {
		return RunSample{}, false
	}
	idx := (h.head - 1 + len(h.buf)) % len(h.buf)
	return h.buf[idx], true
}

// Totals returns TotalSum per sample in chronological order (oldest first).
func (h *RunHistory) Totals() []float64 {
	out := make([]float64, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = float64(h.buf[(start+i)%len(h.buf)].TotalSum)
	}
	return out
}
