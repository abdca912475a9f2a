package audio

import "testing"

func TestHistory_TrimmedMean(t *testing.T) {
	h := NewHistory(4)
	h.Push(1)
	if got := h.Push(3); got != 2 {
		t.Errorf("Expected plain average of two readings, got %v", got)
	}
	h.Push(100)
	if got := h.Push(2); got != 2.5 {
		t.Errorf("Expected outliers trimmed to 2.5, got %v", got)
	}
}

func TestHistory_Wraps(t *testing.T) {
	h := NewHistory(3)
	for _, v := range []float64{9, 9, 9, 1, 1, 1} {
		h.Push(v)
	}
	if got := h.Mean(); got != 1 {
		t.Errorf("Expected old readings evicted, got %v", got)
	}
	if h.Len() != 3 {
		t.Errorf("Expected 3 readings, got %d", h.Len())
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(3)
	h.Push(5)
	h.Reset()
	if h.Len() != 0 || h.Mean() != 0 {
		t.Errorf("Expected empty history, got len=%d mean=%v", h.Len(), h.Mean())
	}
}

func TestFrameSlot_KeepsLatest(t *testing.T) {
	var s FrameSlot
	if _, ok := s.Take(); ok {
		t.Error("Expected empty slot")
	}
	s.Store(Frame{Samples: []float32{1}})
	s.Store(Frame{Samples: []float32{2}})
	f, ok := s.Take()
	if !ok || f.Samples[0] != 2 {
		t.Errorf("Expected latest frame, got %+v ok=%v", f, ok)
	}
	if _, ok := s.Take(); ok {
		t.Error("Expected slot drained after Take")
	}
	if s.Delivered() != 2 {
		t.Errorf("Expected 2 deliveries, got %d", s.Delivered())
	}
}
