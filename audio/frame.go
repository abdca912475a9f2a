// Package audio turns raw microphone frames into normalized loudness and pitch.
package audio

import "sync/atomic"

// Frame is one buffer of captured audio. Samples holds time-domain data in
// [-1, 1]; Spectrum optionally holds host-supplied frequency-bin magnitudes
// covering 0..SampleRate/2.
type Frame struct {
	Samples    []float32
	Spectrum   []float64
	SampleRate float64
}

// Empty reports whether the frame carries no data at all.
func (f Frame) Empty() bool {
	return len(f.Samples) == 0 && len(f.Spectrum) == 0
}

// Signal is the interpreted reading for one frame. Both fields are in [0, 1].
type Signal struct {
	Loudness float64
	Pitch    float64
}

// FrameSlot holds the most recent frame delivered by a capture callback.
// Store never blocks and overwrites any frame not yet taken.
type FrameSlot struct {
	latest atomic.Pointer[Frame]
	seq    atomic.Uint64
}

// Store publishes f as the latest frame.
func (s *FrameSlot) Store(f Frame) {
	s.latest.Store(&f)
	s.seq.Add(1)
}

// Take returns the latest frame and clears the slot.
func (s *FrameSlot) Take() (Frame, bool) {
	f := s.latest.Swap(nil)
	if f == nil {
		return Frame{}, false
	}
	return *f, true
}

// Delivered returns how many frames have been stored so far.
func (s *FrameSlot) Delivered() uint64 {
	return s.seq.Load()
}
