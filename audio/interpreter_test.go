package audio

import (
	"math"
	"testing"

	"github.com/automoto/squawk/config"
)

const testRate = 44100

func sine(freq, amp float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/testRate))
	}
	return out
}

func newTestInterpreter(mode config.PitchMode) *Interpreter {
	cfg := config.Default().Audio
	cfg.PitchMode = mode
	return NewInterpreter(cfg)
}

func TestAnalyze_SilenceIsZero(t *testing.T) {
	in := newTestInterpreter(config.PitchZeroCrossing)
	sig := in.Analyze(Frame{Samples: make([]float32, 1024), SampleRate: testRate})
	if sig.Loudness != 0 || sig.Pitch != 0 {
		t.Errorf("Expected silence to read {0 0}, got %+v", sig)
	}
}

func TestAnalyze_EmptyFrameIsSilence(t *testing.T) {
	in := newTestInterpreter(config.PitchSpectral)
	sig := in.Analyze(Frame{})
	if sig != (Signal{}) {
		t.Errorf("Expected empty frame to read as silence, got %+v", sig)
	}
}

func TestAnalyze_Normalized(t *testing.T) {
	frames := [][]float32{
		sine(440, 1, 1024),
		{5, -7, 3, 9},
		{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1)), 0.5},
		sine(4000, 0.9, 512),
	}
	for _, mode := range []config.PitchMode{config.PitchZeroCrossing, config.PitchSpectral} {
		in := newTestInterpreter(mode)
		for i, samples := range frames {
			sig := in.Analyze(Frame{Samples: samples, SampleRate: testRate})
			if sig.Loudness < 0 || sig.Loudness > 1 || sig.Pitch < 0 || sig.Pitch > 1 {
				t.Errorf("%v frame %d: expected values in [0,1], got %+v", mode, i, sig)
			}
			if math.IsNaN(sig.Loudness) || math.IsNaN(sig.Pitch) {
				t.Errorf("%v frame %d: expected no NaN, got %+v", mode, i, sig)
			}
		}
	}
}

func TestAnalyze_LouderReadsHigher(t *testing.T) {
	quiet := newTestInterpreter(config.PitchZeroCrossing).Analyze(Frame{Samples: sine(300, 0.05, 1024), SampleRate: testRate})
	loud := newTestInterpreter(config.PitchZeroCrossing).Analyze(Frame{Samples: sine(300, 0.2, 1024), SampleRate: testRate})
	if quiet.Loudness <= 0 {
		t.Errorf("Expected quiet tone above the noise floor, got %v", quiet.Loudness)
	}
	if loud.Loudness <= quiet.Loudness {
		t.Errorf("Expected louder tone to read higher, got quiet=%v loud=%v", quiet.Loudness, loud.Loudness)
	}
}

func TestAnalyze_BelowNoiseFloorIsSilent(t *testing.T) {
	in := newTestInterpreter(config.PitchZeroCrossing)
	sig := in.Analyze(Frame{Samples: sine(1000, 0.005, 1024), SampleRate: testRate})
	if sig.Loudness != 0 || sig.Pitch != 0 {
		t.Errorf("Expected sub-floor input to be silent, got %+v", sig)
	}
}

func TestAnalyze_ZeroCrossingPitchOrdering(t *testing.T) {
	low := newTestInterpreter(config.PitchZeroCrossing).Analyze(Frame{Samples: sine(200, 0.5, 1024), SampleRate: testRate})
	high := newTestInterpreter(config.PitchZeroCrossing).Analyze(Frame{Samples: sine(1500, 0.5, 1024), SampleRate: testRate})
	if high.Pitch <= low.Pitch {
		t.Errorf("Expected higher tone to read higher pitch, got low=%v high=%v", low.Pitch, high.Pitch)
	}
	if high.Pitch < 0.5 {
		t.Errorf("Expected 1500 Hz to read above 0.5, got %v", high.Pitch)
	}
}

func TestAnalyze_SpectralPitchOrdering(t *testing.T) {
	low := newTestInterpreter(config.PitchSpectral).Analyze(Frame{Samples: sine(150, 0.5, 1024), SampleRate: testRate})
	high := newTestInterpreter(config.PitchSpectral).Analyze(Frame{Samples: sine(3000, 0.5, 1024), SampleRate: testRate})
	if high.Pitch <= low.Pitch {
		t.Errorf("Expected treble to dominate, got low=%v high=%v", low.Pitch, high.Pitch)
	}
}

func TestAnalyze_HostSpectrum(t *testing.T) {
	mags := make([]float64, 512)
	mags[70] = 0.5 // ~3 kHz
	in := newTestInterpreter(config.PitchSpectral)
	sig := in.Analyze(Frame{Spectrum: mags, SampleRate: testRate})
	if sig.Loudness <= 0 {
		t.Errorf("Expected loudness from spectrum, got %v", sig.Loudness)
	}
	if sig.Pitch < 0.8 {
		t.Errorf("Expected high-band spectrum to read high pitch, got %v", sig.Pitch)
	}
}

func TestAnalyze_DecaysToSilence(t *testing.T) {
	in := newTestInterpreter(config.PitchZeroCrossing)
	in.Analyze(Frame{Samples: sine(440, 1, 1024), SampleRate: testRate})
	var sig Signal
	for range 6 {
		sig = in.Analyze(Frame{Samples: make([]float32, 1024), SampleRate: testRate})
	}
	if sig.Loudness != 0 {
		t.Errorf("Expected loudness to settle at 0, got %v", sig.Loudness)
	}
}

func TestInterpreter_Reset(t *testing.T) {
	in := newTestInterpreter(config.PitchZeroCrossing)
	in.Analyze(Frame{Samples: sine(440, 1, 1024), SampleRate: testRate})
	in.Reset()
	if in.Last() != (Signal{}) {
		t.Errorf("Expected reset to clear the last reading, got %+v", in.Last())
	}
	sig := in.Analyze(Frame{Samples: make([]float32, 1024), SampleRate: testRate})
	if sig != (Signal{}) {
		t.Errorf("Expected silence after reset, got %+v", sig)
	}
}
