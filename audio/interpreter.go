package audio

import (
	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/gamemath"
)

// Interpreter converts frames into smoothed, noise-floored signals. It is not
// safe for concurrent use; the game tick owns it.
type Interpreter struct {
	cfg config.AudioConfig

	loudness float64
	pitch    float64

	loudHist  *History
	pitchHist *History
	spec      spectrum

	last Signal
}

// NewInterpreter returns an interpreter in the silent state.
func NewInterpreter(cfg config.AudioConfig) *Interpreter {
	return &Interpreter{
		cfg:       cfg,
		loudHist:  NewHistory(cfg.HistorySize),
		pitchHist: NewHistory(cfg.HistorySize),
	}
}

// Analyze interprets one frame. An empty frame is treated as silence.
func (in *Interpreter) Analyze(f Frame) Signal {
	rms, peak := Level(f.Samples)
	if len(f.Samples) == 0 {
		rms, peak = SpectrumLevel(f.Spectrum)
	}
	raw := (in.cfg.RMSWeight*rms + in.cfg.PeakWeight*peak) * in.cfg.Gain

	var rawPitch float64
	if raw >= in.cfg.NoiseFloor {
		rawPitch = in.estimatePitch(f) * in.cfg.PitchGain
	}

	in.loudness = in.loudness*in.cfg.Smoothing + raw*(1-in.cfg.Smoothing)
	in.pitch = in.pitch*in.cfg.PitchSmoothing + rawPitch*(1-in.cfg.PitchSmoothing)

	in.last = Signal{
		Loudness: gamemath.Clamp01(in.loudHist.Push(normalizeFloor(in.loudness, in.cfg.NoiseFloor))),
		Pitch:    gamemath.Clamp01(in.pitchHist.Push(normalizeFloor(in.pitch, in.cfg.NoiseFloor))),
	}
	return in.last
}

// Last returns the most recent reading.
func (in *Interpreter) Last() Signal {
	return in.last
}

// SetGain changes the input gain without resetting smoothing state.
func (in *Interpreter) SetGain(g float64) {
	in.cfg.Gain = g
}

// SetNoiseFloor changes the silence threshold.
func (in *Interpreter) SetNoiseFloor(v float64) {
	in.cfg.NoiseFloor = gamemath.Clamp(v, 0, 0.99)
}

// SetPitchMode switches the pitch estimator.
func (in *Interpreter) SetPitchMode(m config.PitchMode) {
	in.cfg.PitchMode = m
}

// Config returns the active settings.
func (in *Interpreter) Config() config.AudioConfig {
	return in.cfg
}

// Reset returns the interpreter to silence.
func (in *Interpreter) Reset() {
	in.loudness = 0
	in.pitch = 0
	in.loudHist.Reset()
	in.pitchHist.Reset()
	in.last = Signal{}
}

func (in *Interpreter) estimatePitch(f Frame) float64 {
	sr := f.SampleRate
	if sr <= 0 {
		sr = in.cfg.SampleRate
	}
	switch in.cfg.PitchMode {
	case config.PitchSpectral:
		if len(f.Spectrum) > 0 {
			return spectralPitch(f.Spectrum, sr/2/float64(len(f.Spectrum)), in.cfg)
		}
		if len(f.Samples) < 2 {
			return 0
		}
		mags := in.spec.magnitudes(f.Samples)
		return spectralPitch(mags, sr/float64(len(f.Samples)), in.cfg)
	default:
		return zeroCrossingPitch(f.Samples, sr, in.cfg.PitchCeilingHz)
	}
}
