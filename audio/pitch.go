package audio

import (
	"math"
	"math/cmplx"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/gamemath"
	"gonum.org/v1/gonum/dsp/fourier"
)

// zeroCrossingPitch estimates frequency from the sign-change rate and maps it
// onto [0, 1] against ceiling.
func zeroCrossingPitch(samples []float32, sampleRate, ceiling float64) float64 {
	n := len(samples)
	if n < 2 || sampleRate <= 0 || ceiling <= 0 {
		return 0
	}
	crossings := 0
	prev := sample(samples[0]) >= 0
	for _, s := range samples[1:] {
		cur := sample(s) >= 0
		if cur != prev {
			crossings++
		}
		prev = cur
	}
	freq := float64(crossings) * sampleRate / (2 * float64(n))
	return gamemath.Clamp01(freq / ceiling)
}

// spectrum computes windowed FFT magnitudes for samples, caching the plan
// for the last frame length.
type spectrum struct {
	fft  *fourier.FFT
	n    int
	buf  []float64
	coef []complex128
	mags []float64
}

func (s *spectrum) magnitudes(samples []float32) []float64 {
	n := len(samples)
	if n != s.n {
		s.fft = fourier.NewFFT(n)
		s.n = n
		s.buf = make([]float64, n)
		s.coef = make([]complex128, n/2+1)
		s.mags = make([]float64, n/2+1)
	}
	for i, v := range samples {
		// Hann window
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		s.buf[i] = sample(v) * w
	}
	s.coef = s.fft.Coefficients(s.coef, s.buf)
	scale := 2 / float64(n)
	for i, c := range s.coef {
		s.mags[i] = cmplx.Abs(c) * scale
	}
	return s.mags
}

// spectralPitch scores how much the mid and high bands dominate the bass
// band. binHz is the width of one magnitude bin.
func spectralPitch(mags []float64, binHz float64, cfg config.AudioConfig) float64 {
	if len(mags) == 0 || binHz <= 0 {
		return 0
	}
	bass := bandEnergy(mags, binHz, cfg.BassBand) * cfg.BassWeight
	mid := bandEnergy(mags, binHz, cfg.MidBand)
	high := bandEnergy(mags, binHz, cfg.HighBand) * cfg.HighWeight

	total := bass + mid + high
	if total <= 1e-12 {
		return 0
	}
	p := (mid + 2*high) / (2 * total) * cfg.SpectralGain
	if high > mid {
		p *= cfg.HighBoost
	}
	return gamemath.Clamp01(p)
}

// bandEnergy blends the mean of v^1.5 with the band peak.
func bandEnergy(mags []float64, binHz float64, band [2]float64) float64 {
	lo := int(band[0] / binHz)
	hi := int(band[1] / binHz)
	if lo < 0 {
		lo = 0
	}
	if hi >= len(mags) {
		hi = len(mags) - 1
	}
	if hi < lo {
		return 0
	}
	var sum, peak float64
	for _, v := range mags[lo : hi+1] {
		if !gamemath.Finite(v) || v < 0 {
			continue
		}
		sum += math.Pow(v, 1.5)
		if v > peak {
			peak = v
		}
	}
	avg := sum / float64(hi-lo+1)
	return avg*0.7 + peak*0.3
}
