package audio

import (
	"math"

	"github.com/automoto/squawk/gamemath"
)

// Level returns the RMS and absolute peak of samples. Non-finite samples
// count as zero.
func Level(samples []float32) (rms, peak float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range samples {
		v := sample(s)
		sum += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return math.Sqrt(sum / float64(len(samples))), peak
}

// SpectrumLevel approximates RMS and peak from bin magnitudes for hosts that
// only deliver frequency data.
func SpectrumLevel(mags []float64) (rms, peak float64) {
	if len(mags) == 0 {
		return 0, 0
	}
	var sum float64
	for _, m := range mags {
		if !gamemath.Finite(m) {
			continue
		}
		m = math.Abs(m)
		sum += m * m
		if m > peak {
			peak = m
		}
	}
	return math.Sqrt(sum / float64(len(mags))), peak
}

// normalizeFloor maps [floor, 1] onto [0, 1] and silences anything below floor.
func normalizeFloor(v, floor float64) float64 {
	v = gamemath.Clamp01(v)
	if v < floor || floor >= 1 {
		return 0
	}
	return (v - floor) / (1 - floor)
}

func sample(s float32) float64 {
	v := float64(s)
	if !gamemath.Finite(v) {
		return 0
	}
	return v
}
