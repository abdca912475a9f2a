package config

// SensitivityConfig contains the microphone sensitivity steps cycled from the keyboard
type SensitivityConfig struct {
	GainSteps       []float64
	NoiseFloorSteps []float64
}

// Sensitivity is the global sensitivity step table
var Sensitivity SensitivityConfig

func init() {
	Sensitivity = SensitivityConfig{
		GainSteps:       []float64{1.0, 1.5, 2.0, 3.0, 4.0},
		NoiseFloorSteps: []float64{0.02, 0.05, 0.08, 0.12},
	}
}

// NextStep returns the step after current, wrapping to the first.
func NextStep(steps []float64, current float64) float64 {
	if len(steps) == 0 {
		return current
	}
	for i, s := range steps {
		if s > current+1e-9 {
			return steps[i]
		}
	}
	return steps[0]
}
