package config

import "time"

// PitchMode selects the pitch estimator used by the audio interpreter.
type PitchMode int

const (
	PitchZeroCrossing PitchMode = iota
	PitchSpectral
)

func (m PitchMode) String() string {
	switch m {
	case PitchZeroCrossing:
		return "zcr"
	case PitchSpectral:
		return "spectral"
	}
	return "unknown"
}

// ParsePitchMode maps a flag value to a PitchMode.
func ParsePitchMode(s string) (PitchMode, bool) {
	switch s {
	case "zcr", "zero-crossing":
		return PitchZeroCrossing, true
	case "spectral", "fft":
		return PitchSpectral, true
	}
	return PitchZeroCrossing, false
}

// AudioConfig contains signal interpretation values
type AudioConfig struct {
	SampleRate      float64
	FramesPerBuffer int

	// Loudness
	RMSWeight  float64 // Blend weight of RMS against peak
	PeakWeight float64
	Gain       float64
	Smoothing  float64 // EMA weight kept from the previous reading (0.0-1.0)
	NoiseFloor float64 // Readings below this are silence

	// Pitch
	PitchMode       PitchMode
	PitchCeilingHz  float64 // Zero-crossing frequency that maps to pitch 1.0
	PitchGain       float64
	PitchSmoothing  float64
	SpectralGain    float64
	BassBand        [2]float64 // Hz
	MidBand         [2]float64
	HighBand        [2]float64
	BassWeight      float64
	HighWeight      float64
	HighBoost       float64 // Applied when high band energy exceeds mid band
	HistorySize     int     // 3-4 readings, outliers trimmed
	StaleFrameAfter time.Duration
}

// MotionConfig contains audio-to-motion mapping values
type MotionConfig struct {
	// Speed (px/s)
	BaseSpeed     float64
	MaxSpeed      float64
	Acceleration  float64 // Blend factor toward target speed per update
	Deceleration  float64 // Multiplier applied per update when idle
	MinSpeedScale float64 // Speed ratio at the move threshold
	SpeedScale    float64 // Ratio slope above the knee
	SpeedKnee     float64 // Loudness where the curve switches segments
	MaxSpeedRatio float64
	StopEpsilon   float64

	// Momentum
	MaxMomentum   float64
	MomentumGain  float64
	MomentumDecay float64

	// Jump (px/s, negative is up)
	BaseJumpForce      float64
	MaxJumpForce       float64
	SustainedJumpForce float64
	MaxSustainedJump   time.Duration
	JumpPitchBoost     float64

	// Thresholds
	MoveThreshold    float64
	JumpThreshold    float64
	SustainThreshold float64

	// Cooldowns
	JumpCooldown time.Duration
	MoveCooldown time.Duration
}

// PhysicsConfig contains physics-related configuration values
type PhysicsConfig struct {
	Gravity          float64 // px/s^2
	TerminalVelocity float64 // px/s
	GroundFriction   float64 // Horizontal velocity multiplier per tick while grounded
	AirResistance    float64 // Horizontal velocity multiplier per tick while airborne
	FallMargin       float64 // Distance below the level that counts as a fall
	SupportProbe     float64 // Pixels probed beneath the player for ground
	CellSize         int     // Collision space cell size

	// Player
	PlayerWidth  float64
	PlayerHeight float64

	// Hazards
	HazardWarning     time.Duration
	HazardFallGravity float64
}

// LevelConfig contains procedural generation values
type LevelConfig struct {
	Seed uint64 // 0 picks a fresh seed per level

	PlatformHeight    float64
	MinPlatformWidth  float64
	MaxPlatformWidth  float64
	MinGap            float64
	MaxGap            float64
	MaxHeightDelta    float64
	SteepDelta        float64 // Height changes above this widen the gap
	SteepGapMult      float64
	MinHeightBand     float64 // Fraction of level height
	MaxHeightBand     float64
	HazardProbability float64

	StartPlatformWidth float64
	GroundLevel        float64 // Fraction of level height for the start platform
	StartX             float64 // First generated platform
	PlayerStartX       float64
	FinalPlatformWidth float64
	FlagWidth          float64
	FlagHeight         float64
	FlagInset          float64 // Distance from the final platform's right edge
}

// CameraConfig contains viewport follow values
type CameraConfig struct {
	ViewWidth  float64
	ViewHeight float64
	OffsetX    float64 // Fraction of view width where the player is kept
	OffsetY    float64
	DeadzoneX  float64
	DeadzoneY  float64
	SmoothingX float64 // How fast camera follows player (0.0-1.0)
	SmoothingY float64
	MaxYFactor float64 // Vertical clamp as a fraction of level height
}

// LoopConfig contains fixed timestep values
type LoopConfig struct {
	TickRate       int
	MaxStepsPerRun int
	MaxFrameDelta  time.Duration
}

// DisplayConfig contains reference renderer values
type DisplayConfig struct {
	Width         int
	Height        int
	LevelWidth    float64
	Title         string
	HUDFontSize   float64
	DebugFontSize float64
}

// Config aggregates every tunable section
type Config struct {
	Audio   AudioConfig
	Motion  MotionConfig
	Physics PhysicsConfig
	Level   LevelConfig
	Camera  CameraConfig
	Loop    LoopConfig
	Display DisplayConfig
}

// Default returns the tuned configuration.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:      44100,
			FramesPerBuffer: 1024,

			RMSWeight:  0.7,
			PeakWeight: 0.3,
			Gain:       2.0,
			Smoothing:  0.1,
			NoiseFloor: 0.05,

			PitchMode:       PitchZeroCrossing,
			PitchCeilingHz:  2000,
			PitchGain:       1.0,
			PitchSmoothing:  0.1,
			SpectralGain:    1.0,
			BassBand:        [2]float64{85, 255},
			MidBand:         [2]float64{255, 2000},
			HighBand:        [2]float64{2000, 6000},
			BassWeight:      0.3,
			HighWeight:      1.5,
			HighBoost:       1.2,
			HistorySize:     4,
			StaleFrameAfter: 250 * time.Millisecond,
		},
		Motion: MotionConfig{
			BaseSpeed:     180,
			MaxSpeed:      350,
			Acceleration:  0.12,
			Deceleration:  0.97,
			MinSpeedScale: 0.8,
			SpeedScale:    1.5,
			SpeedKnee:     0.3,
			MaxSpeedRatio: 1.5,
			StopEpsilon:   1.0,

			MaxMomentum:   80,
			MomentumGain:  0.3,
			MomentumDecay: 0.99,

			BaseJumpForce:      -350,
			MaxJumpForce:       -500,
			SustainedJumpForce: -150,
			MaxSustainedJump:   250 * time.Millisecond,
			JumpPitchBoost:     1.2,

			MoveThreshold:    0.1,
			JumpThreshold:    0.15,
			SustainThreshold: 0.1,

			JumpCooldown: 250 * time.Millisecond,
			MoveCooldown: 16 * time.Millisecond,
		},
		Physics: PhysicsConfig{
			Gravity:          800,
			TerminalVelocity: 600,
			GroundFriction:   0.85,
			AirResistance:    0.98,
			FallMargin:       100,
			SupportProbe:     1,
			CellSize:         16,

			PlayerWidth:  32,
			PlayerHeight: 32,

			HazardWarning:     2 * time.Second,
			HazardFallGravity: 600,
		},
		Level: LevelConfig{
			PlatformHeight:    20,
			MinPlatformWidth:  80,
			MaxPlatformWidth:  160,
			MinGap:            60,
			MaxGap:            120,
			MaxHeightDelta:    40,
			SteepDelta:        30,
			SteepGapMult:      1.2,
			MinHeightBand:     0.3,
			MaxHeightBand:     0.7,
			HazardProbability: 0.35,

			StartPlatformWidth: 250,
			GroundLevel:        0.75,
			StartX:             300,
			PlayerStartX:       100,
			FinalPlatformWidth: 200,
			FlagWidth:          32,
			FlagHeight:         64,
			FlagInset:          50,
		},
		Camera: CameraConfig{
			ViewWidth:  960,
			ViewHeight: 540,
			OffsetX:    0.3,
			OffsetY:    0.5,
			DeadzoneX:  10,
			DeadzoneY:  30,
			SmoothingX: 0.1,
			SmoothingY: 0.15,
			MaxYFactor: 0.5,
		},
		Loop: LoopConfig{
			TickRate:       60,
			MaxStepsPerRun: 5,
			MaxFrameDelta:  100 * time.Millisecond,
		},
		Display: DisplayConfig{
			Width:         960,
			Height:        540,
			LevelWidth:    4000,
			Title:         "Squawk",
			HUDFontSize:   18,
			DebugFontSize: 12,
		},
	}
}
