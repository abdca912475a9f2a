// Package motion maps interpreted audio signals onto movement commands.
package motion

import (
	"time"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/gamemath"
)

// maxStep bounds the elapsed time credited to a sustained jump between two
// updates, so a stalled tick cannot burn the whole sustain window at once.
const maxStep = 100 * time.Millisecond

// Command is the movement intent for one tick. JumpForce is a vertical
// velocity in screen coordinates; negative values point up.
type Command struct {
	Speed     float64
	JumpForce float64
	IsMoving  bool
	IsJumping bool
}

// State is the controller's internal state, exposed for display and tests.
type State struct {
	CurrentSpeed      float64
	Momentum          float64
	CurrentJumpForce  float64
	SustainedJumpTime time.Duration
	IsJumping         bool
	IsMoving          bool
	LastJumpTime      time.Time
	LastMoveTime      time.Time
}

// Controller turns (loudness, pitch) readings into Commands.
type Controller struct {
	cfg        config.MotionConfig
	state      State
	lastUpdate time.Time
}

// NewController returns a controller at rest.
func NewController(cfg config.MotionConfig) *Controller {
	return &Controller{cfg: cfg}
}

// Update advances the controller with one reading taken at now.
func (c *Controller) Update(loudness, pitch float64, now time.Time) Command {
	loudness = gamemath.Clamp01(loudness)
	pitch = gamemath.Clamp01(pitch)

	dt := c.step(now)
	c.updateMovement(loudness, now)
	c.updateJump(loudness, pitch, now, dt)

	return c.command()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Reset returns the controller to rest.
func (c *Controller) Reset() {
	c.state = State{}
	c.lastUpdate = time.Time{}
}

// TargetSpeed returns the speed the controller converges to for a held loudness.
func (c *Controller) TargetSpeed(loudness float64) float64 {
	ratio := c.volumeRatio(gamemath.Clamp01(loudness))
	return c.cfg.BaseSpeed + (c.cfg.MaxSpeed-c.cfg.BaseSpeed)*ratio
}

// JumpForceFor returns the launch force for a pitch reading above the jump threshold.
func (c *Controller) JumpForceFor(pitch float64) float64 {
	thr := c.cfg.JumpThreshold
	ratio := 0.0
	if thr < 1 {
		ratio = gamemath.Clamp01((pitch - thr) / (1 - thr) * c.cfg.JumpPitchBoost)
	}
	return c.cfg.BaseJumpForce + (c.cfg.MaxJumpForce-c.cfg.BaseJumpForce)*ratio
}

func (c *Controller) step(now time.Time) time.Duration {
	if c.lastUpdate.IsZero() || now.Before(c.lastUpdate) {
		c.lastUpdate = now
		return 0
	}
	dt := now.Sub(c.lastUpdate)
	c.lastUpdate = now
	if dt > maxStep {
		dt = maxStep
	}
	return dt
}

func (c *Controller) updateMovement(loudness float64, now time.Time) {
	s := &c.state
	if loudness > c.cfg.MoveThreshold {
		if !s.LastMoveTime.IsZero() && now.Sub(s.LastMoveTime) < c.cfg.MoveCooldown {
			return
		}
		target := c.TargetSpeed(loudness)
		s.Momentum = min(s.Momentum+c.cfg.MomentumGain, c.cfg.MaxMomentum)
		s.CurrentSpeed = s.CurrentSpeed*(1-c.cfg.Acceleration) + (target+s.Momentum)*c.cfg.Acceleration
		s.IsMoving = true
		s.LastMoveTime = now
		return
	}

	s.IsMoving = false
	s.CurrentSpeed = gamemath.Damp(s.CurrentSpeed, c.cfg.Deceleration, c.cfg.StopEpsilon)
	s.Momentum *= c.cfg.MomentumDecay
	if s.CurrentSpeed == 0 || s.Momentum < c.cfg.StopEpsilon {
		s.Momentum = 0
	}
}

// volumeRatio is linear from MinSpeedScale to 1 below the knee and steeper
// above it, capped at MaxSpeedRatio.
func (c *Controller) volumeRatio(loudness float64) float64 {
	knee := c.cfg.SpeedKnee
	if loudness < knee {
		return c.cfg.MinSpeedScale + (loudness/knee)*(1-c.cfg.MinSpeedScale)
	}
	return min(1+(loudness-knee)*c.cfg.SpeedScale, c.cfg.MaxSpeedRatio)
}

func (c *Controller) updateJump(loudness, pitch float64, now time.Time, dt time.Duration) {
	s := &c.state

	if !s.IsJumping {
		if pitch > c.cfg.JumpThreshold && loudness > c.cfg.MoveThreshold && c.jumpReady(now) {
			s.IsJumping = true
			s.CurrentJumpForce = c.JumpForceFor(pitch)
			s.SustainedJumpTime = 0
			s.LastJumpTime = now
		}
		return
	}

	if loudness > c.cfg.SustainThreshold && s.SustainedJumpTime < c.cfg.MaxSustainedJump {
		left := 1 - float64(s.SustainedJumpTime)/float64(c.cfg.MaxSustainedJump)
		s.CurrentJumpForce = c.cfg.SustainedJumpForce * left
		s.SustainedJumpTime += dt
		return
	}

	s.IsJumping = false
	s.CurrentJumpForce = 0
	s.SustainedJumpTime = 0
}

func (c *Controller) jumpReady(now time.Time) bool {
	return c.state.LastJumpTime.IsZero() || now.Sub(c.state.LastJumpTime) >= c.cfg.JumpCooldown
}

func (c *Controller) command() Command {
	s := c.state
	return Command{
		Speed:     s.CurrentSpeed,
		JumpForce: s.CurrentJumpForce,
		IsMoving:  s.IsMoving,
		IsJumping: s.IsJumping,
	}
}
