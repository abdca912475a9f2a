package level

import (
	"math"

	"github.com/automoto/squawk/config"
)

// Envelope bounds what a jump can cover using the weakest moving speed and
// the base launch force.
type Envelope struct {
	Speed        float64 // px/s
	JumpVelocity float64 // px/s, upward magnitude
	Gravity      float64 // px/s^2
}

// NewEnvelope derives the conservative jump envelope from tuning values.
func NewEnvelope(m config.MotionConfig, p config.PhysicsConfig) Envelope {
	return Envelope{
		Speed:        m.BaseSpeed + (m.MaxSpeed-m.BaseSpeed)*m.MinSpeedScale,
		JumpVelocity: math.Abs(m.BaseJumpForce),
		Gravity:      p.Gravity,
	}
}

// MaxRise is the apex height of a base jump.
func (e Envelope) MaxRise() float64 {
	if e.Gravity <= 0 {
		return math.Inf(1)
	}
	return e.JumpVelocity * e.JumpVelocity / (2 * e.Gravity)
}

// Reach is the horizontal distance covered before landing rise pixels above
// the take-off height. Negative rise means landing lower.
func (e Envelope) Reach(rise float64) float64 {
	if e.Gravity <= 0 {
		return math.Inf(1)
	}
	disc := e.JumpVelocity*e.JumpVelocity - 2*e.Gravity*rise
	if disc < 0 {
		return 0
	}
	t := (e.JumpVelocity + math.Sqrt(disc)) / e.Gravity
	return e.Speed * t
}

// Reachable reports whether a jump from the top of from lands on to.
func (e Envelope) Reachable(from, to Rect) bool {
	rise := from.Y - to.Y
	if rise > e.MaxRise() {
		return false
	}
	gap := to.X - from.Right()
	return gap <= e.Reach(rise)
}
