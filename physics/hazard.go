package physics

import (
	"github.com/automoto/squawk/level"
	"github.com/automoto/squawk/tags"
	"github.com/solarlune/resolv"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// hazard tracks the collapse of one Hazard platform.
type hazard struct {
	platform  *level.Platform
	obj       *resolv.Object
	timer     *gween.Tween
	progress  float64
	fallSpeed float64
	removed   bool
}

func newHazard(p *level.Platform, obj *resolv.Object, warnSeconds float64) *hazard {
	return &hazard{
		platform: p,
		obj:      obj,
		timer:    gween.New(0, 1, float32(warnSeconds), ease.Linear),
	}
}

// warn starts the countdown on a stable platform.
func (h *hazard) warn() {
	if h.platform.State != level.Stable {
		return
	}
	h.platform.State = level.Warning
	h.timer.Reset()
	h.progress = 0
}

// cancel returns a warning platform to stable. Falling never reverts.
func (h *hazard) cancel() {
	if h.platform.State != level.Warning {
		return
	}
	h.platform.State = level.Stable
	h.timer.Reset()
	h.progress = 0
}

// tick advances the countdown and reports whether the platform started
// falling during this call.
func (h *hazard) tick(dt float64) bool {
	if h.platform.State != level.Warning {
		return false
	}
	cur, done := h.timer.Update(float32(dt))
	h.progress = float64(cur)
	if !done {
		return false
	}
	h.platform.State = level.Falling
	h.obj.AddTags(tags.ResolvFalling)
	h.progress = 1
	return true
}

// fall drops a collapsed platform and reports whether it has left the level.
func (h *hazard) fall(dt, gravity, floor float64) bool {
	if h.platform.State != level.Falling || h.removed {
		return false
	}
	h.fallSpeed += gravity * dt
	h.platform.Y += h.fallSpeed * dt
	h.obj.Y = h.platform.Y
	if h.platform.Y > floor {
		h.removed = true
		return true
	}
	h.obj.Update()
	return false
}
