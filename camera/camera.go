// Package camera follows the player through a level with a smoothed,
// bounded viewport.
package camera

import (
	"math"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/gamemath"
	"github.com/automoto/squawk/level"
	dmath "github.com/yohamta/donburi/features/math"
)

// Camera is the top-left corner of the viewport in world space and the
// position it is easing toward.
type Camera struct {
	X, Y             float64
	TargetX, TargetY float64
}

// WorldToScreen converts a world point to viewport coordinates.
func (c Camera) WorldToScreen(p dmath.Vec2) dmath.Vec2 {
	return dmath.Vec2{X: p.X - c.X, Y: p.Y - c.Y}
}

// ScreenToWorld converts a viewport point to world coordinates.
func (c Camera) ScreenToWorld(p dmath.Vec2) dmath.Vec2 {
	return dmath.Vec2{X: p.X + c.X, Y: p.Y + c.Y}
}

type shake struct {
	intensity float64
	duration  int
	elapsed   int
}

// Controller eases the camera toward the player.
type Controller struct {
	cfg    config.CameraConfig
	levelW float64
	levelH float64

	cam     Camera
	settled bool
	shake   shake
}

// NewController returns a controller for a level of the given size.
func NewController(cfg config.CameraConfig, levelW, levelH float64) *Controller {
	return &Controller{cfg: cfg, levelW: levelW, levelH: levelH}
}

// Update moves the camera toward the player's center and returns it. The
// first update after a reset jumps straight to the target.
func (c *Controller) Update(player dmath.Vec2) Camera {
	wantX := player.X - c.cfg.ViewWidth*c.cfg.OffsetX
	wantY := player.Y - c.cfg.ViewHeight*c.cfg.OffsetY

	if !c.settled {
		c.cam.TargetX, c.cam.TargetY = c.clampX(wantX), c.clampY(wantY)
		c.cam.X, c.cam.Y = c.cam.TargetX, c.cam.TargetY
		c.settled = true
		return c.cam
	}

	// Only retarget once the player leaves the deadzone
	if math.Abs(wantX-c.cam.TargetX) > c.cfg.DeadzoneX {
		c.cam.TargetX = wantX
	}
	if math.Abs(wantY-c.cam.TargetY) > c.cfg.DeadzoneY {
		c.cam.TargetY = wantY
	}
	c.cam.TargetX = c.clampX(c.cam.TargetX)
	c.cam.TargetY = c.clampY(c.cam.TargetY)

	c.cam.X = c.clampX(gamemath.Lerp(c.cam.X, c.cam.TargetX, c.cfg.SmoothingX))
	c.cam.Y = c.clampY(gamemath.Lerp(c.cam.Y, c.cam.TargetY, c.cfg.SmoothingY))

	if c.shake.elapsed < c.shake.duration {
		c.shake.elapsed++
	}
	return c.cam
}

// Camera returns the current camera.
func (c *Controller) Camera() Camera {
	return c.cam
}

// Reset forgets the current position so the next Update snaps to the player.
func (c *Controller) Reset(levelW, levelH float64) {
	c.levelW, c.levelH = levelW, levelH
	c.cam = Camera{}
	c.settled = false
	c.shake = shake{}
}

// Shake starts a decaying screen shake; a weaker shake never overrides a
// stronger one in progress.
func (c *Controller) Shake(intensity float64, frames int) {
	if c.shake.elapsed < c.shake.duration && intensity <= c.shake.intensity {
		return
	}
	c.shake = shake{intensity: intensity, duration: frames}
}

// ShakeOffset returns the render-only offset of the current shake.
func (c *Controller) ShakeOffset() (float64, float64) {
	s := c.shake
	if s.duration <= 0 || s.elapsed >= s.duration {
		return 0, 0
	}
	strength := s.intensity * float64(s.duration-s.elapsed) / float64(s.duration)
	return math.Sin(float64(s.elapsed)*1.1) * strength, math.Cos(float64(s.elapsed)*1.3) * strength
}

// ViewBounds returns the visible world rectangle.
func (c *Controller) ViewBounds() level.Rect {
	return level.Rect{X: c.cam.X, Y: c.cam.Y, W: c.cfg.ViewWidth, H: c.cfg.ViewHeight}
}

// InView reports whether r is visible, growing the view by padding on every side.
func (c *Controller) InView(r level.Rect, padding float64) bool {
	return c.ViewBounds().Grow(padding).Intersects(r)
}

func (c *Controller) clampX(x float64) float64 {
	return gamemath.Clamp(x, 0, math.Max(0, c.levelW-c.cfg.ViewWidth))
}

func (c *Controller) clampY(y float64) float64 {
	return gamemath.Clamp(y, 0, math.Max(0, c.levelH*c.cfg.MaxYFactor))
}
