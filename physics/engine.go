package physics

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/gamemath"
	"github.com/automoto/squawk/level"
	"github.com/automoto/squawk/motion"
	"github.com/automoto/squawk/tags"
	"github.com/solarlune/resolv"
)

// ErrNoLevel is returned when Initialize is called without a level.
var ErrNoLevel = errors.New("physics: no level")

const (
	contactEpsilon = 0.01
	stopEpsilon    = 0.5
)

// Engine owns the player, the collision space and the run status.
type Engine struct {
	cfg config.PhysicsConfig

	lvl     *level.Level
	space   *resolv.Space
	body    *resolv.Object
	flag    *resolv.Object
	hazards map[*level.Platform]*hazard

	player   Player
	cmd      motion.Command
	prevJump bool
	standing []*level.Platform
	status   Status
	crushed  bool
}

// NewEngine returns an engine with no level loaded.
func NewEngine(cfg config.PhysicsConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Initialize loads lvl, places player and resets the run to Playing.
func (e *Engine) Initialize(player Player, lvl *level.Level) error {
	if lvl == nil {
		return ErrNoLevel
	}
	if err := lvl.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}

	cell := max(e.cfg.CellSize, 1)
	e.space = resolv.NewSpace(
		int(math.Ceil(lvl.Width)),
		int(math.Ceil(lvl.Height+e.cfg.FallMargin))+cell,
		cell, cell,
	)
	e.hazards = make(map[*level.Platform]*hazard)

	for _, p := range lvl.Platforms {
		obj := resolv.NewObject(p.X, p.Y, p.W, p.H, tags.ResolvSolid)
		obj.Data = p
		if p.Kind == level.Hazard {
			e.hazards[p] = newHazard(p, obj, e.cfg.HazardWarning.Seconds())
		}
		e.space.Add(obj)
	}

	e.flag = resolv.NewObject(lvl.Flag.X, lvl.Flag.Y, lvl.Flag.W, lvl.Flag.H, tags.ResolvFlag)
	e.space.Add(e.flag)

	e.body = resolv.NewObject(player.X, player.Y, player.W, player.H, tags.ResolvPlayer)
	e.space.Add(e.body)

	e.lvl = lvl
	e.player = player
	e.cmd = motion.Command{}
	e.prevJump = false
	e.standing = e.standing[:0]
	e.status = Playing
	e.crushed = false
	e.updateSupport()

	log.Printf("Physics ready: %d platforms (%d hazards), %.0fx%.0f level",
		len(lvl.Platforms), lvl.Hazards(), lvl.Width, lvl.Height)
	return nil
}

// SetCommand stores the movement intent applied on the next Update. It is
// ignored once the run has ended.
func (e *Engine) SetCommand(cmd motion.Command) {
	if e.status.Terminal() {
		return
	}
	if !gamemath.Finite(cmd.Speed) {
		cmd.Speed = 0
	}
	if !gamemath.Finite(cmd.JumpForce) {
		cmd.JumpForce = 0
	}
	e.cmd = cmd
}

// Update advances the simulation by dt seconds and returns the status. Once
// Win or Lose is reached the player and status are frozen; collapsed
// platforms keep falling until they leave the level.
func (e *Engine) Update(dt float64) Status {
	if e.lvl == nil || !(dt > 0) {
		return e.status
	}
	if e.status.Terminal() {
		e.dropCollapsed(dt)
		return e.status
	}

	prev := e.player
	e.applyCommand(dt)
	e.applyGravity(dt)
	e.move(dt, prev)
	e.updateSupport()
	e.updateHazards(dt)
	e.updateStatus()
	return e.status
}

// Player returns a copy of the player state.
func (e *Engine) Player() Player {
	return e.player
}

// Status returns the current run status.
func (e *Engine) Status() Status {
	return e.status
}

// Level returns the loaded level.
func (e *Engine) Level() *level.Level {
	return e.lvl
}

// WarningProgress returns how far a hazard is through its warning, in [0, 1].
func (e *Engine) WarningProgress(p *level.Platform) float64 {
	if h, ok := e.hazards[p]; ok {
		return h.progress
	}
	return 0
}

func (e *Engine) applyCommand(dt float64) {
	p := &e.player

	if e.cmd.IsMoving {
		p.VelocityX = e.cmd.Speed
	} else if p.IsOnGround {
		p.VelocityX = gamemath.Damp(p.VelocityX, e.cfg.GroundFriction, stopEpsilon)
	} else {
		p.VelocityX = gamemath.Damp(p.VelocityX, e.cfg.AirResistance, stopEpsilon)
	}

	switch {
	case e.cmd.IsJumping && !e.prevJump && p.IsOnGround:
		p.VelocityY = e.cmd.JumpForce
		p.IsOnGround = false
		p.IsJumping = true
	case e.cmd.IsJumping && p.IsJumping && !p.IsOnGround:
		p.VelocityY += e.cmd.JumpForce * dt
	}
	e.prevJump = e.cmd.IsJumping
}

func (e *Engine) applyGravity(dt float64) {
	p := &e.player
	if p.IsOnGround {
		return
	}
	p.VelocityY = gamemath.ClampSpeed(p.VelocityY+e.cfg.Gravity*dt, e.cfg.TerminalVelocity)
}

// move integrates velocity and pushes the player out of any solid platform
// it ends up overlapping.
func (e *Engine) move(dt float64, prev Player) {
	p := &e.player
	p.X += p.VelocityX * dt
	p.Y += p.VelocityY * dt

	if p.X < 0 {
		p.X = 0
		p.VelocityX = math.Max(p.VelocityX, 0)
	}
	if right := e.lvl.Width - p.W; p.X > right {
		p.X = right
		p.VelocityX = math.Min(p.VelocityX, 0)
	}
	e.syncBody()

	check := e.body.Check(0, 0, tags.ResolvSolid)
	if check == nil {
		return
	}
	for _, obj := range check.ObjectsByTags(tags.ResolvSolid) {
		plat, ok := obj.Data.(*level.Platform)
		if !ok || !p.Rect().Intersects(plat.Rect) {
			continue
		}
		if obj.HasTags(tags.ResolvFalling) {
			e.crushed = true
			continue
		}
		e.resolve(plat, prev)
	}
	e.syncBody()
}

// resolve separates the player from plat. A box that was fully above or
// below the platform last tick resolves vertically; otherwise the axis of
// smaller penetration wins.
func (e *Engine) resolve(plat *level.Platform, prev Player) {
	p := &e.player
	r := p.Rect()

	overlapX := math.Min(r.Right(), plat.Right()) - math.Max(r.X, plat.X)
	overlapY := math.Min(r.Bottom(), plat.Bottom()) - math.Max(r.Y, plat.Y)

	wasAbove := prev.Y+prev.H <= plat.Y+contactEpsilon
	wasBelow := prev.Y >= plat.Bottom()-contactEpsilon

	vertical := overlapY <= overlapX
	if wasAbove || wasBelow {
		vertical = true
	} else if prev.X+prev.W <= plat.X+contactEpsilon || prev.X >= plat.Right()-contactEpsilon {
		vertical = false
	}

	if !vertical {
		if r.X+r.W/2 < plat.X+plat.W/2 {
			p.X = plat.X - p.W
		} else {
			p.X = plat.Right()
		}
		p.VelocityX = 0
		return
	}

	if wasAbove || (!wasBelow && r.Y+r.H/2 < plat.Y+plat.H/2) {
		p.Y = plat.Y - p.H
		if p.VelocityY > 0 {
			p.VelocityY = 0
		}
		p.IsOnGround = true
		p.IsJumping = false
		return
	}
	p.Y = plat.Bottom()
	if p.VelocityY < 0 {
		p.VelocityY = 0
	}
}

// updateSupport probes beneath the player's feet for platforms.
func (e *Engine) updateSupport() {
	p := &e.player
	e.standing = e.standing[:0]
	if p.VelocityY < 0 {
		p.IsOnGround = false
		return
	}

	probe := level.Rect{X: p.X, Y: p.Y + p.H, W: p.W, H: math.Max(e.cfg.SupportProbe, contactEpsilon)}
	if check := e.body.Check(0, probe.H, tags.ResolvSolid); check != nil {
		for _, obj := range check.ObjectsByTags(tags.ResolvSolid) {
			plat, ok := obj.Data.(*level.Platform)
			if !ok || !probe.Intersects(plat.Rect) || plat.Y < p.Y+p.H-contactEpsilon {
				continue
			}
			e.standing = append(e.standing, plat)
		}
	}

	p.IsOnGround = len(e.standing) > 0
	if p.IsOnGround {
		p.VelocityY = 0
		p.IsJumping = false
		// Snap onto the highest supporting top.
		top := e.standing[0].Y
		for _, s := range e.standing[1:] {
			top = math.Min(top, s.Y)
		}
		p.Y = top - p.H
		e.syncBody()
	}
}

func (e *Engine) updateHazards(dt float64) {
	onHazard := make(map[*level.Platform]bool, len(e.standing))
	for _, s := range e.standing {
		if s.Kind != level.Hazard {
			continue
		}
		onHazard[s] = true
		if s.Lethal() {
			e.crushed = true
		}
	}

	for plat, h := range e.hazards {
		switch plat.State {
		case level.Stable:
			if onHazard[plat] {
				h.warn()
			}
		case level.Warning:
			if !onHazard[plat] {
				h.cancel()
				continue
			}
			if h.tick(dt) {
				log.Printf("Hazard at x=%.0f collapsed under the player", plat.X)
				e.crushed = true
			}
		case level.Falling:
			// moved by dropCollapsed
		}
	}
	e.dropCollapsed(dt)
}

// dropCollapsed moves falling platforms and takes them out of the collision
// space once they are below the level.
func (e *Engine) dropCollapsed(dt float64) {
	floor := e.lvl.Height + e.cfg.FallMargin
	for _, h := range e.hazards {
		if h.fall(dt, e.cfg.HazardFallGravity, floor) {
			e.space.Remove(h.obj)
		}
	}
}

// Collapsed counts hazards that have fallen out of the level.
func (e *Engine) Collapsed() int {
	n := 0
	for _, h := range e.hazards {
		if h.removed {
			n++
		}
	}
	return n
}

// updateStatus applies the end conditions in order: hazard loss, reaching the
// flag, falling out of the level.
func (e *Engine) updateStatus() {
	p := e.player
	switch {
	case e.crushed:
		e.status = Lose
	case e.touchesFlag():
		e.status = Win
	case p.Y > e.lvl.Height+e.cfg.FallMargin:
		e.status = Lose
	}
	if e.status.Terminal() {
		log.Printf("Run ended: %v at (%.0f, %.0f)", e.status, p.X, p.Y)
	}
}

func (e *Engine) touchesFlag() bool {
	check := e.body.Check(0, 0, tags.ResolvFlag)
	if check == nil || len(check.ObjectsByTags(tags.ResolvFlag)) == 0 {
		return false
	}
	return e.player.Rect().Intersects(e.lvl.Flag.Rect)
}

func (e *Engine) syncBody() {
	e.body.X = e.player.X
	e.body.Y = e.player.Y
	e.body.Update()
}
