// Package level holds level geometry and produces playable levels, either
// procedurally or from Tiled maps.
package level

import (
	"errors"
	"fmt"

	"github.com/yohamta/donburi/features/math"
)

var (
	ErrNoPlatforms        = errors.New("level has no platforms")
	ErrConsecutiveHazards = errors.New("level has consecutive hazard platforms")
	ErrNoFlag             = errors.New("level has no flag")
	ErrTooSmall           = errors.New("level bounds too small")
	ErrUnreachable        = errors.New("generator bounds exceed jump envelope")
)

// Rect is an axis-aligned box in screen coordinates (y grows downward).
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether the boxes overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Kind distinguishes safe platforms from collapsing ones.
type Kind int

const (
	Normal Kind = iota
	Hazard
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Hazard:
		return "hazard"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HazardState is the collapse lifecycle of a Hazard platform.
type HazardState int

const (
	Stable HazardState = iota
	Warning
	Falling
)

func (s HazardState) String() string {
	switch s {
	case Stable:
		return "stable"
	case Warning:
		return "warning"
	case Falling:
		return "falling"
	}
	return fmt.Sprintf("HazardState(%d)", int(s))
}

// Platform is a solid box. State only changes for Hazard platforms.
type Platform struct {
	Rect
	Kind  Kind
	State HazardState
}

// Lethal reports whether touching the platform loses the run.
func (p *Platform) Lethal() bool {
	switch p.Kind {
	case Hazard:
		return p.State == Falling
	case Normal:
		return false
	}
	return false
}

// Flag is the goal marker.
type Flag struct {
	Rect
}

// Level is one playable layout. PlayerStart is where the player's feet rest.
type Level struct {
	Width       float64
	Height      float64
	Platforms   []*Platform
	Flag        Flag
	PlayerStart math.Vec2
	Seed        uint64
}

// Validate checks the structural invariants of the level.
func (l *Level) Validate() error {
	if len(l.Platforms) == 0 {
		return ErrNoPlatforms
	}
	if l.Flag.W <= 0 || l.Flag.H <= 0 {
		return ErrNoFlag
	}
	for i := 1; i < len(l.Platforms); i++ {
		if l.Platforms[i].Kind == Hazard && l.Platforms[i-1].Kind == Hazard {
			return fmt.Errorf("platforms %d and %d: %w", i-1, i, ErrConsecutiveHazards)
		}
	}
	return nil
}

// Grow returns r widened by d on every side.
func (r Rect) Grow(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// PlatformsInArea returns the platforms overlapping area.
func (l *Level) PlatformsInArea(area Rect) []*Platform {
	var out []*Platform
	for _, p := range l.Platforms {
		if p.Intersects(area) {
			out = append(out, p)
		}
	}
	return out
}

// Hazards counts hazard platforms.
func (l *Level) Hazards() int {
	n := 0
	for _, p := range l.Platforms {
		if p.Kind == Hazard {
			n++
		}
	}
	return n
}

// Clone returns a deep copy with every hazard back to Stable.
func (l *Level) Clone() *Level {
	c := *l
	c.Platforms = make([]*Platform, len(l.Platforms))
	for i, p := range l.Platforms {
		cp := *p
		cp.State = Stable
		c.Platforms[i] = &cp
	}
	return &c
}
