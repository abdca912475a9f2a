// Package physics moves the player through a level: gravity, collision
// against platforms, hazard collapse and win/lose detection.
package physics

import (
	"fmt"

	"github.com/automoto/squawk/level"
	"github.com/yohamta/donburi/features/math"
)

// Status is the outcome of the run so far.
type Status int

const (
	Playing Status = iota
	Win
	Lose
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Win:
		return "win"
	case Lose:
		return "lose"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether the run has ended.
func (s Status) Terminal() bool {
	return s != Playing
}

// Player is the avatar's kinematic state in screen coordinates.
type Player struct {
	X, Y, W, H float64
	VelocityX  float64
	VelocityY  float64
	IsOnGround bool
	IsJumping  bool
}

// NewPlayer places a player of size w x h with its feet at start.
func NewPlayer(start math.Vec2, w, h float64) Player {
	return Player{X: start.X, Y: start.Y - h, W: w, H: h}
}

// Rect returns the player's bounding box.
func (p Player) Rect() level.Rect {
	return level.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Center returns the middle of the bounding box.
func (p Player) Center() math.Vec2 {
	return math.Vec2{X: p.X + p.W/2, Y: p.Y + p.H/2}
}
