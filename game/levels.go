package game

import (
	"fmt"
	"io/fs"

	"github.com/automoto/squawk/level"
)

// LevelSource supplies a fresh level for every reset.
type LevelSource interface {
	Next() (*level.Level, error)
}

// Generated produces a new procedural level per reset.
type Generated struct {
	Generator *level.Generator
	Width     float64
	Height    float64
}

func (g Generated) Next() (*level.Level, error) {
	return g.Generator.Generate(g.Width, g.Height)
}

// Fixed replays one authored level, restoring its hazards each time.
type Fixed struct {
	Level *level.Level
}

func (f Fixed) Next() (*level.Level, error) {
	if f.Level == nil {
		return nil, level.ErrNoPlatforms
	}
	return f.Level.Clone(), nil
}

// LoadFixed reads a Tiled map into a Fixed source.
func LoadFixed(fsys fs.FS, path string) (Fixed, error) {
	lvl, err := level.LoadTiled(fsys, path)
	if err != nil {
		return Fixed{}, fmt.Errorf("level source: %w", err)
	}
	return Fixed{Level: lvl}, nil
}
