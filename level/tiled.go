package level

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
	dmath "github.com/yohamta/donburi/features/math"
)

// Object group names read from TMX files.
const (
	groupPlatforms   = "Platforms"
	groupFlag        = "Flag"
	groupPlayerStart = "PlayerStart"
)

// LoadTiled parses a TMX map into a Level. Platforms come from the Platforms
// object group (bool property "hazard"), the goal from the first object in
// Flag and the spawn point from the first object in PlayerStart. It takes an
// fs.FS so callers can pass embed.FS or os.DirFS.
func LoadTiled(fsys fs.FS, tmxPath string) (*Level, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	lvl := &Level{
		Width:  float64(m.Width * m.TileWidth),
		Height: float64(m.Height * m.TileHeight),
	}

	for _, og := range m.ObjectGroups {
		switch og.Name {
		case groupPlatforms:
			for _, o := range og.Objects {
				p := &Platform{Rect: Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}}
				if o.Properties.GetBool("hazard") {
					p.Kind = Hazard
				}
				lvl.Platforms = append(lvl.Platforms, p)
			}
		case groupFlag:
			if len(og.Objects) > 0 {
				o := og.Objects[0]
				lvl.Flag = Flag{Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}}
			}
		case groupPlayerStart:
			if len(og.Objects) > 0 {
				lvl.PlayerStart = dmath.Vec2{X: og.Objects[0].X, Y: og.Objects[0].Y}
			}
		}
	}

	// Consecutive-hazard checks run left to right
	sort.SliceStable(lvl.Platforms, func(i, j int) bool {
		return lvl.Platforms[i].X < lvl.Platforms[j].X
	})

	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	return lvl, nil
}

// LoadAllTiled loads every .tmx file in dir, keyed by file stem, plus a
// sorted list of names.
func LoadAllTiled(fsys fs.FS, dir string) (map[string]*Level, []string, error) {
	pattern := path.Join(dir, "*.tmx")
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	levels := make(map[string]*Level, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		lvl, err := LoadTiled(fsys, match)
		if err != nil {
			return nil, nil, err
		}
		stem := strings.TrimSuffix(path.Base(match), ".tmx")
		levels[stem] = lvl
		names = append(names, stem)
	}
	sort.Strings(names)
	return levels, names, nil
}
