package level

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/gamemath"
	dmath "github.com/yohamta/donburi/features/math"
)

// Generator builds random levels within the configured bounds.
type Generator struct {
	cfg config.LevelConfig
	env Envelope
}

// NewGenerator validates cfg against the jump envelope.
func NewGenerator(cfg config.LevelConfig, env Envelope) (*Generator, error) {
	switch {
	case cfg.MinPlatformWidth <= 0 || cfg.MaxPlatformWidth < cfg.MinPlatformWidth:
		return nil, fmt.Errorf("platform width %v-%v: invalid range", cfg.MinPlatformWidth, cfg.MaxPlatformWidth)
	case cfg.MinGap < 0 || cfg.MaxGap < cfg.MinGap:
		return nil, fmt.Errorf("gap %v-%v: invalid range", cfg.MinGap, cfg.MaxGap)
	case cfg.MinHeightBand < 0 || cfg.MaxHeightBand > 1 || cfg.MaxHeightBand < cfg.MinHeightBand:
		return nil, fmt.Errorf("height band %v-%v: invalid range", cfg.MinHeightBand, cfg.MaxHeightBand)
	}

	if cfg.MaxHeightDelta > env.MaxRise() {
		return nil, fmt.Errorf("height delta %v above max rise %.1f: %w", cfg.MaxHeightDelta, env.MaxRise(), ErrUnreachable)
	}
	widest := max(cfg.MaxGap*cfg.SteepGapMult, cfg.MaxGap, cfg.StartX-cfg.StartPlatformWidth)
	if reach := env.Reach(cfg.MaxHeightDelta); widest > reach {
		return nil, fmt.Errorf("gap %v above reach %.1f: %w", widest, reach, ErrUnreachable)
	}
	return &Generator{cfg: cfg, env: env}, nil
}

// Envelope returns the jump envelope the generator was checked against.
func (g *Generator) Envelope() Envelope {
	return g.env
}

// Generate lays out a level of the given size. A fixed seed yields the same
// level on every call.
func (g *Generator) Generate(width, height float64) (*Level, error) {
	cfg := g.cfg
	maxGap := cfg.MaxGap * max(cfg.SteepGapMult, 1)
	if width < cfg.StartX+cfg.MaxPlatformWidth+maxGap+cfg.FinalPlatformWidth || height <= 0 {
		return nil, fmt.Errorf("generate %.0fx%.0f: %w", width, height, ErrTooSmall)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	ground := height * cfg.GroundLevel
	lvl := &Level{
		Width:       width,
		Height:      height,
		PlayerStart: dmath.Vec2{X: cfg.PlayerStartX, Y: ground},
		Seed:        seed,
	}

	start := &Platform{Rect: Rect{X: 0, Y: ground, W: cfg.StartPlatformWidth, H: cfg.PlatformHeight}}
	lvl.Platforms = append(lvl.Platforms, start)

	bandLo, bandHi := height*cfg.MinHeightBand, height*cfg.MaxHeightBand
	prev := start
	limit := width - maxGap - cfg.FinalPlatformWidth

	for x := cfg.StartX; ; {
		y := gamemath.Clamp(prev.Y+uniform(rng, -cfg.MaxHeightDelta, cfg.MaxHeightDelta), bandLo, bandHi)
		y = gamemath.Clamp(y, prev.Y-cfg.MaxHeightDelta, prev.Y+cfg.MaxHeightDelta)
		if prev != start {
			x = prev.Right() + g.gap(rng, prev.Y-y)
		}
		w := uniform(rng, cfg.MinPlatformWidth, cfg.MaxPlatformWidth)
		if x+w > limit {
			break
		}

		p := &Platform{Rect: Rect{X: x, Y: y, W: w, H: cfg.PlatformHeight}}
		if prev.Kind != Hazard && rng.Float64() < cfg.HazardProbability {
			p.Kind = Hazard
		}
		lvl.Platforms = append(lvl.Platforms, p)
		prev = p
	}

	// The goal always sits above its approach and may leave the band to do so
	rise := uniform(rng, cfg.MaxHeightDelta/2, cfg.MaxHeightDelta)
	fy := math.Max(prev.Y-rise, math.Min(cfg.FlagHeight, prev.Y))
	final := &Platform{Rect: Rect{
		X: prev.Right() + g.gap(rng, prev.Y-fy),
		Y: fy,
		W: cfg.FinalPlatformWidth,
		H: cfg.PlatformHeight,
	}}
	lvl.Platforms = append(lvl.Platforms, final)

	fx := final.Right() - cfg.FlagInset
	if fx+cfg.FlagWidth > final.Right() {
		fx = final.Right() - cfg.FlagWidth
	}
	lvl.Flag = Flag{Rect{X: fx, Y: final.Y - cfg.FlagHeight, W: cfg.FlagWidth, H: cfg.FlagHeight}}

	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("generate seed %d: %w", seed, err)
	}
	return lvl, nil
}

// gap draws the horizontal distance to the next platform, widened for steep
// height changes.
func (g *Generator) gap(rng *rand.Rand, delta float64) float64 {
	d := uniform(rng, g.cfg.MinGap, g.cfg.MaxGap)
	if math.Abs(delta) > g.cfg.SteepDelta {
		d *= g.cfg.SteepGapMult
	}
	return d
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
