package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/fonts"
	"github.com/automoto/squawk/game"
	"github.com/automoto/squawk/level"
	"github.com/automoto/squawk/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	dmath "github.com/yohamta/donburi/features/math"
	"golang.org/x/image/font"
)

const (
	cullPadding = 64
	meterWidth  = 160
	meterHeight = 8
)

func (g *Game) drawWorld(screen *ebiten.Image, snap game.Snapshot) {
	fillRect := func(r level.Rect, clr color.Color) {
		at := snap.Camera.WorldToScreen(dmath.Vec2{X: r.X, Y: r.Y}).Add(snap.Shake)
		vector.FillRect(screen, float32(at.X), float32(at.Y), float32(r.W), float32(r.H), clr, false)
	}

	for _, p := range snap.Level.PlatformsInArea(snap.View.Grow(cullPadding)) {
		switch p.Kind {
		case level.Normal:
			fillRect(p.Rect, config.Slate)
		case level.Hazard:
			switch p.State {
			case level.Stable:
				fillRect(p.Rect, config.Orange)
			case level.Warning:
				progress := g.session.WarningProgress(p)
				fillRect(p.Rect, mix(config.Orange, config.Red, progress))
				bar := level.Rect{X: p.X, Y: p.Y - 4, W: p.W * (1 - progress), H: 2}
				fillRect(bar, config.Red)
			case level.Falling:
				fillRect(p.Rect, config.Red)
			}
		}
	}

	if goal := snap.Level.Flag.Rect; g.session.InView(goal, cullPadding) {
		pole := level.Rect{X: goal.X, Y: goal.Y, W: 4, H: goal.H}
		cloth := level.Rect{X: goal.X + 4, Y: goal.Y, W: goal.W - 4, H: goal.H / 2.5}
		fillRect(pole, config.White)
		fillRect(cloth, config.LightGreen)
	}

	fillRect(snap.Player.Rect(), config.BrightYellow)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap game.Snapshot) {
	hud := fonts.HUD.Get()
	lineH := hud.Metrics().Height.Ceil()
	x, y := 16, 16+lineH

	text.Draw(screen, fmt.Sprintf("%.1fm  %s", snap.Stats.Distance, snap.Stats.Elapsed.Round(100*time.Millisecond)), hud, x, y, config.White)
	y += lineH / 2

	drawMeter(screen, x, y, snap.Signal.Loudness, config.LightBlue)
	drawMeter(screen, x, y+meterHeight+4, snap.Signal.Pitch, config.BrightOrange)
	y += 2*meterHeight + 8 + lineH

	audio := g.session.Audio()
	small := fonts.Debug.Get()
	text.Draw(screen, fmt.Sprintf("gain %.1f [G]  floor %.2f [N]  pitch %s [P]", audio.Gain, audio.NoiseFloor, audio.PitchMode), small, x, y, config.White)

	if len(g.best) > 0 {
		best := g.best[0]
		label := fmt.Sprintf("best %.1fm", best.Distance)
		if best.Won {
			label = fmt.Sprintf("best %s", best.Elapsed.Round(100*time.Millisecond))
		}
		drawRight(screen, label, small, g.cfg.Display.Width-16, 16+lineH, config.White)
	}

	if g.debug {
		s := snap.Stats
		dbg := fmt.Sprintf("tps %.0f  ticks %d  frames %d  overruns %d (%v)  collapsed %d  seed %d",
			s.TicksPerSecond, s.Ticks, s.Frames, s.Overruns, s.Dropped, s.Collapsed, snap.Level.Seed)
		text.Draw(screen, dbg, small, x, g.cfg.Display.Height-12-lineH, config.White)

		cx, cy := ebiten.CursorPosition()
		cursor := snap.Camera.ScreenToWorld(dmath.Vec2{X: float64(cx), Y: float64(cy)})
		text.Draw(screen, fmt.Sprintf("cursor %.0f, %.0f", cursor.X, cursor.Y), small, x, g.cfg.Display.Height-12, config.White)
	}
}

func (g *Game) drawBanner(screen *ebiten.Image, snap game.Snapshot) {
	w, h := g.cfg.Display.Width, g.cfg.Display.Height
	vector.FillRect(screen, 0, 0, float32(w), float32(h), config.BlackOverlay, false)

	title, clr := "You made it!", config.LightGreen
	if snap.Status == physics.Lose {
		title, clr = "Squawked out", config.Red
	}
	banner := fonts.Banner.Get()
	drawCentered(screen, title, banner, w/2, h/2, clr)

	hint := fmt.Sprintf("%.1fm in %s  -  press R to play again", snap.Stats.Distance, snap.Stats.Elapsed.Round(100*time.Millisecond))
	drawCentered(screen, hint, fonts.HUD.Get(), w/2, h/2+banner.Metrics().Height.Ceil(), config.White)
}

func drawMeter(screen *ebiten.Image, x, y int, v float64, clr color.Color) {
	vector.FillRect(screen, float32(x), float32(y), meterWidth, meterHeight, config.BlackOverlay, false)
	vector.FillRect(screen, float32(x), float32(y), float32(meterWidth*v), meterHeight, clr, false)
}

func drawCentered(screen *ebiten.Image, s string, face font.Face, cx, y int, clr color.Color) {
	w := font.MeasureString(face, s).Ceil()
	text.Draw(screen, s, face, cx-w/2, y, clr)
}

func drawRight(screen *ebiten.Image, s string, face font.Face, right, y int, clr color.Color) {
	w := font.MeasureString(face, s).Ceil()
	text.Draw(screen, s, face, right-w, y, clr)
}
