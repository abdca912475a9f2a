package main

import (
	"errors"
	"image/color"
	"log"
	"time"

	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/game"
	"github.com/automoto/squawk/records"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a session to ebiten.Game. Ebiten calls Update and Draw from
// the same goroutine, so the snapshot's shared level is read safely.
type Game struct {
	cfg     *config.Config
	session *game.Session
	store   *records.Store
	last    time.Time
	best    []records.Run
	debug   bool
}

func NewGame(cfg *config.Config, session *game.Session, store *records.Store) *Game {
	g := &Game{cfg: cfg, session: session, store: store}
	g.loadBest()
	return g
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.session.Reset(); err != nil {
			log.Printf("Warning: Could not reset: %v", err)
		}
		g.loadBest()
		g.last = time.Time{}
	}
	g.handleSettings()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
		return nil
	}
	elapsed := now.Sub(g.last)
	g.last = now

	// Overruns are logged and counted by the session
	var overrun *game.OverrunError
	if _, err := g.session.Advance(elapsed); err != nil && !errors.As(err, &overrun) {
		return err
	}
	return nil
}

func (g *Game) handleSettings() {
	audio := g.session.Audio()
	changed := false

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		audio.Gain = config.NextStep(config.Sensitivity.GainSteps, audio.Gain)
		g.session.SetGain(audio.Gain)
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		audio.NoiseFloor = config.NextStep(config.Sensitivity.NoiseFloorSteps, audio.NoiseFloor)
		g.session.SetNoiseFloor(audio.NoiseFloor)
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if audio.PitchMode == config.PitchZeroCrossing {
			audio.PitchMode = config.PitchSpectral
		} else {
			audio.PitchMode = config.PitchZeroCrossing
		}
		g.session.SetPitchMode(audio.PitchMode)
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.debug = !g.debug
	}

	if changed {
		if err := g.store.SaveSettings(records.SettingsFrom(audio)); err != nil {
			log.Printf("Warning: Could not save settings: %v", err)
		}
	}
}

func (g *Game) loadBest() {
	runs, err := g.store.Runs()
	if err != nil {
		log.Printf("Warning: Could not load runs: %v", err)
		return
	}
	g.best = runs
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(config.Sky)
	snap := g.session.Snapshot()
	g.drawWorld(screen, snap)
	g.drawHUD(screen, snap)
	if snap.Status.Terminal() {
		g.drawBanner(screen, snap)
	}
}

func (g *Game) Layout(width, height int) (int, int) {
	return g.cfg.Display.Width, g.cfg.Display.Height
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
