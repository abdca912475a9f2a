package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/automoto/squawk/capture"
	"github.com/automoto/squawk/capture/mic"
	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/fonts"
	"github.com/automoto/squawk/game"
	"github.com/automoto/squawk/level"
	"github.com/automoto/squawk/physics"
	"github.com/automoto/squawk/records"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	seed := flag.Uint64("seed", 0, "Level seed (0 = random per level)")
	demo := flag.Bool("demo", false, "Play a scripted squawk pattern instead of the microphone")
	tiled := flag.String("tiled", "", "Tiled map (.tmx) or directory of maps to play instead of generated levels")
	mapName := flag.String("map", "", "Map name when -tiled is a directory (default: first)")
	pitch := flag.String("pitch", "", "Pitch estimator: zcr or spectral (default: saved setting)")
	headless := flag.Bool("headless", false, "Run without a window and print the result")
	width := flag.Float64("width", 0, "Generated level width in pixels")
	flag.Parse()

	cfg := config.Default()
	cfg.Level.Seed = *seed
	if *width > 0 {
		cfg.Display.LevelWidth = *width
	}

	// On failure Open logs and returns a store that keeps nothing
	store, _ := records.Open("squawk")
	if saved, err := store.LoadSettings(); err == nil && saved != nil {
		saved.Apply(&cfg.Audio)
	}
	if *pitch != "" {
		mode, ok := config.ParsePitchMode(*pitch)
		if !ok {
			log.Fatalf("Unknown pitch mode %q", *pitch)
		}
		cfg.Audio.PitchMode = mode
	}

	levels, err := levelSource(cfg, *tiled, *mapName)
	if err != nil {
		log.Fatalf("Failed to prepare levels: %v", err)
	}
	session, err := game.NewSession(cfg, levels)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	session.OnEnd(func(snap game.Snapshot) {
		recordRun(store, snap)
	})

	if err := startAudio(session, cfg, *demo); err != nil {
		log.Fatalf("Failed to start audio: %v", err)
	}
	defer func() {
		if err := session.Stop(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()

	if *headless {
		runHeadless(session, cfg)
		return
	}

	if err := fonts.LoadDefaults(cfg.Display); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}
	ebiten.SetWindowSize(cfg.Display.Width, cfg.Display.Height)
	ebiten.SetWindowTitle(cfg.Display.Title)
	ebiten.SetTPS(cfg.Loop.TickRate)

	if err := ebiten.RunGame(NewGame(cfg, session, store)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func levelSource(cfg *config.Config, tiled, mapName string) (game.LevelSource, error) {
	if tiled == "" {
		gen, err := level.NewGenerator(cfg.Level, level.NewEnvelope(cfg.Motion, cfg.Physics))
		if err != nil {
			return nil, err
		}
		return game.Generated{
			Generator: gen,
			Width:     cfg.Display.LevelWidth,
			Height:    float64(cfg.Display.Height),
		}, nil
	}

	info, err := os.Stat(tiled)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return game.LoadFixed(os.DirFS(filepath.Dir(tiled)), filepath.Base(tiled))
	}

	maps, names, err := level.LoadAllTiled(os.DirFS(tiled), ".")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no maps in %s", tiled)
	}
	if mapName == "" {
		mapName = names[0]
	}
	lvl, ok := maps[mapName]
	if !ok {
		return nil, fmt.Errorf("map %q not found in %s (have %v)", mapName, tiled, names)
	}
	log.Printf("Playing map %q", mapName)
	return game.Fixed{Level: lvl}, nil
}

// startAudio attaches the microphone, falling back to the demo script when
// no device can be opened.
func startAudio(session *game.Session, cfg *config.Config, demo bool) error {
	if demo {
		return session.Start(capture.DemoScript(cfg.Audio))
	}
	err := session.Start(mic.NewMicrophone(cfg.Audio))
	if err == nil {
		return nil
	}
	if !errors.Is(err, capture.ErrNoDevice) && !errors.Is(err, capture.ErrBusy) {
		return err
	}
	log.Printf("Warning: microphone unavailable (%v), playing demo input", err)
	return session.Start(capture.DemoScript(cfg.Audio))
}

func recordRun(store *records.Store, snap game.Snapshot) {
	run := records.Run{
		Won:      snap.Status == physics.Win,
		Distance: snap.Stats.Distance,
		Elapsed:  snap.Stats.Elapsed,
		At:       time.Now(),
	}
	if snap.Level != nil {
		run.Seed = snap.Level.Seed
	}
	best, err := store.Record(run)
	if err != nil {
		log.Printf("Warning: Could not record run: %v", err)
		return
	}
	if best {
		log.Printf("New best run: %s in %v, %.1fm", snap.Status, run.Elapsed.Round(time.Millisecond), run.Distance)
	}
}

func runHeadless(session *game.Session, cfg *config.Config) {
	loop := game.NewLoop(session, cfg.Loop.TickRate)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		loop.Stop()
	}()

	status := loop.Run()
	snap := session.Snapshot()
	fmt.Printf("%s: %.1fm in %v (seed %d, %d ticks, %d overruns)\n",
		status, snap.Stats.Distance, snap.Stats.Elapsed.Round(time.Millisecond),
		snap.Level.Seed, snap.Stats.Ticks, snap.Stats.Overruns)
}
