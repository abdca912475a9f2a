// Package records keeps sensitivity settings and the best runs on disk.
package records

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/automoto/squawk/config"
	"github.com/quasilyte/gdata"
)

const (
	settingsKey = "settings"
	runsKey     = "runs"

	// MaxRuns is how many runs the leaderboard keeps.
	MaxRuns = 10
)

// Backend stores raw items by key. *gdata.Manager satisfies it.
type Backend interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Settings represents the sensitivity values stored on disk
type Settings struct {
	Gain       float64 `json:"gain"`
	NoiseFloor float64 `json:"noiseFloor"`
	PitchMode  string  `json:"pitchMode"`
}

// Apply copies the saved values over cfg. Unknown pitch modes are ignored.
func (s *Settings) Apply(cfg *config.AudioConfig) {
	if s == nil {
		return
	}
	if s.Gain > 0 {
		cfg.Gain = s.Gain
	}
	if s.NoiseFloor >= 0 && s.NoiseFloor < 1 {
		cfg.NoiseFloor = s.NoiseFloor
	}
	if mode, ok := config.ParsePitchMode(s.PitchMode); ok {
		cfg.PitchMode = mode
	}
}

// SettingsFrom captures the current audio sensitivity.
func SettingsFrom(cfg config.AudioConfig) Settings {
	return Settings{Gain: cfg.Gain, NoiseFloor: cfg.NoiseFloor, PitchMode: cfg.PitchMode.String()}
}

// Run is one finished attempt.
type Run struct {
	Seed     uint64        `json:"seed"`
	Won      bool          `json:"won"`
	Distance float64       `json:"distance"` // meters
	Elapsed  time.Duration `json:"elapsed"`
	At       time.Time     `json:"at"`
}

// better orders wins before losses, faster wins first, then longer losses.
func better(a, b Run) int {
	switch {
	case a.Won != b.Won:
		if a.Won {
			return -1
		}
		return 1
	case a.Won:
		return cmp.Compare(a.Elapsed, b.Elapsed)
	}
	switch {
	case a.Distance > b.Distance:
		return -1
	case a.Distance < b.Distance:
		return 1
	}
	return 0
}

// Store reads and writes records. A Store without a backend keeps nothing.
type Store struct {
	backend Backend
}

var openBackend = func(app string) (Backend, error) {
	return gdata.Open(gdata.Config{AppName: app})
}

// Open returns a store in the per-user data directory for app. On failure
// the warning is logged here and the returned store keeps nothing.
func Open(app string) (*Store, error) {
	b, err := openBackend(app)
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return &Store{}, fmt.Errorf("open records: %w", err)
	}
	return NewStore(b), nil
}

func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// LoadSettings returns the saved settings, or nil when none exist yet.
func (s *Store) LoadSettings() (*Settings, error) {
	var settings Settings
	found, err := s.load(settingsKey, &settings)
	if !found || err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Store) SaveSettings(settings Settings) error {
	return s.save(settingsKey, settings)
}

// Runs returns the leaderboard, best first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	if _, err := s.load(runsKey, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// Record adds run to the leaderboard and reports whether it is the new best.
func (s *Store) Record(run Run) (bool, error) {
	runs, err := s.Runs()
	if err != nil {
		// A corrupt leaderboard is replaced rather than blocking new runs
		runs = nil
	}
	runs = append(runs, run)
	slices.SortStableFunc(runs, better)
	if len(runs) > MaxRuns {
		runs = runs[:MaxRuns]
	}
	if err := s.save(runsKey, runs); err != nil {
		return false, err
	}
	return runs[0] == run, nil
}

// ClearRuns removes the leaderboard.
func (s *Store) ClearRuns() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.SaveItem(runsKey, nil); err != nil {
		log.Printf("Warning: Could not clear runs: %v", err)
		return err
	}
	return nil
}

func (s *Store) load(key string, v any) (bool, error) {
	if s.backend == nil {
		return false, nil
	}
	data, err := s.backend.LoadItem(key)
	if err != nil {
		log.Printf("Warning: Could not load %s: %v", key, err)
		return false, nil
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Warning: Could not parse saved %s: %v", key, err)
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) save(key string, v any) error {
	if s.backend == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Warning: Could not serialize %s: %v", key, err)
		return err
	}
	if err := s.backend.SaveItem(key, data); err != nil {
		log.Printf("Warning: Could not save %s: %v", key, err)
		return err
	}
	return nil
}
