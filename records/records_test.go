package records

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/automoto/squawk/config"
)

type memBackend struct {
	items   map[string][]byte
	loadErr error
	saveErr error
}

func newMem() *memBackend {
	return &memBackend{items: map[string][]byte{}}
}

func (m *memBackend) LoadItem(key string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.items[key], nil
}

func (m *memBackend) SaveItem(key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[key] = data
	return nil
}

func TestSettings_RoundTrip(t *testing.T) {
	s := NewStore(newMem())
	got, err := s.LoadSettings()
	if got != nil || err != nil {
		t.Fatalf("Expected no settings yet, got %v, %v", got, err)
	}

	want := Settings{Gain: 3, NoiseFloor: 0.1, PitchMode: "spectral"}
	if err := s.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err = s.LoadSettings()
	if err != nil || got == nil || *got != want {
		t.Errorf("Expected %+v, got %+v (%v)", want, got, err)
	}
}

func TestSettings_CorruptData(t *testing.T) {
	mem := newMem()
	mem.items[settingsKey] = []byte("{not json")
	if _, err := NewStore(mem).LoadSettings(); err == nil {
		t.Error("Expected a parse error, got nil")
	}
}

func TestSettings_Apply(t *testing.T) {
	cfg := config.Default().Audio
	(&Settings{Gain: 4, NoiseFloor: 0.2, PitchMode: "fft"}).Apply(&cfg)
	if cfg.Gain != 4 || cfg.NoiseFloor != 0.2 || cfg.PitchMode != config.PitchSpectral {
		t.Errorf("Expected saved values applied, got gain %v floor %v mode %v", cfg.Gain, cfg.NoiseFloor, cfg.PitchMode)
	}

	before := cfg
	(&Settings{Gain: -1, NoiseFloor: 2, PitchMode: "bogus"}).Apply(&cfg)
	if cfg != before {
		t.Errorf("Expected invalid values ignored, got %+v", cfg)
	}

	var nilSettings *Settings
	nilSettings.Apply(&cfg)
}

func TestSettingsFrom(t *testing.T) {
	cfg := config.Default().Audio
	s := SettingsFrom(cfg)
	if s.Gain != cfg.Gain || s.NoiseFloor != cfg.NoiseFloor || s.PitchMode != "zcr" {
		t.Errorf("Expected settings mirroring config, got %+v", s)
	}
}

func TestRecord_Ordering(t *testing.T) {
	s := NewStore(newMem())
	at := time.Unix(1000, 0)
	runs := []Run{
		{Seed: 1, Distance: 12, At: at},
		{Seed: 2, Won: true, Elapsed: 40 * time.Second, At: at.Add(time.Minute)},
		{Seed: 3, Distance: 20, At: at.Add(2 * time.Minute)},
		{Seed: 4, Won: true, Elapsed: 30 * time.Second, At: at.Add(3 * time.Minute)},
	}
	best := []bool{true, true, false, true}
	for i, r := range runs {
		got, err := s.Record(r)
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		if got != best[i] {
			t.Errorf("Run %d: expected best=%v, got %v", i, best[i], got)
		}
	}

	saved, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	wantSeeds := []uint64{4, 2, 3, 1}
	if len(saved) != len(wantSeeds) {
		t.Fatalf("Expected %d runs, got %d", len(wantSeeds), len(saved))
	}
	for i, seed := range wantSeeds {
		if saved[i].Seed != seed {
			t.Errorf("Position %d: expected seed %d, got %d", i, seed, saved[i].Seed)
		}
	}
}

func TestRecord_KeepsTopRuns(t *testing.T) {
	s := NewStore(newMem())
	for i := range MaxRuns + 5 {
		if _, err := s.Record(Run{Seed: uint64(i), Distance: float64(i)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	saved, _ := s.Runs()
	if len(saved) != MaxRuns {
		t.Fatalf("Expected %d runs, got %d", MaxRuns, len(saved))
	}
	if saved[0].Distance != float64(MaxRuns+4) {
		t.Errorf("Expected longest run first, got %v", saved[0].Distance)
	}
}

func TestRecord_SaveFailure(t *testing.T) {
	mem := newMem()
	mem.saveErr = errors.New("disk full")
	if _, err := NewStore(mem).Record(Run{Distance: 1}); err == nil {
		t.Error("Expected save error, got nil")
	}
}

func TestRecord_ReplacesCorruptBoard(t *testing.T) {
	mem := newMem()
	mem.items[runsKey] = []byte("[")
	s := NewStore(mem)
	if _, err := s.Record(Run{Seed: 9, Distance: 3}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	saved, err := s.Runs()
	if err != nil || len(saved) != 1 || saved[0].Seed != 9 {
		t.Errorf("Expected a fresh board with seed 9, got %+v (%v)", saved, err)
	}
}

func TestClearRuns(t *testing.T) {
	s := NewStore(newMem())
	s.Record(Run{Distance: 5})
	if err := s.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns: %v", err)
	}
	saved, err := s.Runs()
	if err != nil || len(saved) != 0 {
		t.Errorf("Expected empty board, got %+v (%v)", saved, err)
	}
}

func TestStore_NoBackend(t *testing.T) {
	s := NewStore(nil)
	if err := s.SaveSettings(Settings{Gain: 1}); err != nil {
		t.Errorf("Expected no-op save, got %v", err)
	}
	if got, err := s.LoadSettings(); got != nil || err != nil {
		t.Errorf("Expected nothing loaded, got %v, %v", got, err)
	}
	if _, err := s.Record(Run{}); err != nil {
		t.Errorf("Expected no-op record, got %v", err)
	}
}

func TestStore_LoadErrorIsSoft(t *testing.T) {
	mem := newMem()
	mem.loadErr = errors.New("permission denied")
	got, err := NewStore(mem).LoadSettings()
	if got != nil || err != nil {
		t.Errorf("Expected defaults on load failure, got %v, %v", got, err)
	}
}

func TestOpen_FailureLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	orig := openBackend
	openBackend = func(string) (Backend, error) { return nil, errors.New("no home dir") }
	defer func() { openBackend = orig }()

	s, err := Open("squawk-test")
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if s == nil {
		t.Fatal("Expected a usable store on failure, got nil")
	}
	if err := s.SaveSettings(Settings{Gain: 2}); err != nil {
		t.Errorf("Expected no-op save, got %v", err)
	}
	if n := strings.Count(buf.String(), "Could not initialize persistence"); n != 1 {
		t.Errorf("Expected the failure logged once, got %d", n)
	}
}

func TestOpen_UsesBackend(t *testing.T) {
	mem := newMem()
	orig := openBackend
	openBackend = func(string) (Backend, error) { return mem, nil }
	defer func() { openBackend = orig }()

	s, err := Open("squawk-test")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveSettings(Settings{Gain: 2}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if len(mem.items[settingsKey]) == 0 {
		t.Error("Expected settings written to the opened backend")
	}
}
