// Package game ties audio capture, motion, physics and the camera into one
// fixed-step play session.
package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/squawk/audio"
	"github.com/automoto/squawk/camera"
	"github.com/automoto/squawk/capture"
	"github.com/automoto/squawk/config"
	"github.com/automoto/squawk/level"
	"github.com/automoto/squawk/motion"
	"github.com/automoto/squawk/physics"
	dmath "github.com/yohamta/donburi/features/math"
)

var (
	ErrNoSource       = errors.New("game: no audio source")
	ErrAlreadyRunning = errors.New("game: session already running")
	ErrNotStarted     = errors.New("game: session not started")
)

const (
	loseShakeIntensity = 6
	loseShakeFrames    = 20
	pixelsPerMeter     = 100
)

// epoch is where the game clock starts. Any non-zero time works; motion
// treats the zero time as "never".
var epoch = time.Unix(0, 0)

// Stats summarizes the current run.
type Stats struct {
	Elapsed        time.Duration // simulated play time
	Distance       float64       // furthest progress from the start, in meters
	Ticks          uint64
	Frames         uint64 // audio frames analyzed
	Overruns       int
	Dropped        time.Duration
	TicksPerSecond float64
	Collapsed      int // hazards that have fallen out of the level
}

// Snapshot is everything a renderer needs for one frame. Level is shared
// with the session and must be read from the goroutine driving it.
type Snapshot struct {
	Player  physics.Player
	Level   *level.Level
	Camera  camera.Camera
	View    level.Rect // visible world area
	Shake   dmath.Vec2
	Status  physics.Status
	Signal  audio.Signal
	Command motion.Command
	Stats   Stats
	Running bool
}

// Session owns one player's run. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	cfg    *config.Config
	levels LevelSource

	interp *audio.Interpreter
	motion *motion.Controller
	engine *physics.Engine
	camera *camera.Controller
	acc    *Accumulator
	slot   audio.FrameSlot

	src     capture.Source
	running bool

	lvl       *level.Level
	clock     time.Time
	lastFrame time.Time
	signal    audio.Signal
	cmd       motion.Command
	stats     Stats
	ended     bool

	rateTicks  int
	rateWindow time.Duration

	onEnd func(Snapshot)
}

// NewSession builds a session and loads its first level.
func NewSession(cfg *config.Config, levels LevelSource) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		cfg:    cfg,
		levels: levels,
		interp: audio.NewInterpreter(cfg.Audio),
		motion: motion.NewController(cfg.Motion),
		engine: physics.NewEngine(cfg.Physics),
		camera: camera.NewController(cfg.Camera, 0, 0),
		acc:    NewAccumulator(cfg.Loop),
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// OnEnd registers fn to run once per run when it reaches Win or Lose. It
// is called without the session lock held.
func (s *Session) OnEnd(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = fn
}

// Start begins feeding src into the session. The session stays idle when
// the source fails to start.
func (s *Session) Start(src capture.Source) error {
	if src == nil {
		return ErrNoSource
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if err := src.Start(&s.slot); err != nil {
		return fmt.Errorf("start audio source: %w", err)
	}
	s.src = src
	s.running = true
	s.acc.Reset()
	s.lastFrame = s.clock
	log.Printf("Session started (level seed %d)", s.lvl.Seed)
	return nil
}

// Stop releases the audio source. Calling it again is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	src := s.src
	s.src = nil
	log.Printf("Session stopped after %v", s.stats.Elapsed.Round(time.Millisecond))
	if err := src.Close(); err != nil {
		return fmt.Errorf("close audio source: %w", err)
	}
	return nil
}

// Reset loads a fresh level and clears motion, audio and camera state. The
// audio source, if any, keeps running.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.levels == nil {
		return level.ErrNoPlatforms
	}
	lvl, err := s.levels.Next()
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}

	player := physics.NewPlayer(lvl.PlayerStart, s.cfg.Physics.PlayerWidth, s.cfg.Physics.PlayerHeight)
	if err := s.engine.Initialize(player, lvl); err != nil {
		return fmt.Errorf("reset physics: %w", err)
	}

	s.lvl = lvl
	s.interp.Reset()
	s.motion.Reset()
	s.acc.Reset()
	s.camera.Reset(lvl.Width, lvl.Height)
	s.camera.Update(player.Center())
	s.slot.Take()

	s.clock = epoch
	s.lastFrame = epoch
	s.signal = audio.Signal{}
	s.cmd = motion.Command{}
	s.stats = Stats{}
	s.ended = false
	s.rateTicks, s.rateWindow = 0, 0
	return nil
}

// Advance credits wall-clock time and runs the fixed steps it buys. An
// *OverrunError reports discarded time; the steps that fit still ran.
func (s *Session) Advance(elapsed time.Duration) (int, error) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return 0, ErrNotStarted
	}

	steps, err := s.acc.Add(elapsed)
	var overrun *OverrunError
	if errors.As(err, &overrun) {
		s.stats.Overruns++
		s.stats.Dropped += overrun.Dropped
		log.Printf("Warning: %v", overrun)
	}

	ended := false
	for range steps {
		if s.tick() {
			ended = true
		}
	}
	s.measureRate(elapsed, steps)

	hook := s.onEnd
	var snap Snapshot
	if ended && hook != nil {
		snap = s.snapshot()
	}
	s.mu.Unlock()

	if ended && hook != nil {
		hook(snap)
	}
	return steps, err
}

// Tick runs exactly one fixed step regardless of wall-clock time.
func (s *Session) Tick() (physics.Status, error) {
	s.mu.Lock()
	if !s.running {
		status := s.engine.Status()
		s.mu.Unlock()
		return status, ErrNotStarted
	}
	ended := s.tick()
	status := s.engine.Status()
	hook := s.onEnd
	var snap Snapshot
	if ended && hook != nil {
		snap = s.snapshot()
	}
	s.mu.Unlock()

	if ended && hook != nil {
		hook(snap)
	}
	return status, nil
}

// tick advances one step and reports whether the run ended during it.
func (s *Session) tick() bool {
	step := s.acc.Step()
	s.clock = s.clock.Add(step)

	if s.engine.Status().Terminal() {
		// Collapsed hazards keep falling out of view after the run ends
		s.engine.Update(step.Seconds())
		s.camera.Update(s.engine.Player().Center())
		s.stats.Collapsed = s.engine.Collapsed()
		return false
	}

	s.listen()
	s.cmd = s.motion.Update(s.signal.Loudness, s.signal.Pitch, s.clock)
	s.engine.SetCommand(s.cmd)
	status := s.engine.Update(step.Seconds())

	player := s.engine.Player()
	s.camera.Update(player.Center())

	s.stats.Ticks++
	s.stats.Elapsed += step
	s.stats.Collapsed = s.engine.Collapsed()
	if d := (player.X - s.lvl.PlayerStart.X) / pixelsPerMeter; d > s.stats.Distance {
		s.stats.Distance = d
	}

	if !status.Terminal() || s.ended {
		return false
	}
	s.ended = true
	if status == physics.Lose {
		s.camera.Shake(loseShakeIntensity, loseShakeFrames)
	}
	log.Printf("Run ended: %s after %v, %.1fm", status, s.stats.Elapsed.Round(time.Millisecond), s.stats.Distance)
	return true
}

// listen drains the latest frame. Without new frames the last reading holds
// until the source goes quiet for too long, after which it reads as silence.
func (s *Session) listen() {
	if frame, ok := s.slot.Take(); ok {
		s.lastFrame = s.clock
		s.signal = s.interp.Analyze(frame)
		s.stats.Frames++
		return
	}
	if s.clock.Sub(s.lastFrame) > s.cfg.Audio.StaleFrameAfter {
		s.signal = s.interp.Analyze(audio.Frame{})
	}
}

func (s *Session) measureRate(elapsed time.Duration, steps int) {
	s.rateTicks += steps
	s.rateWindow += elapsed
	if s.rateWindow < time.Second {
		return
	}
	s.stats.TicksPerSecond = float64(s.rateTicks) / s.rateWindow.Seconds()
	s.rateTicks, s.rateWindow = 0, 0
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	sx, sy := s.camera.ShakeOffset()
	return Snapshot{
		Player:  s.engine.Player(),
		Level:   s.lvl,
		Camera:  s.camera.Camera(),
		View:    s.camera.ViewBounds(),
		Shake:   dmath.Vec2{X: sx, Y: sy},
		Status:  s.engine.Status(),
		Signal:  s.signal,
		Command: s.cmd,
		Stats:   s.stats,
		Running: s.running,
	}
}

// WarningProgress returns how far a hazard's warning has run, in [0, 1].
func (s *Session) WarningProgress(p *level.Platform) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.WarningProgress(p)
}

// InView reports whether r is on screen, with padding.
func (s *Session) InView(r level.Rect, padding float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera.InView(r, padding)
}

// Running reports whether an audio source is attached.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Audio returns the interpreter's live settings.
func (s *Session) Audio() config.AudioConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interp.Config()
}

// SetGain changes the loudness gain without restarting the run.
func (s *Session) SetGain(g float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interp.SetGain(g)
}

// SetNoiseFloor changes the silence threshold.
func (s *Session) SetNoiseFloor(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interp.SetNoiseFloor(v)
}

// SetPitchMode switches the pitch estimator.
func (s *Session) SetPitchMode(m config.PitchMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interp.SetPitchMode(m)
}
