package physics

import (
	"testing"

	"github.com/automoto/squawk/level"
	"github.com/automoto/squawk/motion"
	"github.com/automoto/squawk/tags"
	dmath "github.com/yohamta/donburi/features/math"
)

func hazardLevel() *level.Level {
	return &level.Level{
		Width:  2000,
		Height: 600,
		Platforms: []*level.Platform{
			{Rect: level.Rect{X: 0, Y: 400, W: 200, H: 20}, Kind: level.Hazard},
			{Rect: level.Rect{X: 200, Y: 400, W: 800, H: 20}},
		},
		Flag:        level.Flag{Rect: level.Rect{X: 900, Y: 336, W: 32, H: 64}},
		PlayerStart: dmath.Vec2{X: 50, Y: 400},
	}
}

func TestHazard_CollapsesUnderPlayer(t *testing.T) {
	lvl := hazardLevel()
	e := newTestEngine(t, lvl, lvl.PlayerStart)
	hz := lvl.Platforms[0]

	e.Update(dt)
	if hz.State != level.Warning {
		t.Fatalf("Expected Warning on contact, got %v", hz.State)
	}

	// 1.9s in: still warning.
	if s := run(e, motion.Command{}, 113); s != Playing || hz.State != level.Warning {
		t.Fatalf("Expected Warning and Playing before the timer, got %v/%v", hz.State, s)
	}
	if p := e.WarningProgress(hz); p < 0.9 || p > 1 {
		t.Errorf("Expected warning progress near 0.95, got %v", p)
	}

	s := run(e, motion.Command{}, 12)
	if hz.State != level.Falling {
		t.Errorf("Expected Falling after the timer, got %v", hz.State)
	}
	if s != Lose {
		t.Errorf("Expected Lose, got %v", s)
	}
}

func TestHazard_MonotonicLifecycle(t *testing.T) {
	lvl := hazardLevel()
	e := newTestEngine(t, lvl, lvl.PlayerStart)
	hz := lvl.Platforms[0]

	seen := []level.HazardState{hz.State}
	for range 400 {
		e.Update(dt)
		if last := seen[len(seen)-1]; hz.State != last {
			if hz.State < last {
				t.Fatalf("Expected monotonic lifecycle, went %v -> %v", last, hz.State)
			}
			seen = append(seen, hz.State)
		}
	}
	if len(seen) != 3 {
		t.Errorf("Expected Stable, Warning, Falling; got %v", seen)
	}
}

func TestHazard_LeavingCancelsWarning(t *testing.T) {
	lvl := hazardLevel()
	e := newTestEngine(t, lvl, dmath.Vec2{X: 150, Y: 400})
	hz := lvl.Platforms[0]

	e.Update(dt)
	if hz.State != level.Warning {
		t.Fatalf("Expected Warning, got %v", hz.State)
	}
	run(e, motion.Command{Speed: 300, IsMoving: true}, 30)
	if hz.State != level.Stable {
		t.Errorf("Expected warning cancelled once the player left, got %v", hz.State)
	}
	if e.WarningProgress(hz) != 0 {
		t.Errorf("Expected progress reset, got %v", e.WarningProgress(hz))
	}
	if s := run(e, motion.Command{}, 180); s != Playing {
		t.Errorf("Expected to survive off the hazard, got %v", s)
	}
}

func TestHazard_KeepsFallingAfterLoss(t *testing.T) {
	lvl := hazardLevel()
	e := newTestEngine(t, lvl, lvl.PlayerStart)
	hz := lvl.Platforms[0]

	status := Playing
	for i := 0; i < 300 && status == Playing; i++ {
		status = e.Update(dt)
	}
	if status != Lose {
		t.Fatalf("Expected Lose, got %v", status)
	}
	if !e.hazards[hz].obj.HasTags(tags.ResolvFalling) {
		t.Error("Expected the collapsed platform tagged as falling")
	}

	y := hz.Y
	player := e.Player()
	run(e, motion.Command{Speed: 300, IsMoving: true}, 30)
	if hz.Y <= y {
		t.Errorf("Expected collapsed platform to keep falling from %v, got %v", y, hz.Y)
	}
	if e.Player() != player {
		t.Errorf("Expected the player frozen after the loss, got %+v", e.Player())
	}

	run(e, motion.Command{}, 240)
	if e.Collapsed() != 1 {
		t.Errorf("Expected the platform removed below the level, got %d", e.Collapsed())
	}
	if hz.State != level.Falling {
		t.Errorf("Expected Falling to be final, got %v", hz.State)
	}
}

func TestHazard_FallingPlatformIsLethal(t *testing.T) {
	lvl := flatLevel()
	overhead := &level.Platform{Rect: level.Rect{X: 80, Y: 250, W: 120, H: 20}, Kind: level.Hazard}
	lvl.Platforms = append(lvl.Platforms, overhead)
	e := newTestEngine(t, lvl, lvl.PlayerStart)

	h := e.hazards[overhead]
	h.warn()
	if !h.tick(e.cfg.HazardWarning.Seconds() + 1) {
		t.Fatal("Expected the warning to run out")
	}

	status := Playing
	for i := 0; i < 120 && status == Playing; i++ {
		status = e.Update(dt)
	}
	if status != Lose {
		t.Errorf("Expected Lose when a falling platform hits the player, got %v", status)
	}
}

func TestHazard_NormalPlatformNeverWarns(t *testing.T) {
	lvl := flatLevel()
	e := newTestEngine(t, lvl, lvl.PlayerStart)
	run(e, motion.Command{}, 300)
	if st := lvl.Platforms[0].State; st != level.Stable {
		t.Errorf("Expected normal platform to stay Stable, got %v", st)
	}
	if e.Status() != Playing {
		t.Errorf("Expected Playing, got %v", e.Status())
	}
}
