package game

import (
	"fmt"
	"time"

	"github.com/automoto/squawk/config"
)

// OverrunError reports simulation time discarded because a frame took too
// long to catch up on.
type OverrunError struct {
	Elapsed time.Duration
	Dropped time.Duration
}

func (e *OverrunError) Error() string {
	return fmt.Sprintf("game: frame overrun, dropped %v of %v", e.Dropped, e.Elapsed)
}

// Accumulator converts wall-clock time into a bounded number of fixed steps.
type Accumulator struct {
	step     time.Duration
	maxSteps int
	maxDelta time.Duration
	acc      time.Duration
}

// NewAccumulator returns an accumulator for the configured tick rate.
func NewAccumulator(cfg config.LoopConfig) *Accumulator {
	rate := max(cfg.TickRate, 1)
	return &Accumulator{
		step:     time.Second / time.Duration(rate),
		maxSteps: max(cfg.MaxStepsPerRun, 1),
		maxDelta: cfg.MaxFrameDelta,
	}
}

// Add credits elapsed time and returns how many steps to run now. Time
// beyond the frame delta cap or the step budget is discarded and reported
// as an *OverrunError alongside the steps that still run.
func (a *Accumulator) Add(elapsed time.Duration) (int, error) {
	if elapsed <= 0 {
		return 0, nil
	}
	var dropped time.Duration
	credited := elapsed
	if a.maxDelta > 0 && credited > a.maxDelta {
		dropped = credited - a.maxDelta
		credited = a.maxDelta
	}

	a.acc += credited
	steps := int(a.acc / a.step)
	a.acc -= time.Duration(steps) * a.step
	if steps > a.maxSteps {
		dropped += time.Duration(steps-a.maxSteps) * a.step
		steps = a.maxSteps
	}

	if dropped > 0 {
		return steps, &OverrunError{Elapsed: elapsed, Dropped: dropped}
	}
	return steps, nil
}

// Step returns the fixed step length.
func (a *Accumulator) Step() time.Duration {
	return a.step
}

// Pending returns time credited but not yet stepped.
func (a *Accumulator) Pending() time.Duration {
	return a.acc
}

// Reset clears pending time.
func (a *Accumulator) Reset() {
	a.acc = 0
}
