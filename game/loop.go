package game

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/squawk/physics"
)

// Loop drives a session from a wall-clock ticker until the run ends or Stop
// is called. The windowed renderer drives its session from Ebiten instead.
type Loop struct {
	session  *Session
	tickRate int
	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewLoop(session *Session, tickRate int) *Loop {
	return &Loop{
		session:  session,
		tickRate: max(tickRate, 1),
		stopChan: make(chan struct{}),
	}
}

// Run blocks until the run reaches Win or Lose, Stop is called, or the
// session is stopped. It returns the final status.
func (l *Loop) Run() physics.Status {
	l.running.Store(true)
	defer l.running.Store(false)

	ticker := time.NewTicker(time.Second / time.Duration(l.tickRate))
	defer ticker.Stop()

	log.Printf("Game loop started at %d ticks/second", l.tickRate)
	last := time.Now()

	for {
		select {
		case <-l.stopChan:
			log.Println("Game loop stopped")
			return l.session.Snapshot().Status
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if _, err := l.session.Advance(elapsed); errors.Is(err, ErrNotStarted) {
				log.Println("Game loop stopped: session not running")
				return l.session.Snapshot().Status
			}
			if status := l.session.Snapshot().Status; status.Terminal() {
				log.Printf("Game loop finished: %s", status)
				return status
			}
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}

// Running reports whether Run is executing.
func (l *Loop) Running() bool {
	return l.running.Load()
}
