// Package capture feeds audio frames from a device or a script into an
// audio.FrameSlot.
package capture

import (
	"errors"

	"github.com/automoto/squawk/audio"
)

var (
	ErrNoDevice       = errors.New("capture: no input device")
	ErrBusy           = errors.New("capture: microphone already in use")
	ErrAlreadyStarted = errors.New("capture: source already started")
)

// Source delivers frames into slot from its own goroutine or callback until
// closed. Close is safe to call more than once.
type Source interface {
	Start(slot *audio.FrameSlot) error
	Close() error
}

// Silent never delivers a frame. Sessions read it as continuous silence.
type Silent struct{}

func (Silent) Start(*audio.FrameSlot) error { return nil }
func (Silent) Close() error                 { return nil }
