// Package mic captures audio from the default input device through portaudio.
package mic

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/automoto/squawk/audio"
	"github.com/automoto/squawk/capture"
	"github.com/automoto/squawk/config"
	"github.com/gordonklaus/portaudio"
)

var _ capture.Source = (*Microphone)(nil)

// micInUse guards the single live capture session per process.
var micInUse atomic.Bool

func acquireMic() error {
	if !micInUse.CompareAndSwap(false, true) {
		return capture.ErrBusy
	}
	return nil
}

func releaseMic() {
	micInUse.Store(false)
}

// Microphone captures mono float32 frames from the default input device.
type Microphone struct {
	sampleRate      float64
	framesPerBuffer int

	mu     sync.Mutex
	stream *portaudio.Stream
}

// NewMicrophone returns an unopened microphone source.
func NewMicrophone(cfg config.AudioConfig) *Microphone {
	return &Microphone{
		sampleRate:      cfg.SampleRate,
		framesPerBuffer: cfg.FramesPerBuffer,
	}
}

// Start opens the default input device and publishes every buffer to slot.
func (m *Microphone) Start(slot *audio.FrameSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream != nil {
		return capture.ErrAlreadyStarted
	}
	if err := acquireMic(); err != nil {
		return err
	}

	stream, err := m.open(slot)
	if err != nil {
		releaseMic()
		return err
	}
	m.stream = stream
	log.Printf("Microphone capture started at %.0f Hz, %d frames per buffer", m.sampleRate, m.framesPerBuffer)
	return nil
}

func (m *Microphone) open(slot *audio.FrameSlot) (*portaudio.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	if _, err := portaudio.DefaultInputDevice(); err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", capture.ErrNoDevice, err)
	}

	sr := m.sampleRate
	stream, err := portaudio.OpenDefaultStream(1, 0, sr, m.framesPerBuffer, func(in []float32) {
		// portaudio reuses in after the callback returns
		buf := make([]float32, len(in))
		copy(buf, in)
		slot.Store(audio.Frame{Samples: buf, SampleRate: sr})
	})
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: open stream: %v", capture.ErrNoDevice, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	return stream, nil
}

// Close stops capture and releases the device.
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil
	}
	var firstErr error
	if err := m.stream.Stop(); err != nil {
		firstErr = fmt.Errorf("stop stream: %w", err)
	}
	if err := m.stream.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("terminate portaudio: %w", err)
	}
	m.stream = nil
	releaseMic()
	log.Println("Microphone capture stopped")
	return firstErr
}
