package capture

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/automoto/squawk/audio"
	"github.com/automoto/squawk/config"
	"github.com/gopxl/beep"
)

// Segment is one stretch of scripted input. A zero frequency or amplitude
// is silence.
type Segment struct {
	Freq      float64
	Amplitude float64
	Duration  time.Duration
}

// tone is an endless sine generator.
type tone struct {
	freq  float64
	amp   float64
	phase float64
	rate  beep.SampleRate
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := t.amp * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Script plays a fixed sequence of tones and silences as if it were a
// microphone. NextFrame pulls frames synchronously; Start paces them in real
// time on a goroutine.
type Script struct {
	rate      beep.SampleRate
	frameSize int
	segments  []Segment
	loop      bool

	mu       sync.Mutex
	streamer beep.Streamer
	buf      [][2]float64
	stop     chan struct{}
	done     chan struct{}
}

// NewScript returns a script source using the configured sample rate and
// buffer size.
func NewScript(cfg config.AudioConfig, loop bool, segments ...Segment) *Script {
	s := &Script{
		rate:      beep.SampleRate(int(cfg.SampleRate)),
		frameSize: max(cfg.FramesPerBuffer, 1),
		segments:  segments,
		loop:      loop,
	}
	s.buf = make([][2]float64, s.frameSize)
	s.streamer = s.build()
	return s
}

// DemoScript alternates speech-like runs with short high squeaks so the
// avatar walks and hops without a microphone.
func DemoScript(cfg config.AudioConfig) *Script {
	const ms = time.Millisecond
	return NewScript(cfg, true,
		Segment{Duration: 600 * ms},
		Segment{Freq: 180, Amplitude: 0.25, Duration: 1500 * ms},
		Segment{Freq: 1400, Amplitude: 0.4, Duration: 250 * ms},
		Segment{Freq: 200, Amplitude: 0.3, Duration: 1200 * ms},
		Segment{Freq: 1700, Amplitude: 0.5, Duration: 350 * ms},
		Segment{Freq: 160, Amplitude: 0.2, Duration: 900 * ms},
		Segment{Duration: 300 * ms},
	)
}

func (s *Script) build() beep.Streamer {
	parts := make([]beep.Streamer, 0, len(s.segments))
	for _, seg := range s.segments {
		n := s.rate.N(seg.Duration)
		if seg.Freq <= 0 || seg.Amplitude <= 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		parts = append(parts, beep.Take(n, &tone{freq: seg.Freq, amp: seg.Amplitude, rate: s.rate}))
	}
	return beep.Seq(parts...)
}

// Duration returns the length of one pass through the script.
func (s *Script) Duration() time.Duration {
	var d time.Duration
	for _, seg := range s.segments {
		d += seg.Duration
	}
	return d
}

// NextFrame returns the next buffer. It reports false once a non-looping
// script is exhausted.
func (s *Script) NextFrame() (audio.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFrame()
}

func (s *Script) nextFrame() (audio.Frame, bool) {
	n, ok := s.streamer.Stream(s.buf)
	if n == 0 && !ok && s.loop && s.Duration() > 0 {
		s.streamer = s.build()
		n, ok = s.streamer.Stream(s.buf)
	}
	if n == 0 {
		return audio.Frame{}, false
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(s.buf[i][0])
	}
	return audio.Frame{Samples: out, SampleRate: float64(s.rate)}, true
}

// Start streams frames into slot at the script's real-time pace.
func (s *Script) Start(slot *audio.FrameSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return ErrAlreadyStarted
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(slot, s.stop, s.done)
	log.Printf("Scripted input started (%v per pass, loop=%v)", s.Duration(), s.loop)
	return nil
}

func (s *Script) run(slot *audio.FrameSlot, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	period := s.rate.D(s.frameSize)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			f, ok := s.NextFrame()
			if !ok {
				return
			}
			slot.Store(f)
		}
	}
}

// Close stops the pacing goroutine and waits for it to exit.
func (s *Script) Close() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	return nil
}
