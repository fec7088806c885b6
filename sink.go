package tack

import (
	"fmt"
	"time"

	intaudio "github.com/cbegin/tack-go/internal/audio"
	intclick "github.com/cbegin/tack-go/internal/click"
)

// Sink turns ticks into sound. OnTick is called on the delivery loop once
// the latency has passed; muted ticks never reach it. SetMuted follows the
// mute windows as they are delivered and is reset to false on Stop.
type Sink interface {
	Play()
	Stop()
	OnTick(t Tick, tempo, subdivisions int)
	SetMuted(muted bool)
	SetGain(gain int)
	SetSound(sound string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Play()                 {}
func (NopSink) Stop()                 {}
func (NopSink) OnTick(Tick, int, int) {}
func (NopSink) SetMuted(bool)         {}
func (NopSink) SetGain(int)           {}
func (NopSink) SetSound(string)       {}

const clickBufferSize = 20 * time.Millisecond

// ClickSink plays synthesized clicks on the system audio output.
type ClickSink struct {
	synth *intclick.Synth
	out   *intaudio.Output
}

// NewClickSink opens a paused output at sampleRate.
func NewClickSink(sampleRate int) (*ClickSink, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	synth := intclick.New(sampleRate)
	out, err := intaudio.Open(sampleRate, synth, clickBufferSize)
	if err != nil {
		return nil, fmt.Errorf("open click output: %w", err)
	}
	return &ClickSink{synth: synth, out: out}, nil
}

func (s *ClickSink) Play() { s.out.Play() }

func (s *ClickSink) Stop() { s.out.Pause() }

func (s *ClickSink) OnTick(t Tick, _, _ int) {
	s.synth.Trigger(accentOf(t.Type))
}

func (s *ClickSink) SetMuted(muted bool) { s.synth.SetMuted(muted) }

func (s *ClickSink) SetGain(gain int) { s.synth.SetGainDB(float64(gain)) }

func (s *ClickSink) SetSound(sound string) { s.synth.SetSound(intclick.ParseSound(sound)) }

func (s *ClickSink) Close() error { return s.out.Close() }

func accentOf(t TickType) intclick.Accent {
	switch t {
	case TickStrong:
		return intclick.Strong
	case TickNormal:
		return intclick.Normal
	case TickSub:
		return intclick.Sub
	default:
		return intclick.Silent
	}
}
