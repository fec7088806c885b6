package tack

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	intsched "github.com/cbegin/tack-go/internal/sched"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type event struct {
	at       time.Duration
	name     string
	tick     Tick
	oldTempo int
	newTempo int
}

// recorder logs every event with its offset from epoch.
type recorder struct {
	clock *intsched.FakeClock

	mu     sync.Mutex
	events []event

	onTick  func(Tick)
	onTempo func(oldTempo, newTempo int)
}

func (r *recorder) add(ev event) {
	ev.at = r.clock.Now().Sub(epoch)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) named(name string) []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event
	for _, ev := range r.events {
		if ev.name == name {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) count(name string) int { return len(r.named(name)) }

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.name
	}
	return out
}

func (r *recorder) OnStart()               { r.add(event{name: "start"}) }
func (r *recorder) OnStop()                { r.add(event{name: "stop"}) }
func (r *recorder) OnTimerStarted()        { r.add(event{name: "timer_started"}) }
func (r *recorder) OnPreTick(t Tick)       { r.add(event{name: "pretick", tick: t}) }
func (r *recorder) OnElapsedChanged()      { r.add(event{name: "elapsed"}) }
func (r *recorder) OnTimerSecondsChanged() { r.add(event{name: "timer_seconds"}) }
func (r *recorder) OnConnectionMissing()   { r.add(event{name: "connection_missing"}) }
func (r *recorder) OnPermissionMissing()   { r.add(event{name: "permission_missing"}) }

func (r *recorder) OnTick(t Tick) {
	r.add(event{name: "tick", tick: t})
	if r.onTick != nil {
		r.onTick(t)
	}
}

func (r *recorder) OnTempoChanged(oldTempo, newTempo int) {
	r.add(event{name: "tempo", oldTempo: oldTempo, newTempo: newTempo})
	if r.onTempo != nil {
		r.onTempo(oldTempo, newTempo)
	}
}

type recordingSink struct {
	NopSink
	mu    sync.Mutex
	ticks []Tick
	mutes []bool
}

func (s *recordingSink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutes = append(s.mutes, muted)
}

func (s *recordingSink) muteChanges() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.mutes...)
}

func (s *recordingSink) OnTick(t Tick, _, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = append(s.ticks, t)
}

func (s *recordingSink) received() []Tick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tick(nil), s.ticks...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *intsched.FakeClock, *recorder) {
	t.Helper()
	clock := intsched.NewFakeClock(epoch)
	base := []Option{WithClock(clock), WithLogger(discardLogger())}
	e := New(append(base, opts...)...)
	rec := &recorder{clock: clock}
	e.AddListener(rec)
	t.Cleanup(e.Destroy)
	return e, clock, rec
}

// commitTempo makes rec apply every announced tempo change, the way a UI
// would after animating it.
func commitTempo(e *Engine, rec *recorder) {
	rec.onTempo = func(_, newTempo int) { e.SetTempo(newTempo) }
}
