package tack

import (
	"log/slog"
	"time"

	intinterval "github.com/cbegin/tack-go/internal/interval"
)

// announceTempo queues a tempo change announcement on the delivery loop.
// Callers hold e.mu.
func (e *Engine) announceTempo(session uint64, oldTempo, newTempo int) {
	e.callbackLoop.Post(0, func() {
		if !e.isLive(session) {
			return
		}
		e.emitTempoChanged(oldTempo, newTempo)
	})
}

func (e *Engine) emitTempoChanged(oldTempo, newTempo int) {
	e.logger.Debug("tempo change announced",
		slog.Int("old", oldTempo),
		slog.Int("new", newTempo),
	)
	e.listeners.Each(func(l Listener) { l.OnTempoChanged(oldTempo, newTempo) })
}

// restartIncremental replaces the time-driven ramp task. Bar-driven ramps
// need no task; the tick loop checks them at every bar. Callers hold e.mu.
func (e *Engine) restartIncremental(cfg Config) {
	e.incrementalTask.Cancel()
	e.incrementalTask = nil
	if !e.playing || e.countingIn {
		return
	}
	inc := cfg.Incremental
	if !inc.Active() || inc.Unit == UnitBars {
		return
	}
	period := intinterval.UnitFactor(inc.Unit) * time.Duration(inc.Interval)
	session := e.session
	e.incrementalTask = e.callbackLoop.Every(period, func() time.Duration {
		e.mu.Lock()
		if !e.live(session) {
			e.mu.Unlock()
			return -1
		}
		tempo, inc := e.cfg.Tempo, e.cfg.Incremental
		e.mu.Unlock()
		if next, ok := inc.Next(tempo); ok {
			e.emitTempoChanged(tempo, next)
		}
		return period
	})
}

// IsIncrementalActive reports whether a tempo ramp is configured.
func (e *Engine) IsIncrementalActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Incremental.Active()
}
