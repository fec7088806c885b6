package tack

import (
	"log/slog"
	"time"

	intinterval "github.com/cbegin/tack-go/internal/interval"
)

// muteCount is the length of the next window: Mute units while muted, Play
// units otherwise, or a uniform draw up to that length when random.
func (e *Engine) muteCount(m MuteConfig, muted bool) int {
	n := m.Play
	if muted {
		n = m.Mute
	}
	if m.Random {
		return e.intN(n + 1)
	}
	return n
}

// muteBar advances the bar-driven mute countdown. Callers hold e.mu.
func (e *Engine) muteBar(m MuteConfig) {
	if e.muteCountDown > 0 {
		e.muteCountDown--
		return
	}
	e.muted = !e.muted
	e.muteCountDown = max(e.muteCount(m, e.muted)-1, 0)
	e.logger.Debug("mute toggled", slog.Bool("muted", e.muted))
}

// restartMute clears the muted flag and replaces the time-driven mute task.
// Callers hold e.mu.
func (e *Engine) restartMute(cfg Config) {
	e.muteTask.Cancel()
	e.muteTask = nil
	e.muted = false
	if !e.playing || e.countingIn {
		return
	}
	m := cfg.Mute
	if !m.Active() || m.Unit == UnitBars {
		return
	}
	unit := intinterval.UnitFactor(m.Unit)
	session := e.session
	e.muteTask = e.callbackLoop.Every(unit*time.Duration(e.muteCount(m, false)), func() time.Duration {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.live(session) {
			return -1
		}
		e.muted = !e.muted
		next := e.muteWindow(e.cfg.Mute, unit)
		e.logger.Debug("mute toggled", slog.Bool("muted", e.muted))
		return next
	})
}

// muteWindow returns the length of the window that begins now. Like a bar
// countdown, an empty window still lasts one unit. Callers hold e.mu.
func (e *Engine) muteWindow(m MuteConfig, unit time.Duration) time.Duration {
	return unit * time.Duration(max(e.muteCount(m, e.muted), 1))
}

// IsMuted reports whether the engine is inside a mute window.
func (e *Engine) IsMuted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing && e.muted
}

func (e *Engine) IsMuteActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Mute.Active()
}
