package tack

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	intsched "github.com/cbegin/tack-go/internal/sched"
)

type timerState struct {
	progress float64 // at start, or frozen while not running
	start    time.Time
	span     time.Duration
	running  bool
	done     *intsched.Task
	seconds  *intsched.Task
}

func (t *timerState) cancel() {
	t.done.Cancel()
	t.done = nil
	t.seconds.Cancel()
	t.seconds = nil
}

// timerProgress returns the progress at this instant. Callers hold e.mu.
func (e *Engine) timerProgress() float64 {
	if !e.timer.running || e.timer.span <= 0 {
		return e.timer.progress
	}
	p := e.timer.progress + float64(e.clock.Now().Sub(e.timer.start))/float64(e.timer.span)
	return min(max(p, 0), 1)
}

// restartTimer starts the timer from progress, or only records progress when
// the timer cannot run yet. A completed timer starts over. With snapToBar, a
// bar timer falls back to the start of the bar it is in. It reports whether
// the timer started. Callers hold e.mu.
func (e *Engine) restartTimer(cfg Config, progress float64, snapToBar bool) bool {
	e.timer.cancel()
	e.timer.running = false
	e.timer.progress = min(max(progress, 0), 1)
	if !e.playing || e.countingIn || !cfg.Timer.Active() {
		return false
	}

	total := cfg.TimerInterval()
	if equalsProgress(progress, 1) {
		progress = 0
	} else if snapToBar && cfg.Timer.Unit == UnitBars {
		bar := cfg.BarInterval()
		done := time.Duration(progress * float64(total))
		progress = float64(done/bar*bar) / float64(total)
	}
	progress = min(max(progress, 0), 1)

	e.timer.progress = progress
	e.timer.start = e.clock.Now()
	e.timer.span = total
	e.timer.running = true

	session := e.session
	remaining := time.Duration(float64(total) * (1 - progress))
	e.timer.done = e.callbackLoop.Post(remaining, func() { e.completeTimer(session) })
	if cfg.Timer.Unit != UnitBars {
		e.timer.seconds = e.callbackLoop.Every(0, func() time.Duration {
			if !e.isLive(session) {
				return -1
			}
			e.listeners.Each(func(l Listener) { l.OnTimerSecondsChanged() })
			return time.Second
		})
	}
	e.logger.Debug("timer started",
		slog.Duration("total", total),
		slog.Float64("progress", progress),
	)
	return true
}

// retimeTimer keeps the current progress and recomputes the span, for bar
// timers after the bar length changed. Callers hold e.mu.
func (e *Engine) retimeTimer(cfg Config) bool {
	if !cfg.Timer.Active() || cfg.Timer.Unit != UnitBars {
		return false
	}
	return e.restartTimer(cfg, e.timerProgress(), false)
}

func (e *Engine) completeTimer(session uint64) {
	e.mu.Lock()
	if !e.live(session) {
		e.mu.Unlock()
		return
	}
	e.timer.cancel()
	e.timer.progress = 1
	e.timer.running = false
	e.mu.Unlock()

	e.logger.Info("timer finished")
	e.Stop()
}

func (e *Engine) emitTimerStarted(started bool) {
	if started {
		e.listeners.Each(func(l Listener) { l.OnTimerStarted() })
	}
}

// equalsProgress compares progress values rounded to two decimals.
func equalsProgress(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}

func (e *Engine) IsTimerActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Timer.Active()
}

// TimerProgress returns how much of the timer has run, in [0, 1].
func (e *Engine) TimerProgress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.Timer.Active() {
		return 0
	}
	return e.timerProgress()
}

// EqualsTimerProgress compares the timer progress with f at two decimals.
func (e *Engine) EqualsTimerProgress(f float64) bool {
	return equalsProgress(e.TimerProgress(), f)
}

// TimerInterval returns the total timer length at the current tempo.
func (e *Engine) TimerInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.TimerInterval()
}

// TimerIntervalRemaining returns how long the timer still has to run.
func (e *Engine) TimerIntervalRemaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := e.cfg.TimerInterval()
	return time.Duration(float64(total) * (1 - e.timerProgress()))
}

// TimerString formats the time the timer has run: "bar.beat" for bar
// timers, "mm:ss" otherwise.
func (e *Engine) TimerString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	if !cfg.Timer.Active() {
		return ""
	}
	done := time.Duration(e.timerProgress() * float64(cfg.TimerInterval()))
	if cfg.Timer.Unit != UnitBars {
		return formatClock(done, false)
	}
	bar := cfg.BarInterval()
	bars := min(int(done/bar), cfg.Timer.Duration-1)
	beats := min(int((done-time.Duration(bars)*bar)/cfg.Interval()), len(cfg.Beats)-1)
	if len(cfg.Beats) < 10 {
		return fmt.Sprintf("%d.%d", bars+1, beats+1)
	}
	return fmt.Sprintf("%d.%02d", bars+1, beats+1)
}

// TotalTimeString formats the configured timer length.
func (e *Engine) TotalTimeString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.cfg.Timer
	if !t.Active() {
		return ""
	}
	switch t.Unit {
	case UnitSeconds:
		return formatClock(time.Duration(t.Duration)*time.Second, false)
	case UnitMinutes:
		return formatClock(time.Duration(t.Duration)*time.Minute, false)
	}
	if t.Duration == 1 {
		return "1 bar"
	}
	return fmt.Sprintf("%d bars", t.Duration)
}
