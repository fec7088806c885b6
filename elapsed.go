package tack

import (
	"fmt"
	"time"
)

// restartElapsed replaces the 1 Hz elapsed-time task. Callers hold e.mu.
func (e *Engine) restartElapsed() {
	e.elapsedTask.Cancel()
	e.elapsedTask = nil
	if !e.playing || e.countingIn {
		return
	}
	session := e.session
	e.elapsedTask = e.callbackLoop.Every(0, func() time.Duration {
		e.mu.Lock()
		if !e.live(session) {
			e.mu.Unlock()
			return -1
		}
		e.elapsed = e.currentElapsed()
		e.mu.Unlock()
		e.listeners.Each(func(l Listener) { l.OnElapsedChanged() })
		return time.Second
	})
}

// currentElapsed is the play time accumulated so far. Count-in time does
// not count. Callers hold e.mu.
func (e *Engine) currentElapsed() time.Duration {
	if !e.playing || e.countingIn {
		return e.elapsed
	}
	return e.clock.Now().Sub(e.elapsedStart) + e.elapsedPrevious
}

// Elapsed returns the total play time, carried across stops.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentElapsed()
}

// ResetElapsed sets the play time back to zero.
func (e *Engine) ResetElapsed() {
	e.mu.Lock()
	e.elapsed = 0
	e.elapsedPrevious = 0
	e.elapsedStart = e.clock.Now()
	e.restartElapsed()
	e.mu.Unlock()
	e.listeners.Each(func(l Listener) { l.OnElapsedChanged() })
}

// ElapsedString formats the play time as "mm:ss", or "hh:mm:ss" from one
// hour on.
func (e *Engine) ElapsedString() string {
	return formatClock(e.Elapsed(), true)
}

func formatClock(d time.Duration, hours bool) string {
	seconds := int(d / time.Second)
	minutes := seconds / 60
	if hours && minutes >= 60 {
		return fmt.Sprintf("%02d:%02d:%02d", minutes/60, minutes%60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds%60)
}
