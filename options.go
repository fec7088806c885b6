package tack

import (
	"log/slog"

	intsched "github.com/cbegin/tack-go/internal/sched"
)

// Clock is the time source of an Engine.
type Clock = intsched.Clock

// PermissionChecker gates Start.
type PermissionChecker interface {
	HasStartPermission() bool
}

// PermissionFunc adapts a function to PermissionChecker.
type PermissionFunc func() bool

func (f PermissionFunc) HasStartPermission() bool { return f() }

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets where settings are loaded from and written to.
func WithStore(s Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithSink sets the audio sink. The default discards ticks.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithPermission sets the checker consulted by Start.
func WithPermission(p PermissionChecker) Option {
	return func(e *Engine) {
		e.permission = p
	}
}

// WithRegistry shares a listener registry with the engine.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.listeners = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces the wall clock, typically with a sched.FakeClock in
// tests.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// withRand replaces the random source of the mute controller.
func withRand(intN func(n int) int) Option {
	return func(e *Engine) {
		e.intN = intN
	}
}
