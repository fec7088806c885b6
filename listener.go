package tack

import (
	"slices"
	"sync"
)

// Listener receives engine events. Tick events arrive on the delivery loop,
// shifted by the configured latency; a listener may call back into the
// engine from any method.
type Listener interface {
	OnStart()
	OnStop()
	OnTimerStarted()
	OnPreTick(t Tick)
	OnTick(t Tick)
	// OnTempoChanged announces a ramp step. The engine does not apply it;
	// call SetTempo(newTempo) to commit.
	OnTempoChanged(oldTempo, newTempo int)
	OnElapsedChanged()
	OnTimerSecondsChanged()
	OnConnectionMissing()
	OnPermissionMissing()
}

// BaseListener implements Listener with no-ops. Embed it to handle only the
// events you need.
type BaseListener struct{}

func (BaseListener) OnStart()                {}
func (BaseListener) OnStop()                 {}
func (BaseListener) OnTimerStarted()         {}
func (BaseListener) OnPreTick(Tick)          {}
func (BaseListener) OnTick(Tick)             {}
func (BaseListener) OnTempoChanged(int, int) {}
func (BaseListener) OnElapsedChanged()       {}
func (BaseListener) OnTimerSecondsChanged()  {}
func (BaseListener) OnConnectionMissing()    {}
func (BaseListener) OnPermissionMissing()    {}

// Registry is an ordered set of listeners. Listeners are compared by
// identity, so register pointers.
type Registry struct {
	mu        sync.Mutex
	listeners []Listener
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends l unless it is already registered.
func (r *Registry) Add(l Listener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.listeners, l) {
		return
	}
	r.listeners = append(r.listeners, l)
}

func (r *Registry) Remove(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := slices.Index(r.listeners, l); i >= 0 {
		r.listeners = slices.Delete(slices.Clone(r.listeners), i, i+1)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = nil
}

// Each calls fn for every listener in subscription order. fn runs on the
// listeners registered when Each was called, without the registry lock held.
func (r *Registry) Each(fn func(Listener)) {
	r.mu.Lock()
	snapshot := r.listeners
	r.mu.Unlock()
	for _, l := range snapshot {
		fn(l)
	}
}
