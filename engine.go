package tack

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	intprefs "github.com/cbegin/tack-go/internal/prefs"
	intsched "github.com/cbegin/tack-go/internal/sched"
)

// Engine is a metronome. All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	store      Store
	sink       Sink
	permission PermissionChecker
	listeners  *Registry
	clock      Clock
	logger     *slog.Logger
	intN       func(n int) int

	tickLoop     *intsched.Loop
	callbackLoop *intsched.Loop
	destroyed    bool

	playing     bool
	session     uint64
	tickIndex   int64
	countingIn  bool
	tempPlaying bool

	muted         bool
	sinkMuted     bool
	muteCountDown int
	muteTask      *intsched.Task

	incrementalTask *intsched.Task

	elapsedStart    time.Time
	elapsed         time.Duration
	elapsedPrevious time.Duration
	elapsedTask     *intsched.Task

	timer timerState
}

// New creates a stopped engine and loads its settings from the store.
func New(opts ...Option) *Engine {
	e := &Engine{
		store:     intprefs.NewMemoryStore(),
		sink:      NopSink{},
		listeners: NewRegistry(),
		clock:     intsched.Real(),
		logger:    slog.Default(),
		intN:      rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg = LoadConfig(e.store)
	e.sink.SetSound(e.cfg.Sound)
	e.sink.SetGain(e.cfg.Gain)
	return e
}

func (e *Engine) AddListener(l Listener)    { e.listeners.Add(l) }
func (e *Engine) RemoveListener(l Listener) { e.listeners.Remove(l) }

// Listeners returns the registry events are delivered to.
func (e *Engine) Listeners() *Registry { return e.listeners }

// Start begins playback with the reset-on-start policies applied. Starting
// a playing engine does nothing.
func (e *Engine) Start() error { return e.start(true) }

// Resume begins playback keeping timer progress and elapsed time.
func (e *Engine) Resume() error { return e.start(false) }

func (e *Engine) start(reset bool) error {
	if e.permission != nil && !e.permission.HasStartPermission() {
		e.logger.Warn("start refused", slog.String("reason", "permission missing"))
		e.listeners.Each(func(l Listener) { l.OnPermissionMissing() })
		return ErrPermissionMissing
	}

	e.mu.Lock()
	if e.playing {
		e.mu.Unlock()
		return nil
	}
	if e.destroyed {
		e.mu.Unlock()
		e.logger.Warn("start refused", slog.String("reason", "engine destroyed"))
		e.listeners.Each(func(l Listener) { l.OnConnectionMissing() })
		return ErrConnectionMissing
	}
	e.ensureLoops()
	cfg := e.cfg
	e.playing = true
	e.session++
	session := e.session
	e.tickIndex = 0
	e.muted = false
	if cfg.Mute.Active() {
		e.muteCountDown = e.muteCount(cfg.Mute, false)
	}
	e.countingIn = cfg.CountIn > 0
	e.mu.Unlock()

	e.sink.Play()
	e.logger.Info("metronome started",
		slog.Int("tempo", cfg.Tempo),
		slog.Int("beats", len(cfg.Beats)),
		slog.Int("subdivisions", len(cfg.Subdivisions)),
		slog.Int("count_in", cfg.CountIn),
	)
	e.listeners.Each(func(l Listener) { l.OnStart() })

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(session) {
		return nil
	}
	e.tickLoop.Every(0, func() time.Duration { return e.step(session) })
	e.callbackLoop.Post(cfg.CountInInterval(), func() { e.finishCountIn(session, reset) })
	return nil
}

// ensureLoops creates the scheduling loops on first use and after Destroy
// closed them. Callers hold e.mu.
func (e *Engine) ensureLoops() {
	if e.tickLoop == nil || !e.tickLoop.Alive() {
		e.tickLoop = intsched.NewLoop("tick", e.clock, e.logger)
	}
	if e.callbackLoop == nil || !e.callbackLoop.Alive() {
		e.callbackLoop = intsched.NewLoop("callback", e.clock, e.logger)
	}
}

// live reports whether work scheduled for session may still run. Callers
// hold e.mu.
func (e *Engine) live(session uint64) bool {
	return e.playing && e.session == session
}

func (e *Engine) isLive(session uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live(session)
}

// step generates one tick and returns the delay until the next.
func (e *Engine) step(session uint64) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(session) {
		return -1
	}
	cfg := e.cfg
	next := cfg.SubdivisionInterval()

	tick := tickAt(e.tickIndex, cfg.Beats, cfg.Subdivisions)
	if tick.IsDownbeat() {
		e.barStarted(session, cfg)
	}
	tick.Muted = e.muted
	e.dispatch(session, tick, cfg)
	e.tickIndex++
	return next
}

// barStarted runs the bar-driven controllers. Count-in bars are skipped and
// later bars are counted from the end of the count-in. Callers hold e.mu.
func (e *Engine) barStarted(session uint64, cfg Config) {
	bar := e.tickIndex / int64(len(cfg.Subdivisions)) / int64(len(cfg.Beats))
	if bar < int64(cfg.CountIn) {
		return
	}
	effective := bar - int64(cfg.CountIn)

	if inc := cfg.Incremental; inc.Active() && inc.Unit == UnitBars {
		every := int64(inc.Interval)
		if effective >= every && effective%every == 0 {
			if next, ok := inc.Next(cfg.Tempo); ok {
				e.announceTempo(session, cfg.Tempo, next)
			}
		}
	}
	if cfg.Mute.Active() && cfg.Mute.Unit == UnitBars {
		e.muteBar(cfg.Mute)
	}
}

// dispatch delivers tick to the sink and listeners after the latency, with
// the pre-tick BeatAnimOffset ahead of it. The sink hears SetMuted when a
// mute window opens or closes and no OnTick for muted ticks. Callers hold
// e.mu.
func (e *Engine) dispatch(session uint64, tick Tick, cfg Config) {
	pre := max(cfg.Latency-BeatAnimOffset, 0)
	e.callbackLoop.Post(pre, func() {
		if !e.isLive(session) {
			return
		}
		e.listeners.Each(func(l Listener) { l.OnPreTick(tick) })
	})
	tempo, subs := cfg.Tempo, len(cfg.Subdivisions)
	e.callbackLoop.Post(cfg.Latency, func() {
		e.mu.Lock()
		if !e.live(session) {
			e.mu.Unlock()
			return
		}
		toggled := e.sinkMuted != tick.Muted
		e.sinkMuted = tick.Muted
		e.mu.Unlock()

		if toggled {
			e.sink.SetMuted(tick.Muted)
		}
		if !tick.Muted {
			e.sink.OnTick(tick, tempo, subs)
		}
		e.listeners.Each(func(l Listener) { l.OnTick(tick) })
	})
}

// finishCountIn switches on the controllers that wait for the count-in.
func (e *Engine) finishCountIn(session uint64, reset bool) {
	e.mu.Lock()
	if !e.live(session) {
		e.mu.Unlock()
		return
	}
	cfg := e.cfg
	e.countingIn = false
	e.restartIncremental(cfg)

	e.elapsedStart = e.clock.Now()
	if reset && cfg.ResetElapsed {
		e.elapsed = 0
		e.elapsedPrevious = 0
	}
	e.restartElapsed()

	progress := e.timer.progress
	if reset && cfg.ResetTimer {
		progress = 0
	}
	timerStarted := e.restartTimer(cfg, progress, true)
	e.restartMute(cfg)
	e.mu.Unlock()

	if timerStarted {
		e.listeners.Each(func(l Listener) { l.OnTimerStarted() })
	}
}

// Stop halts playback. Pending deliveries are dropped; timer progress and
// elapsed time are kept for the next start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.timer.progress = e.timerProgress()
	e.timer.running = false
	e.elapsedPrevious = e.currentElapsed()
	e.elapsed = e.elapsedPrevious
	e.playing = false
	e.countingIn = false
	e.cancelTasks()
	e.tickLoop.Purge()
	e.callbackLoop.Purge()
	ticks := e.tickIndex
	unmute := e.sinkMuted
	e.sinkMuted = false
	e.mu.Unlock()

	if unmute {
		e.sink.SetMuted(false)
	}
	e.sink.Stop()
	e.logger.Info("metronome stopped", slog.Int64("ticks", ticks))
	e.listeners.Each(func(l Listener) { l.OnStop() })
}

// cancelTasks cancels every controller task. Callers hold e.mu.
func (e *Engine) cancelTasks() {
	e.incrementalTask.Cancel()
	e.incrementalTask = nil
	e.muteTask.Cancel()
	e.muteTask = nil
	e.elapsedTask.Cancel()
	e.elapsedTask = nil
	e.timer.cancel()
}

// Destroy releases the engine. Listeners are dropped without a stop event
// and later starts fail with ErrConnectionMissing.
func (e *Engine) Destroy() {
	e.listeners.Clear()
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.playing = false
	e.countingIn = false
	e.cancelTasks()
	if e.tickLoop != nil {
		e.tickLoop.Close()
	}
	if e.callbackLoop != nil {
		e.callbackLoop.Close()
	}
	e.mu.Unlock()

	e.sink.Stop()
	if c, ok := e.sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			e.logger.Error("close sink", slog.Any("error", err))
		}
	}
	e.logger.Info("metronome destroyed")
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// TickIndex returns the number of ticks generated since the last start.
func (e *Engine) TickIndex() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickIndex
}

func (e *Engine) IsCountingIn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing && e.countingIn
}

// SavePlayingState remembers whether the engine is playing, for a caller
// that is about to stop it temporarily.
func (e *Engine) SavePlayingState() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tempPlaying = e.playing
}

// RestorePlayingState resumes or stops to match the last SavePlayingState.
func (e *Engine) RestorePlayingState() error {
	e.mu.Lock()
	wasPlaying := e.tempPlaying
	e.mu.Unlock()
	if wasPlaying {
		return e.Resume()
	}
	e.Stop()
	return nil
}
