package tack

import (
	"slices"
	"time"

	intclick "github.com/cbegin/tack-go/internal/click"
)

// Setters clamp silently, write the new value back to the store and
// restart whatever controller depends on it.

// Config returns a snapshot of every setting.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Clone()
}

// SetConfig applies a whole configuration at once, as when switching song
// parts. Running controllers restart and the timer starts over.
func (e *Engine) SetConfig(c Config) {
	c = c.Normalize()
	e.mu.Lock()
	e.cfg = c
	e.restartIncremental(c)
	e.restartMute(c)
	started := e.restartTimer(c, 0, false)
	e.mu.Unlock()

	c.Save(e.store)
	e.sink.SetGain(c.Gain)
	e.sink.SetSound(c.Sound)
	e.emitTimerStarted(started)
}

func (e *Engine) Tempo() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Tempo
}

// SetTempo changes the tempo from the next tick on. Bar timers keep their
// progress and adopt the new bar length.
func (e *Engine) SetTempo(tempo int) {
	tempo = clampTempo(tempo)
	e.mu.Lock()
	if e.cfg.Tempo == tempo {
		e.mu.Unlock()
		return
	}
	e.cfg.Tempo = tempo
	started := e.retimeTimer(e.cfg)
	e.mu.Unlock()

	e.store.SetInt(keyTempo, tempo)
	e.emitTimerStarted(started)
}

// Interval returns the length of one beat at the current tempo.
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Interval()
}

func (e *Engine) Beats() []TickType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cfg.Beats)
}

func (e *Engine) BeatsCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cfg.Beats)
}

// SetBeats replaces the beat pattern. A running bar timer starts over,
// a stopped one keeps its progress.
func (e *Engine) SetBeats(beats []TickType) {
	beats = normalizeBeats(beats)
	e.mu.Lock()
	e.cfg.Beats = beats
	started := false
	if e.cfg.Timer.Active() && e.cfg.Timer.Unit == UnitBars {
		progress := e.timer.progress
		if e.playing {
			progress = 0
		}
		started = e.restartTimer(e.cfg, progress, true)
	}
	e.mu.Unlock()

	e.store.SetString(keyBeats, JoinTickTypes(beats))
	e.emitTimerStarted(started)
}

// SetBeat changes the tag of beat i (0-based). Out of range is ignored.
func (e *Engine) SetBeat(i int, t TickType) {
	beats := e.Beats()
	if i < 0 || i >= len(beats) {
		return
	}
	beats[i] = t
	e.SetBeats(beats)
}

// AddBeat appends a normal beat. It reports false at BeatsMax.
func (e *Engine) AddBeat() bool {
	beats := e.Beats()
	if len(beats) >= BeatsMax {
		return false
	}
	e.SetBeats(append(beats, TickNormal))
	return true
}

// RemoveBeat drops the last beat. It reports false at one beat.
func (e *Engine) RemoveBeat() bool {
	beats := e.Beats()
	if len(beats) <= 1 {
		return false
	}
	e.SetBeats(beats[:len(beats)-1])
	return true
}

func (e *Engine) Subdivisions() []TickType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cfg.Subdivisions)
}

func (e *Engine) SubdivisionsCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cfg.Subdivisions)
}

// IsSubdivisionActive reports whether beats are split at all.
func (e *Engine) IsSubdivisionActive() bool {
	return e.SubdivisionsCount() > 1
}

// SetSubdivisions replaces the subdivision pattern. The first slot is always
// muted.
func (e *Engine) SetSubdivisions(subs []TickType) {
	subs = normalizeSubdivisions(subs)
	e.mu.Lock()
	e.cfg.Subdivisions = subs
	e.mu.Unlock()
	e.store.SetString(keySubdivisions, JoinTickTypes(subs))
}

// SetSubdivision changes the tag of slot i (0-based). Slot 0 is fixed.
func (e *Engine) SetSubdivision(i int, t TickType) {
	subs := e.Subdivisions()
	if i <= 0 || i >= len(subs) {
		return
	}
	subs[i] = t
	e.SetSubdivisions(subs)
}

// AddSubdivision appends a sub slot. It reports false at SubsMax.
func (e *Engine) AddSubdivision() bool {
	subs := e.Subdivisions()
	if len(subs) >= SubsMax {
		return false
	}
	e.SetSubdivisions(append(subs, TickSub))
	return true
}

// RemoveSubdivision drops the last slot. It reports false at one slot.
func (e *Engine) RemoveSubdivision() bool {
	subs := e.Subdivisions()
	if len(subs) <= 1 {
		return false
	}
	e.SetSubdivisions(subs[:len(subs)-1])
	return true
}

var (
	swing3 = []TickType{TickMuted, TickMuted, TickNormal}
	swing5 = []TickType{TickMuted, TickMuted, TickMuted, TickNormal, TickMuted}
	swing7 = []TickType{TickMuted, TickMuted, TickMuted, TickMuted, TickNormal, TickMuted, TickMuted}

	swing3Alt = []TickType{TickMuted, TickMuted, TickSub}
	swing5Alt = []TickType{TickMuted, TickMuted, TickMuted, TickSub, TickMuted}
	swing7Alt = []TickType{TickMuted, TickMuted, TickMuted, TickMuted, TickSub, TickMuted, TickMuted}
)

func (e *Engine) SetSwing3() { e.SetSubdivisions(swing3) }
func (e *Engine) SetSwing5() { e.SetSubdivisions(swing5) }
func (e *Engine) SetSwing7() { e.SetSubdivisions(swing7) }

func (e *Engine) isSwing(plain, alt []TickType) bool {
	subs := e.Subdivisions()
	return slices.Equal(subs, plain) || slices.Equal(subs, alt)
}

func (e *Engine) IsSwing3() bool { return e.isSwing(swing3, swing3Alt) }
func (e *Engine) IsSwing5() bool { return e.isSwing(swing5, swing5Alt) }
func (e *Engine) IsSwing7() bool { return e.isSwing(swing7, swing7Alt) }

func (e *Engine) IsSwingActive() bool {
	return e.IsSwing3() || e.IsSwing5() || e.IsSwing7()
}

func (e *Engine) CountIn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.CountIn
}

// SetCountIn sets the count-in length in bars, applied on the next start.
func (e *Engine) SetCountIn(bars int) {
	bars = max(bars, 0)
	e.mu.Lock()
	e.cfg.CountIn = bars
	e.mu.Unlock()
	e.store.SetInt(keyCountIn, bars)
}

func (e *Engine) IsCountInActive() bool {
	return e.CountIn() > 0
}

// CountInInterval returns the count-in length at the current tempo.
func (e *Engine) CountInInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.CountInInterval()
}

func (e *Engine) Latency() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Latency
}

// SetLatency sets how long deliveries trail tick generation, from the next
// tick on.
func (e *Engine) SetLatency(d time.Duration) {
	d = max(d, 0).Truncate(time.Millisecond)
	e.mu.Lock()
	e.cfg.Latency = d
	e.mu.Unlock()
	e.store.SetInt(keyLatency, int(d.Milliseconds()))
}

func (e *Engine) setIncremental(fn func(c *IncrementalConfig), persist func()) {
	e.mu.Lock()
	fn(&e.cfg.Incremental)
	e.restartIncremental(e.cfg)
	e.mu.Unlock()
	persist()
}

func (e *Engine) SetIncrementalAmount(amount int) {
	amount = max(amount, 0)
	e.setIncremental(func(c *IncrementalConfig) { c.Amount = amount },
		func() { e.store.SetInt(keyIncrementalAmount, amount) })
}

func (e *Engine) SetIncrementalInterval(n int) {
	n = max(n, 1)
	e.setIncremental(func(c *IncrementalConfig) { c.Interval = n },
		func() { e.store.SetInt(keyIncrementalInterval, n) })
}

func (e *Engine) SetIncrementalUnit(u Unit) {
	u = normalizeUnit(u)
	e.setIncremental(func(c *IncrementalConfig) { c.Unit = u },
		func() { e.store.SetString(keyIncrementalUnit, string(u)) })
}

// SetIncrementalLimit sets the tempo the ramp stops at; 0 ramps to the end
// of the tempo range.
func (e *Engine) SetIncrementalLimit(limit int) {
	if limit != 0 {
		limit = clampTempo(limit)
	}
	e.mu.Lock()
	e.cfg.Incremental.Limit = limit
	e.mu.Unlock()
	e.store.SetInt(keyIncrementalLimit, limit)
}

func (e *Engine) SetIncrementalIncrease(increase bool) {
	e.mu.Lock()
	e.cfg.Incremental.Increase = increase
	e.mu.Unlock()
	e.store.SetBool(keyIncrementalIncrease, increase)
}

func (e *Engine) Incremental() IncrementalConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Incremental
}

func (e *Engine) setTimer(fn func(c *TimerConfig), persist func()) {
	e.mu.Lock()
	fn(&e.cfg.Timer)
	started := e.restartTimer(e.cfg, 0, false)
	e.mu.Unlock()
	persist()
	e.emitTimerStarted(started)
}

// SetTimerDuration sets the auto-stop length; 0 disables the timer. The
// timer starts over.
func (e *Engine) SetTimerDuration(d int) {
	d = max(d, 0)
	e.setTimer(func(c *TimerConfig) { c.Duration = d },
		func() { e.store.SetInt(keyTimerDuration, d) })
}

func (e *Engine) SetTimerUnit(u Unit) {
	u = normalizeUnit(u)
	e.setTimer(func(c *TimerConfig) { c.Unit = u },
		func() { e.store.SetString(keyTimerUnit, string(u)) })
}

func (e *Engine) Timer() TimerConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Timer
}

// SetResetTimer controls whether Start rewinds the timer.
func (e *Engine) SetResetTimer(reset bool) {
	e.mu.Lock()
	e.cfg.ResetTimer = reset
	e.mu.Unlock()
	e.store.SetBool(keyResetTimer, reset)
}

// SetResetElapsed controls whether Start clears the elapsed time.
func (e *Engine) SetResetElapsed(reset bool) {
	e.mu.Lock()
	e.cfg.ResetElapsed = reset
	e.mu.Unlock()
	e.store.SetBool(keyResetElapsed, reset)
}

func (e *Engine) setMute(fn func(c *MuteConfig), persist func()) {
	e.mu.Lock()
	fn(&e.cfg.Mute)
	if e.playing && e.cfg.Mute.Unit == UnitBars {
		e.muteCountDown = e.muteCount(e.cfg.Mute, false)
	}
	e.restartMute(e.cfg)
	e.mu.Unlock()
	persist()
}

// SetMutePlay sets how many units sound between mute windows; 0 disables
// muting.
func (e *Engine) SetMutePlay(n int) {
	n = max(n, 0)
	e.setMute(func(c *MuteConfig) { c.Play = n },
		func() { e.store.SetInt(keyMutePlay, n) })
}

// SetMuteMute sets the length of a mute window.
func (e *Engine) SetMuteMute(n int) {
	n = max(n, 0)
	e.setMute(func(c *MuteConfig) { c.Mute = n },
		func() { e.store.SetInt(keyMuteMute, n) })
}

func (e *Engine) SetMuteUnit(u Unit) {
	u = normalizeUnit(u)
	e.setMute(func(c *MuteConfig) { c.Unit = u },
		func() { e.store.SetString(keyMuteUnit, string(u)) })
}

// SetMuteRandom makes every window a random length up to its setting.
func (e *Engine) SetMuteRandom(random bool) {
	e.setMute(func(c *MuteConfig) { c.Random = random },
		func() { e.store.SetBool(keyMuteRandom, random) })
}

func (e *Engine) Mute() MuteConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Mute
}

// SetGain sets the sink's boost in dB, up to GainMax.
func (e *Engine) SetGain(gain int) {
	gain = min(max(gain, 0), GainMax)
	e.mu.Lock()
	e.cfg.Gain = gain
	e.mu.Unlock()
	e.sink.SetGain(gain)
	e.store.SetInt(keyGain, gain)
}

func (e *Engine) SetSound(sound string) {
	sound = string(intclick.ParseSound(sound))
	e.mu.Lock()
	e.cfg.Sound = sound
	e.mu.Unlock()
	e.sink.SetSound(sound)
	e.store.SetString(keySound, sound)
}
