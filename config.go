package tack

import (
	"time"

	intclick "github.com/cbegin/tack-go/internal/click"
	intinterval "github.com/cbegin/tack-go/internal/interval"
)

const (
	TempoMin = 1
	TempoMax = 400
	BeatsMax = 20
	SubsMax  = 10
	GainMax  = 20

	// BeatAnimOffset is how far a pre-tick leads its tick.
	BeatAnimOffset = 25 * time.Millisecond

	DefaultTempo   = 120
	DefaultLatency = 100 * time.Millisecond
)

// Unit is the unit of a ramp, timer or mute window setting.
type Unit = intinterval.Unit

const (
	UnitBars    = intinterval.Bars
	UnitSeconds = intinterval.Seconds
	UnitMinutes = intinterval.Minutes
)

// ParseUnit maps a unit name to a Unit, falling back to bars.
func ParseUnit(name string) Unit { return intinterval.ParseUnit(name) }

// IncrementalConfig describes a tempo ramp. Amount 0 disables it.
type IncrementalConfig struct {
	Amount   int
	Interval int
	Unit     Unit
	Limit    int // 0 means the tempo range
	Increase bool
}

func (c IncrementalConfig) Active() bool { return c.Amount > 0 }

// Next returns the tempo one ramp step away from tempo. ok is false when the
// step would leave the bounds. A non-zero Limit is the bound in the ramp
// direction.
func (c IncrementalConfig) Next(tempo int) (next int, ok bool) {
	upper, lower := TempoMax, TempoMin
	if c.Limit != 0 {
		upper, lower = c.Limit, c.Limit
	}
	if c.Increase {
		if tempo+c.Amount <= upper {
			return tempo + c.Amount, true
		}
		return tempo, false
	}
	if tempo-c.Amount >= lower {
		return tempo - c.Amount, true
	}
	return tempo, false
}

// TimerConfig describes the auto-stop timer. Duration 0 disables it.
type TimerConfig struct {
	Duration int
	Unit     Unit
}

func (c TimerConfig) Active() bool { return c.Duration > 0 }

// MuteConfig alternates Play units of sound with Mute units of silence.
// Play 0 disables it.
type MuteConfig struct {
	Play   int
	Mute   int
	Unit   Unit
	Random bool
}

func (c MuteConfig) Active() bool { return c.Play > 0 }

// Config is a snapshot of every engine setting. Configs handed out by the
// engine own their slices.
type Config struct {
	Tempo        int
	Beats        []TickType
	Subdivisions []TickType
	CountIn      int // bars
	Incremental  IncrementalConfig
	Timer        TimerConfig
	Mute         MuteConfig
	Latency      time.Duration
	ResetTimer   bool
	ResetElapsed bool
	Gain         int
	Sound        string
}

// DefaultConfig returns a 4/4 pattern at 120 bpm with every controller off.
func DefaultConfig() Config {
	return Config{
		Tempo:        DefaultTempo,
		Beats:        []TickType{TickStrong, TickNormal, TickNormal, TickNormal},
		Subdivisions: []TickType{TickMuted},
		Incremental:  IncrementalConfig{Interval: 1, Unit: UnitBars, Increase: true},
		Timer:        TimerConfig{Unit: UnitBars},
		Mute:         MuteConfig{Mute: 1, Unit: UnitBars},
		Latency:      DefaultLatency,
		ResetTimer:   true,
		Sound:        string(intclick.Sine),
	}
}

// Normalize returns a copy of c with every field clamped to its valid range.
func (c Config) Normalize() Config {
	c.Tempo = clampTempo(c.Tempo)
	c.Beats = normalizeBeats(c.Beats)
	c.Subdivisions = normalizeSubdivisions(c.Subdivisions)
	c.CountIn = max(c.CountIn, 0)

	c.Incremental.Amount = max(c.Incremental.Amount, 0)
	c.Incremental.Interval = max(c.Incremental.Interval, 1)
	c.Incremental.Unit = normalizeUnit(c.Incremental.Unit)
	if c.Incremental.Limit != 0 {
		c.Incremental.Limit = clampTempo(c.Incremental.Limit)
	}

	c.Timer.Duration = max(c.Timer.Duration, 0)
	c.Timer.Unit = normalizeUnit(c.Timer.Unit)

	c.Mute.Play = max(c.Mute.Play, 0)
	c.Mute.Mute = max(c.Mute.Mute, 0)
	c.Mute.Unit = normalizeUnit(c.Mute.Unit)

	c.Latency = max(c.Latency, 0).Truncate(time.Millisecond)
	c.Gain = min(max(c.Gain, 0), GainMax)
	c.Sound = string(intclick.ParseSound(c.Sound))
	return c
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Beats = append([]TickType(nil), c.Beats...)
	c.Subdivisions = append([]TickType(nil), c.Subdivisions...)
	return c
}

// Interval is the length of one beat.
func (c Config) Interval() time.Duration { return intinterval.Beat(c.Tempo) }

// SubdivisionInterval is the spacing between two ticks.
func (c Config) SubdivisionInterval() time.Duration {
	return intinterval.Subdivision(c.Tempo, len(c.Subdivisions))
}

func (c Config) BarInterval() time.Duration {
	return intinterval.Bar(c.Tempo, len(c.Beats))
}

func (c Config) CountInInterval() time.Duration {
	return intinterval.CountIn(c.Tempo, len(c.Beats), c.CountIn)
}

// TimerInterval is the total length of the timer; zero when it is off.
func (c Config) TimerInterval() time.Duration {
	return intinterval.Timer(c.Tempo, len(c.Beats), c.Timer.Duration, c.Timer.Unit)
}

func clampTempo(tempo int) int {
	return min(max(tempo, TempoMin), TempoMax)
}

func normalizeUnit(u Unit) Unit {
	if u.Valid() {
		return u
	}
	return intinterval.ParseUnit(string(u))
}

func normalizeTypes(types []TickType, limit int) []TickType {
	if len(types) > limit {
		types = types[:limit]
	}
	out := make([]TickType, len(types))
	for i, t := range types {
		out[i] = ParseTickType(string(t))
	}
	return out
}

func normalizeBeats(beats []TickType) []TickType {
	out := normalizeTypes(beats, BeatsMax)
	if len(out) == 0 {
		out = []TickType{TickNormal}
	}
	return out
}

// normalizeSubdivisions forces the first slot to muted: it coincides with
// the beat, which carries its own tag.
func normalizeSubdivisions(subs []TickType) []TickType {
	out := normalizeTypes(subs, SubsMax)
	if len(out) == 0 {
		return []TickType{TickMuted}
	}
	out[0] = TickMuted
	return out
}
