package tack

import (
	"time"

	intprefs "github.com/cbegin/tack-go/internal/prefs"
)

// Store persists settings by key. Reads fall back to def when a key is
// missing or holds a value of another type.
type Store interface {
	Int(key string, def int) int
	SetInt(key string, value int)
	String(key string, def string) string
	SetString(key string, value string)
	Bool(key string, def bool) bool
	SetBool(key string, value bool)
}

// NewMemoryStore returns a Store that lives as long as the process.
func NewMemoryStore() *intprefs.MemoryStore { return intprefs.NewMemoryStore() }

// OpenFileStore opens a YAML-backed Store at path. A missing file is an
// empty store; every set is written through.
func OpenFileStore(path string) (*intprefs.FileStore, error) { return intprefs.OpenFileStore(path) }

const (
	keyTempo               = "tempo"
	keyBeats               = "beats"
	keySubdivisions        = "subdivisions"
	keyCountIn             = "count_in"
	keyLatency             = "latency"
	keyIncrementalAmount   = "incremental_amount"
	keyIncrementalInterval = "incremental_interval"
	keyIncrementalUnit     = "incremental_unit"
	keyIncrementalLimit    = "incremental_limit"
	keyIncrementalIncrease = "incremental_increase"
	keyTimerDuration       = "timer_duration"
	keyTimerUnit           = "timer_unit"
	keyResetTimer          = "reset_timer"
	keyResetElapsed        = "reset_elapsed"
	keyMutePlay            = "mute_play"
	keyMuteMute            = "mute_mute"
	keyMuteUnit            = "mute_unit"
	keyMuteRandom          = "mute_random"
	keyGain                = "gain"
	keySound               = "sound"
)

// LoadConfig reads every setting from s, using defaults for missing keys.
func LoadConfig(s Store) Config {
	def := DefaultConfig()
	if s == nil {
		return def
	}
	c := Config{
		Tempo:        s.Int(keyTempo, def.Tempo),
		Beats:        ParseTickTypes(s.String(keyBeats, JoinTickTypes(def.Beats))),
		Subdivisions: ParseTickTypes(s.String(keySubdivisions, JoinTickTypes(def.Subdivisions))),
		CountIn:      s.Int(keyCountIn, def.CountIn),
		Incremental: IncrementalConfig{
			Amount:   s.Int(keyIncrementalAmount, def.Incremental.Amount),
			Interval: s.Int(keyIncrementalInterval, def.Incremental.Interval),
			Unit:     ParseUnit(s.String(keyIncrementalUnit, string(def.Incremental.Unit))),
			Limit:    s.Int(keyIncrementalLimit, def.Incremental.Limit),
			Increase: s.Bool(keyIncrementalIncrease, def.Incremental.Increase),
		},
		Timer: TimerConfig{
			Duration: s.Int(keyTimerDuration, def.Timer.Duration),
			Unit:     ParseUnit(s.String(keyTimerUnit, string(def.Timer.Unit))),
		},
		Mute: MuteConfig{
			Play:   s.Int(keyMutePlay, def.Mute.Play),
			Mute:   s.Int(keyMuteMute, def.Mute.Mute),
			Unit:   ParseUnit(s.String(keyMuteUnit, string(def.Mute.Unit))),
			Random: s.Bool(keyMuteRandom, def.Mute.Random),
		},
		Latency:      time.Duration(s.Int(keyLatency, int(def.Latency.Milliseconds()))) * time.Millisecond,
		ResetTimer:   s.Bool(keyResetTimer, def.ResetTimer),
		ResetElapsed: s.Bool(keyResetElapsed, def.ResetElapsed),
		Gain:         s.Int(keyGain, def.Gain),
		Sound:        s.String(keySound, def.Sound),
	}
	return c.Normalize()
}

// Save writes every setting of c to s.
func (c Config) Save(s Store) {
	if s == nil {
		return
	}
	s.SetInt(keyTempo, c.Tempo)
	s.SetString(keyBeats, JoinTickTypes(c.Beats))
	s.SetString(keySubdivisions, JoinTickTypes(c.Subdivisions))
	s.SetInt(keyCountIn, c.CountIn)
	s.SetInt(keyLatency, int(c.Latency.Milliseconds()))
	s.SetInt(keyIncrementalAmount, c.Incremental.Amount)
	s.SetInt(keyIncrementalInterval, c.Incremental.Interval)
	s.SetString(keyIncrementalUnit, string(c.Incremental.Unit))
	s.SetInt(keyIncrementalLimit, c.Incremental.Limit)
	s.SetBool(keyIncrementalIncrease, c.Incremental.Increase)
	s.SetInt(keyTimerDuration, c.Timer.Duration)
	s.SetString(keyTimerUnit, string(c.Timer.Unit))
	s.SetBool(keyResetTimer, c.ResetTimer)
	s.SetBool(keyResetElapsed, c.ResetElapsed)
	s.SetInt(keyMutePlay, c.Mute.Play)
	s.SetInt(keyMuteMute, c.Mute.Mute)
	s.SetString(keyMuteUnit, string(c.Mute.Unit))
	s.SetBool(keyMuteRandom, c.Mute.Random)
	s.SetInt(keyGain, c.Gain)
	s.SetString(keySound, c.Sound)
}
