// Package click renders metronome clicks. A Synth is a SampleSource: Trigger
// queues a click that starts at the first frame of the next Process call, so
// callers that need sample accuracy split their buffers at trigger points.
package click

import (
	"math"
	"strings"
	"sync"

	"github.com/cbegin/tack-go/internal/effects"
)

// Accent selects pitch and level of a click.
type Accent int

const (
	Silent Accent = iota
	Sub
	Normal
	Strong
)

// Sound is a click timbre.
type Sound string

const (
	Sine       Sound = "sine"
	Wood       Sound = "wood"
	Mechanical Sound = "mechanical"
)

// Sounds lists the available timbres.
var Sounds = []Sound{Sine, Wood, Mechanical}

// ParseSound maps a name to a Sound, falling back to Sine.
func ParseSound(name string) Sound {
	switch Sound(strings.ToLower(strings.TrimSpace(name))) {
	case Wood:
		return Wood
	case Mechanical:
		return Mechanical
	default:
		return Sine
	}
}

type timbre struct {
	freq   [4]float64 // by Accent
	level  [4]float32
	decay  float64 // seconds to fall by 1/e
	length float64 // seconds
	noise  float32 // noise mix 0..1
	eq     [3]float64
}

var timbres = map[Sound]timbre{
	Sine: {
		freq:   [4]float64{0, 660, 880, 1760},
		level:  [4]float32{0, 0.45, 0.7, 0.9},
		decay:  0.012,
		length: 0.045,
		eq:     [3]float64{0, 0, 0},
	},
	Wood: {
		freq:   [4]float64{0, 700, 950, 1250},
		level:  [4]float32{0, 0.5, 0.75, 0.95},
		decay:  0.006,
		length: 0.03,
		noise:  0.15,
		eq:     [3]float64{4, 1, -8},
	},
	Mechanical: {
		freq:   [4]float64{0, 2400, 3000, 3600},
		level:  [4]float32{0, 0.4, 0.6, 0.85},
		decay:  0.003,
		length: 0.015,
		noise:  0.6,
		eq:     [3]float64{-6, 2, 6},
	},
}

type voice struct {
	pos    int
	length int
	phase  float64
	step   float64
	level  float32
	decay  float64
	noise  float32
}

// Synth mixes clicks into stereo frames.
type Synth struct {
	sampleRate int

	mu     sync.Mutex
	voices []voice
	sound  Sound
	muted  bool
	rng    uint32

	eq    *effects.EQ3Band
	gain  *effects.Gain
	chain *effects.Chain
}

// New creates a synth with the Sine sound at unity gain.
func New(sampleRate int) *Synth {
	eq := effects.NewEQ3Band(sampleRate, 0, 0, 0, 400, 4000)
	gain := effects.NewGain(0)
	s := &Synth{
		sampleRate: sampleRate,
		sound:      Sine,
		rng:        0x9e3779b9,
		eq:         eq,
		gain:       gain,
		chain:      effects.NewChain(eq, gain, effects.NewLimiter(sampleRate, -1, 80)),
	}
	return s
}

// SampleRate returns the rate given to New.
func (s *Synth) SampleRate() int { return s.sampleRate }

// SetSound switches the timbre of future clicks.
func (s *Synth) SetSound(sound Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sound = ParseSound(string(sound))
	t := timbres[s.sound]
	s.eq.SetGains(t.eq[0], t.eq[1], t.eq[2])
}

func (s *Synth) Sound() Sound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sound
}

// SetGainDB boosts the output; the limiter keeps it below full scale.
func (s *Synth) SetGainDB(db float64) {
	s.gain.SetDB(db)
}

// SetMuted drops triggers while muted. Clicks already sounding ring out.
func (s *Synth) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

func (s *Synth) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Trigger queues a click.
func (s *Synth) Trigger(a Accent) {
	if a <= Silent || a > Strong {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.muted {
		return
	}
	t := timbres[s.sound]
	sr := float64(s.sampleRate)
	s.voices = append(s.voices, voice{
		length: int(t.length * sr),
		step:   2 * math.Pi * t.freq[a] / sr,
		level:  t.level[a],
		decay:  t.decay * sr,
		noise:  t.noise,
	})
}

// Active returns the number of clicks still sounding.
func (s *Synth) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Process renders interleaved stereo frames into dst.
func (s *Synth) Process(dst []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i+1 < len(dst); i += 2 {
		var mix float32
		for v := range s.voices {
			mix += s.render(&s.voices[v])
		}
		dst[i], dst[i+1] = s.chain.Process(mix, mix)
	}
	live := s.voices[:0]
	for _, v := range s.voices {
		if v.pos < v.length {
			live = append(live, v)
		}
	}
	s.voices = live
}

func (s *Synth) render(v *voice) float32 {
	if v.pos >= v.length {
		return 0
	}
	env := float32(math.Exp(-float64(v.pos) / v.decay))
	tone := float32(math.Sin(v.phase))
	out := tone
	if v.noise > 0 {
		out = tone*(1-v.noise) + s.white()*v.noise
	}
	v.phase += v.step
	v.pos++
	return out * env * v.level
}

// white is a xorshift noise source so renders are reproducible.
func (s *Synth) white() float32 {
	x := s.rng
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.rng = x
	return float32(x)/float32(math.MaxUint32)*2 - 1
}
