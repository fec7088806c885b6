package effects

import "math"

// Limiter keeps boosted clicks below a ceiling. Attack is instant; the gain
// recovers over the release time. Both channels share one envelope so the
// stereo image does not shift.
type Limiter struct {
	ceiling float32
	release float32
	env     float32
}

// NewLimiter creates a limiter with a ceiling in dBFS and a release in ms.
func NewLimiter(sampleRate int, ceilingDB, releaseMs float64) *Limiter {
	return &Limiter{
		ceiling: dbToLinear(ceilingDB),
		release: float32(1.0 - math.Exp(-1.0/(releaseMs*float64(sampleRate)/1000.0))),
	}
}

func (lim *Limiter) Process(l, r float32) (float32, float32) {
	peak := float32(math.Max(math.Abs(float64(l)), math.Abs(float64(r))))
	if peak > lim.env {
		lim.env = peak
	} else {
		lim.env += lim.release * (peak - lim.env)
	}
	if lim.env <= lim.ceiling || lim.env == 0 {
		return l, r
	}
	g := lim.ceiling / lim.env
	return l * g, r * g
}

func (lim *Limiter) Reset() {
	lim.env = 0
}
