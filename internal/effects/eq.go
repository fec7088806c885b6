package effects

import "math"

// EQ3Band splits the signal with two one-pole filters and re-mixes the low,
// mid and high bands with separate gains. It gives each click sound its
// color: a dark wood block, a bright mechanical tick, a flat sine.
type EQ3Band struct {
	low, mid, high float32
	lpAlpha        float32
	hpAlpha        float32
	lpL, lpR       float32
	hpL, hpR       float32
}

// NewEQ3Band creates an EQ with band gains in decibels and crossovers at
// lowFreq and highFreq Hz.
func NewEQ3Band(sampleRate int, lowDB, midDB, highDB, lowFreq, highFreq float64) *EQ3Band {
	dt := 1.0 / float64(sampleRate)
	alpha := func(freq float64) float32 {
		rc := 1.0 / (2.0 * math.Pi * freq)
		return float32(dt / (rc + dt))
	}
	eq := &EQ3Band{
		lpAlpha: alpha(lowFreq),
		hpAlpha: alpha(highFreq),
	}
	eq.SetGains(lowDB, midDB, highDB)
	return eq
}

// SetGains changes the band gains. Not safe to call while Process runs.
func (eq *EQ3Band) SetGains(lowDB, midDB, highDB float64) {
	eq.low = dbToLinear(lowDB)
	eq.mid = dbToLinear(midDB)
	eq.high = dbToLinear(highDB)
}

func (eq *EQ3Band) Process(l, r float32) (float32, float32) {
	eq.lpL += eq.lpAlpha * (l - eq.lpL)
	eq.lpR += eq.lpAlpha * (r - eq.lpR)
	eq.hpL += eq.hpAlpha * (l - eq.hpL)
	eq.hpR += eq.hpAlpha * (r - eq.hpR)

	highL, highR := l-eq.hpL, r-eq.hpR
	midL := l - eq.lpL - highL
	midR := r - eq.lpR - highR

	return eq.lpL*eq.low + midL*eq.mid + highL*eq.high,
		eq.lpR*eq.low + midR*eq.mid + highR*eq.high
}

func (eq *EQ3Band) Reset() {
	eq.lpL, eq.lpR = 0, 0
	eq.hpL, eq.hpR = 0, 0
}

func dbToLinear(db float64) float32 {
	return float32(math.Pow(10, db/20))
}
