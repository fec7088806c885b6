package effects

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNilChainPassesThrough(t *testing.T) {
	var c *Chain
	l, r := c.Process(0.3, -0.2)
	if l != 0.3 || r != -0.2 {
		t.Fatalf("nil chain changed the signal: %f %f", l, r)
	}
	if c.Len() != 0 {
		t.Fatalf("nil chain has %d effects", c.Len())
	}
}

func TestGainScales(t *testing.T) {
	g := NewGain(0)
	if !near(g.Factor(), 1) {
		t.Fatalf("0 dB should be unity, got %f", g.Factor())
	}
	g.SetDB(6)
	l, _ := g.Process(0.25, 0.25)
	if !near(l, 0.25*float32(math.Pow(10, 6.0/20))) {
		t.Fatalf("unexpected boosted sample %f", l)
	}
}

func TestFlatEQIsTransparent(t *testing.T) {
	eq := NewEQ3Band(48000, 0, 0, 0, 400, 4000)
	for i := 0; i < 1000; i++ {
		in := float32(math.Sin(float64(i) * 0.1))
		l, r := eq.Process(in, -in)
		if !near(l, in) || !near(r, -in) {
			t.Fatalf("frame %d: flat EQ changed %f to %f/%f", i, in, l, r)
		}
	}
}

func TestEQCutsHighBand(t *testing.T) {
	eq := NewEQ3Band(48000, 0, 0, -24, 400, 4000)
	var peak float64
	for i := 0; i < 4800; i++ {
		in := float32(math.Sin(2 * math.Pi * 12000 * float64(i) / 48000))
		l, _ := eq.Process(in, in)
		if i > 480 {
			peak = math.Max(peak, math.Abs(float64(l)))
		}
	}
	if peak > 0.5 {
		t.Fatalf("expected a cut at 12 kHz, peak %f", peak)
	}
}

func TestLimiterHoldsCeiling(t *testing.T) {
	lim := NewLimiter(48000, -1, 80)
	ceiling := float64(dbToLinear(-1))
	for i := 0; i < 4800; i++ {
		in := float32(2 * math.Sin(float64(i)*0.05))
		l, r := lim.Process(in, in/2)
		if math.Abs(float64(l)) > ceiling+1e-6 || math.Abs(float64(r)) > ceiling+1e-6 {
			t.Fatalf("frame %d exceeds ceiling: %f %f", i, l, r)
		}
	}
}

func TestLimiterLeavesQuietSignalAlone(t *testing.T) {
	lim := NewLimiter(48000, -1, 80)
	l, r := lim.Process(0.1, -0.2)
	if l != 0.1 || r != -0.2 {
		t.Fatalf("quiet signal changed: %f %f", l, r)
	}
}

func TestChainRunsInOrder(t *testing.T) {
	c := NewChain(NewGain(20), NewLimiter(48000, 0, 50))
	c.Add(NewGain(-6))
	if c.Len() != 3 {
		t.Fatalf("expected 3 effects, got %d", c.Len())
	}
	l, _ := c.Process(0.5, 0.5)
	want := float32(math.Pow(10, -6.0/20))
	if !near(l, want) {
		t.Fatalf("expected limited then attenuated %f, got %f", want, l)
	}
	c.Reset()
}
