package click

import (
	"math"
	"testing"
)

func energy(buf []float32) float64 {
	var e float64
	for _, s := range buf {
		e += math.Abs(float64(s))
	}
	return e
}

func TestSynthSilentWithoutTriggers(t *testing.T) {
	s := New(48000)
	buf := make([]float32, 960)
	s.Process(buf)
	if e := energy(buf); e != 0 {
		t.Fatalf("expected silence, got energy %f", e)
	}
}

func TestSynthTriggerProducesDecayingClick(t *testing.T) {
	s := New(48000)
	s.Trigger(Normal)
	buf := make([]float32, 48000/10*2)
	s.Process(buf)

	head := energy(buf[:960])
	tail := energy(buf[len(buf)-960:])
	if head == 0 {
		t.Fatalf("expected click energy at the start")
	}
	if tail > 1e-3 {
		t.Fatalf("click should have ended after 100ms, tail energy %f", tail)
	}
	if s.Active() != 0 {
		t.Fatalf("finished voices should be dropped, %d left", s.Active())
	}
}

func TestSynthStrongIsLouderThanSub(t *testing.T) {
	render := func(a Accent) float64 {
		s := New(48000)
		s.Trigger(a)
		buf := make([]float32, 4800)
		s.Process(buf)
		return energy(buf)
	}
	if strong, sub := render(Strong), render(Sub); strong <= sub {
		t.Fatalf("strong energy %f should exceed sub energy %f", strong, sub)
	}
	if silent := render(Silent); silent != 0 {
		t.Fatalf("silent accent rendered energy %f", silent)
	}
}

func TestSynthMutedDropsTriggers(t *testing.T) {
	s := New(48000)
	s.SetMuted(true)
	s.Trigger(Strong)
	if s.Active() != 0 {
		t.Fatalf("muted synth queued a click")
	}
	s.SetMuted(false)
	s.Trigger(Strong)
	if s.Active() != 1 {
		t.Fatalf("unmuted synth should queue a click")
	}
}

func TestSynthOutputStaysBelowFullScale(t *testing.T) {
	s := New(48000)
	s.SetGainDB(24)
	for i := 0; i < 8; i++ {
		s.Trigger(Strong)
	}
	buf := make([]float32, 9600)
	s.Process(buf)
	for i, v := range buf {
		if math.Abs(float64(v)) > 1.0 {
			t.Fatalf("sample %d = %f exceeds full scale", i, v)
		}
	}
}

func TestParseSound(t *testing.T) {
	cases := map[string]Sound{"wood": Wood, " Mechanical": Mechanical, "sine": Sine, "cowbell": Sine}
	for in, want := range cases {
		if got := ParseSound(in); got != want {
			t.Fatalf("ParseSound(%q) = %q, want %q", in, got, want)
		}
	}
	s := New(44100)
	s.SetSound("wood")
	if s.Sound() != Wood {
		t.Fatalf("sound = %q, want wood", s.Sound())
	}
}
