package interval

import (
	"testing"
	"time"
)

func TestBeatAndSubdivision(t *testing.T) {
	cases := []struct {
		tempo, subs int
		beat, sub   time.Duration
	}{
		{tempo: 60, subs: 1, beat: time.Second, sub: time.Second},
		{tempo: 120, subs: 2, beat: 500 * time.Millisecond, sub: 250 * time.Millisecond},
		{tempo: 240, subs: 4, beat: 250 * time.Millisecond, sub: 62 * time.Millisecond},
		{tempo: 7, subs: 3, beat: 8571 * time.Millisecond, sub: 2857 * time.Millisecond},
		{tempo: 400, subs: 10, beat: 150 * time.Millisecond, sub: 15 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := Beat(tc.tempo); got != tc.beat {
			t.Fatalf("Beat(%d) = %v, want %v", tc.tempo, got, tc.beat)
		}
		if got := Subdivision(tc.tempo, tc.subs); got != tc.sub {
			t.Fatalf("Subdivision(%d, %d) = %v, want %v", tc.tempo, tc.subs, got, tc.sub)
		}
	}
}

func TestBeatRejectsZeroTempo(t *testing.T) {
	if got := Beat(0); got != 0 {
		t.Fatalf("Beat(0) = %v, want 0", got)
	}
	if got := Subdivision(120, 0); got != 500*time.Millisecond {
		t.Fatalf("zero subdivisions should count as one, got %v", got)
	}
}

func TestCountIn(t *testing.T) {
	if got := CountIn(120, 4, 2); got != 4*time.Second {
		t.Fatalf("CountIn = %v, want 4s", got)
	}
	if got := CountIn(120, 4, 0); got != 0 {
		t.Fatalf("disabled count-in = %v, want 0", got)
	}
}

func TestTimerUnits(t *testing.T) {
	if got := Timer(60, 4, 4, Bars); got != 16*time.Second {
		t.Fatalf("bars timer = %v, want 16s", got)
	}
	if got := Timer(60, 4, 30, Seconds); got != 30*time.Second {
		t.Fatalf("seconds timer = %v, want 30s", got)
	}
	if got := Timer(200, 3, 2, Minutes); got != 2*time.Minute {
		t.Fatalf("minutes timer = %v, want 2m", got)
	}
	if got := Timer(60, 4, 0, Minutes); got != 0 {
		t.Fatalf("disabled timer = %v, want 0", got)
	}
}

func TestParseUnit(t *testing.T) {
	cases := map[string]Unit{
		"bars":     Bars,
		"Seconds":  Seconds,
		" min ":    Minutes,
		"fortnite": Bars,
		"":         Bars,
	}
	for in, want := range cases {
		if got := ParseUnit(in); got != want {
			t.Fatalf("ParseUnit(%q) = %q, want %q", in, got, want)
		}
	}
	if Unit("weeks").Valid() {
		t.Fatalf("unexpected valid unit")
	}
}
