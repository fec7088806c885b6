// Package interval holds the timing math of the metronome. All results are
// whole milliseconds so bar-based durations follow live tempo changes exactly
// the way the tick loop counts them.
package interval

import (
	"strings"
	"time"
)

// Unit is the unit of a duration setting (incremental ramp, timer, mute window).
type Unit string

const (
	Bars    Unit = "bars"
	Seconds Unit = "seconds"
	Minutes Unit = "minutes"
)

// ParseUnit maps a unit name to a Unit. Unknown names fall back to Bars.
func ParseUnit(name string) Unit {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "s", "sec", "secs", "second", "seconds":
		return Seconds
	case "m", "min", "mins", "minute", "minutes":
		return Minutes
	default:
		return Bars
	}
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	return u == Bars || u == Seconds || u == Minutes
}

func ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Beat returns the length of one beat at tempo bpm.
func Beat(tempo int) time.Duration {
	if tempo <= 0 {
		return 0
	}
	return ms(int64(60000 / tempo))
}

// Subdivision returns the spacing between two ticks when every beat is split
// into subs slots.
func Subdivision(tempo, subs int) time.Duration {
	if subs <= 0 {
		subs = 1
	}
	return ms(Beat(tempo).Milliseconds() / int64(subs))
}

// Bar returns the length of one full cycle of a beats-long pattern.
func Bar(tempo, beats int) time.Duration {
	return Beat(tempo) * time.Duration(beats)
}

// CountIn returns the length of the count-in; zero when countIn is disabled.
func CountIn(tempo, beats, countIn int) time.Duration {
	if countIn <= 0 {
		return 0
	}
	return Bar(tempo, beats) * time.Duration(countIn)
}

// UnitFactor is the wall-clock length of one unit. Bars have no fixed length
// and return zero.
func UnitFactor(u Unit) time.Duration {
	switch u {
	case Seconds:
		return time.Second
	case Minutes:
		return time.Minute
	default:
		return 0
	}
}

// Timer returns the total length of a duration setting.
func Timer(tempo, beats, duration int, u Unit) time.Duration {
	if duration <= 0 {
		return 0
	}
	if u == Seconds || u == Minutes {
		return UnitFactor(u) * time.Duration(duration)
	}
	return Bar(tempo, beats) * time.Duration(duration)
}
