package tack

import (
	"fmt"
	"strings"
)

// TickType tags a position in the beat or subdivision pattern.
type TickType string

const (
	TickNormal TickType = "normal"
	TickStrong TickType = "strong"
	TickSub    TickType = "sub"
	TickMuted  TickType = "muted"
)

// ParseTickType maps a tag to a TickType. Unknown tags are normal beats.
func ParseTickType(s string) TickType {
	switch TickType(strings.ToLower(strings.TrimSpace(s))) {
	case TickStrong:
		return TickStrong
	case TickSub:
		return TickSub
	case TickMuted:
		return TickMuted
	default:
		return TickNormal
	}
}

// ParseTickTypes splits a comma separated pattern such as
// "strong,normal,normal,normal".
func ParseTickTypes(pattern string) []TickType {
	if strings.TrimSpace(pattern) == "" {
		return nil
	}
	parts := strings.Split(pattern, ",")
	out := make([]TickType, len(parts))
	for i, p := range parts {
		out[i] = ParseTickType(p)
	}
	return out
}

// JoinTickTypes is the inverse of ParseTickTypes.
func JoinTickTypes(types []TickType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Tick is one scheduled timing event. Ticks are values and are never
// modified after the generator creates them.
type Tick struct {
	Index       int64 // steps since start
	Beat        int   // 1-based position in the bar
	Subdivision int   // 1-based position in the beat
	Type        TickType
	Muted       bool // inside a mute window
}

// IsBeat reports whether the tick falls on a beat rather than between beats.
func (t Tick) IsBeat() bool { return t.Subdivision == 1 }

// IsDownbeat reports whether the tick starts a bar.
func (t Tick) IsDownbeat() bool { return t.Beat == 1 && t.Subdivision == 1 }

func (t Tick) String() string {
	return fmt.Sprintf("Tick{index=%d, beat=%d, sub=%d, type=%s, muted=%t}",
		t.Index, t.Beat, t.Subdivision, t.Type, t.Muted)
}

// TickAt returns the tick for step index of cfg's pattern. The first
// subdivision of a beat takes the beat's tag; the others take their
// subdivision tag. The Muted flag is engine state and is left false.
func TickAt(index int64, cfg Config) Tick {
	cfg = cfg.Normalize()
	return tickAt(index, cfg.Beats, cfg.Subdivisions)
}

func tickAt(index int64, beats, subdivisions []TickType) Tick {
	subs := int64(len(subdivisions))
	beatIndex := index / subs
	sub := index % subs
	tick := Tick{
		Index:       index,
		Beat:        int(beatIndex%int64(len(beats))) + 1,
		Subdivision: int(sub) + 1,
	}
	if sub == 0 {
		tick.Type = beats[beatIndex%int64(len(beats))]
	} else {
		tick.Type = subdivisions[sub]
	}
	return tick
}
