package tack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickAt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beats = []TickType{TickStrong, TickNormal, TickNormal}
	cfg.Subdivisions = []TickType{TickMuted, TickSub}

	cases := []struct {
		index int64
		beat  int
		sub   int
		typ   TickType
	}{
		{0, 1, 1, TickStrong},
		{1, 1, 2, TickSub},
		{2, 2, 1, TickNormal},
		{5, 3, 2, TickSub},
		{6, 1, 1, TickStrong},
		{601, 1, 2, TickSub},
		{603, 2, 2, TickSub},
	}
	for _, tc := range cases {
		got := TickAt(tc.index, cfg)
		require.Equal(t, tc.index, got.Index)
		require.Equal(t, tc.beat, got.Beat, "index %d", tc.index)
		require.Equal(t, tc.sub, got.Subdivision, "index %d", tc.index)
		require.Equal(t, tc.typ, got.Type, "index %d", tc.index)
		require.False(t, got.Muted)
	}
}

func TestTickAtMutedBeat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beats = []TickType{TickStrong, TickMuted}
	require.Equal(t, TickMuted, TickAt(1, cfg).Type)
	require.True(t, TickAt(2, cfg).IsDownbeat())
	require.True(t, TickAt(1, cfg).IsBeat())
}

func TestParseTickTypes(t *testing.T) {
	require.Equal(t,
		[]TickType{TickStrong, TickNormal, TickSub, TickMuted, TickNormal},
		ParseTickTypes("strong, normal,SUB,muted,accent"))
	require.Nil(t, ParseTickTypes(" "))
	require.Equal(t, "strong,muted", JoinTickTypes([]TickType{TickStrong, TickMuted}))
}

func TestTickString(t *testing.T) {
	tk := Tick{Index: 3, Beat: 4, Subdivision: 1, Type: TickNormal, Muted: true}
	require.Equal(t, "Tick{index=3, beat=4, sub=1, type=normal, muted=true}", tk.String())
}
