package tack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type namedListener struct {
	BaseListener
	name    string
	log     *[]string
	onStart func()
}

func (l *namedListener) OnStart() {
	*l.log = append(*l.log, l.name)
	if l.onStart != nil {
		l.onStart()
	}
}

func TestRegistryDeliversInSubscriptionOrder(t *testing.T) {
	var log []string
	r := NewRegistry()
	a := &namedListener{name: "a", log: &log}
	b := &namedListener{name: "b", log: &log}
	c := &namedListener{name: "c", log: &log}
	r.Add(a)
	r.Add(b)
	r.Add(c)
	r.Add(a)
	r.Add(nil)
	require.Equal(t, 3, r.Len())

	r.Each(func(l Listener) { l.OnStart() })
	require.Equal(t, []string{"a", "b", "c"}, log)

	r.Remove(b)
	log = nil
	r.Each(func(l Listener) { l.OnStart() })
	require.Equal(t, []string{"a", "c"}, log)

	r.Clear()
	require.Zero(t, r.Len())
}

func TestRegistryToleratesChangesDuringFanOut(t *testing.T) {
	var log []string
	r := NewRegistry()
	b := &namedListener{name: "b", log: &log}
	late := &namedListener{name: "late", log: &log}
	a := &namedListener{name: "a", log: &log, onStart: func() {
		r.Remove(b)
		r.Add(late)
	}}
	r.Add(a)
	r.Add(b)

	r.Each(func(l Listener) { l.OnStart() })
	require.Equal(t, []string{"a", "b"}, log)

	log = nil
	a.onStart = nil
	r.Each(func(l Listener) { l.OnStart() })
	require.Equal(t, []string{"a", "late"}, log)
}

func TestSharedRegistry(t *testing.T) {
	r := NewRegistry()
	var log []string
	r.Add(&namedListener{name: "shared", log: &log})
	e, _, _ := newTestEngine(t, WithRegistry(r))
	require.Same(t, r, e.Listeners())
	require.NoError(t, e.Start())
	require.Equal(t, []string{"shared"}, log)
	require.Equal(t, 2, r.Len())
}
