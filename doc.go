// Package tack is a metronome engine. It generates beat and subdivision
// ticks at a tempo-derived cadence and layers count-in, incremental tempo
// ramps, mute windows, an auto-stop timer and elapsed-time tracking on one
// clock. Every tick is delivered to an audio sink and to registered
// listeners, shifted by a configurable latency.
//
// An Engine runs two scheduling loops: one that only generates ticks, and
// one that delivers callbacks and runs the time-driven controllers, so slow
// listeners never delay tick generation.
//
//	e := tack.New(tack.WithStore(store), tack.WithSink(sink))
//	e.AddListener(myListener)
//	e.SetTempo(96)
//	if err := e.Start(); err != nil {
//	    // tack.ErrPermissionMissing or tack.ErrConnectionMissing
//	}
//	defer e.Destroy()
package tack
