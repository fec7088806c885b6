// Package effects shapes the tone and level of rendered clicks.
package effects

import (
	"math"
	"sync/atomic"
)

// Effector processes one stereo frame.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Chain applies a sequence of effects in order. A nil Chain passes audio
// through unchanged.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	if c == nil {
		return l, r
	}
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	if c == nil {
		return
	}
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.effects)
}

// Gain is a level stage that can be changed from any goroutine while the
// audio thread reads it. The factor is stored as float32 bits.
type Gain struct {
	bits atomic.Uint32
}

// NewGain returns a stage boosting by db decibels.
func NewGain(db float64) *Gain {
	g := &Gain{}
	g.SetDB(db)
	return g
}

func (g *Gain) SetDB(db float64) {
	g.bits.Store(math.Float32bits(float32(math.Pow(10, db/20))))
}

func (g *Gain) Factor() float32 {
	return math.Float32frombits(g.bits.Load())
}

func (g *Gain) Process(l, r float32) (float32, float32) {
	f := g.Factor()
	return l * f, r * f
}

func (g *Gain) Reset() {}
