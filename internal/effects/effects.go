// Package effects implements per-sample audio effects applied to rendered
// parts.
package effects

import "github.com/cbegin/oscmix/osc"

// Effector processes one channel, sample by sample.
type Effector interface {
	Process(x float32) float32
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(x float32) float32 {
	for _, e := range c.effects {
		x = e.Process(x)
	}
	return x
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int { return len(c.effects) }

// Apply runs every channel of buf through the chain, starting each channel
// from a reset state. buf is not modified.
func (c *Chain) Apply(buf osc.Buffer) osc.Buffer {
	out := buf.Clone()
	if len(c.effects) == 0 {
		return out
	}
	for _, ch := range out {
		c.Reset()
		for i, x := range ch {
			ch[i] = c.Process(x)
		}
	}
	c.Reset()
	return out
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
