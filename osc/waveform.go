package osc

import "math"

const twoPi = 2 * math.Pi

// Primitive waveforms of phase alone. Phase is taken modulo 1.
var (
	Sine     = Phase("sine", sine)
	Square   = Phase("square", func(p float32) float32 { return pulse(p, 0.5) })
	Saw      = Phase("saw", saw)
	Triangle = Phase("triangle", triangle)
	// Ramp rises from 0 to 1 across the duration of a note.
	Ramp = NewPhaseTimeDuration("ramp", func(_, t, d float32) float32 {
		if d <= 0 {
			return 0
		}
		return clamp01(t / d)
	})
)

func frac(p float32) float32 {
	f := float64(p)
	return float32(f - math.Floor(f))
}

func sine(p float32) float32 {
	return float32(math.Sin(twoPi * float64(p)))
}

func saw(p float32) float32 {
	return 2*frac(p) - 1
}

func triangle(p float32) float32 {
	p = frac(p)
	if p < 0.5 {
		return 4*p - 1
	}
	return 3 - 4*p
}

func pulse(p, width float32) float32 {
	if frac(p) < width {
		return 1
	}
	return -1
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Pulse returns a rectangular wave that is high for the first width of each
// cycle.
func Pulse(width float32) *Leaf {
	width = clamp01(width)
	return Phase("pulse", func(p float32) float32 { return pulse(p, width) })
}

// Noise returns white noise in [-1, 1) that is a pure function of phase and
// seed, so repeated evaluation yields identical samples.
func Noise(seed float32) *Leaf {
	s := float64(seed)
	return Phase("noise", func(p float32) float32 {
		v := math.Sin(float64(p)*12345.6789+s*67890.1234) * 43758.5453
		v -= math.Floor(v)
		return float32(v*2 - 1)
	})
}

// Constant returns a leaf that ignores its inputs.
func Constant(k float32) *Leaf {
	return Phase("const", func(float32) float32 { return k })
}

// ADSR returns an amplitude envelope over a note. attack, decay and release
// are in seconds and sustain is a level in [0, 1]. The release runs over the
// final release seconds of the note so the envelope reaches zero at the end
// of its duration.
func ADSR(attack, decay, sustain, release float32) *Leaf {
	sustain = clamp01(sustain)
	return NewPhaseTimeDuration("adsr", func(_, t, d float32) float32 {
		var level float32
		switch {
		case t < attack:
			level = t / attack
		case t < attack+decay:
			level = 1 - (1-sustain)*(t-attack)/decay
		default:
			level = sustain
		}
		if release > 0 && t > d-release {
			level *= clamp01((d - t) / release)
		}
		return level
	})
}

// Table returns a wavetable oscillator reading one cycle of samples with
// linear interpolation.
func Table(samples []float32) *Leaf {
	table := append([]float32(nil), samples...)
	return Phase("table", func(p float32) float32 {
		n := len(table)
		if n == 0 {
			return 0
		}
		pos := float64(frac(p)) * float64(n)
		i := int(pos)
		if i >= n {
			i = n - 1
		}
		f := float32(pos - float64(i))
		next := table[(i+1)%n]
		return table[i] + (next-table[i])*f
	})
}

// Pan spreads a mono oscillator over two channels with an equal-power law.
// pos runs from -1 (left) to 1 (right).
func Pan(a Oscillator, pos float32) *Scalar {
	if pos < -1 {
		pos = -1
	}
	if pos > 1 {
		pos = 1
	}
	angle := float64(pos+1) * math.Pi / 4
	return MulValue(a, Buffer{{float32(math.Cos(angle))}, {float32(math.Sin(angle))}})
}
