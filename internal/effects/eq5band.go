package effects

// EQ5Band is a 5-band equalizer split at 200Hz, 800Hz, 2.5kHz and 8kHz.
type EQ5Band struct {
	gains  [5]float32
	alphas [4]float32
	lp     [4]float32
}

var defaultCrossovers = [4]float64{200, 800, 2500, 8000}

// NewEQ5Band creates a 5-band EQ. Missing gains default to unity.
func NewEQ5Band(sampleRate int, gains ...float32) *EQ5Band {
	eq := &EQ5Band{}
	for i, freq := range defaultCrossovers {
		eq.alphas[i] = onePole(sampleRate, freq)
	}
	for i := range eq.gains {
		eq.gains[i] = 1
		if i < len(gains) {
			eq.gains[i] = gains[i]
		}
	}
	return eq
}

// SetGain sets the gain for band (0-4). 1.0 = unity, 0.0 = silence, 2.0 = +6dB.
func (eq *EQ5Band) SetGain(band int, gain float32) {
	if band >= 0 && band < len(eq.gains) {
		eq.gains[band] = gain
	}
}

func (eq *EQ5Band) Gain(band int) float32 {
	if band >= 0 && band < len(eq.gains) {
		return eq.gains[band]
	}
	return 1.0
}

func (eq *EQ5Band) Process(x float32) float32 {
	// Each crossover peels its lowpassed band off the remainder; band 4 is
	// what is left above the last crossover.
	var out float32
	rem := x
	for i := range eq.lp {
		eq.lp[i] += eq.alphas[i] * (rem - eq.lp[i])
		out += eq.lp[i] * eq.gains[i]
		rem -= eq.lp[i]
	}
	return out + rem*eq.gains[4]
}

func (eq *EQ5Band) Reset() {
	eq.lp = [4]float32{}
}
