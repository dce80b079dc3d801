package effects

import "math"

// Distortion is tanh waveshaping with pre/post gain and a one-pole lowpass.
type Distortion struct {
	preGain  float32
	postGain float32
	lpfAlpha float32
	lpf      float32
}

// NewDistortion creates a distortion effect.
// preGain: input gain (higher = more distortion)
// postGain: output gain
// lpfCutoff: lowpass filter cutoff in Hz (0 = no filter)
func NewDistortion(sampleRate int, preGain, postGain, lpfCutoff float32) *Distortion {
	d := &Distortion{
		preGain:  preGain,
		postGain: postGain,
	}
	if lpfCutoff > 0 && lpfCutoff < float32(sampleRate)/2 {
		d.lpfAlpha = onePole(sampleRate, float64(lpfCutoff))
	}
	return d
}

func (d *Distortion) Process(x float32) float32 {
	x = float32(math.Tanh(float64(x*d.preGain))) * d.postGain
	if d.lpfAlpha > 0 {
		d.lpf += d.lpfAlpha * (x - d.lpf)
		x = d.lpf
	}
	return x
}

func (d *Distortion) Reset() {
	d.lpf = 0
}

// onePole returns the smoothing coefficient of an RC lowpass at cutoff Hz.
func onePole(sampleRate int, cutoff float64) float32 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / float64(sampleRate)
	return float32(dt / (rc + dt))
}
