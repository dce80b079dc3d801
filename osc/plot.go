package osc

import (
	"errors"
	"fmt"
)

// Surface receives curves drawn by Plot.
type Surface interface {
	Curve(samples []float32)
}

// Window evaluates o over a diagnostic window of the given length. The phase
// ramps from 0 to 1 periods times across the window, time ramps from 0 to
// seconds, and duration is the window length at every sample.
func Window(o Oscillator, periods int, seconds float64, sampleRate int) (Buffer, error) {
	if periods < 1 {
		periods = 1
	}
	if sampleRate <= 0 {
		return nil, errors.New("osc: sampleRate must be positive")
	}
	frames := int(seconds * float64(sampleRate))
	cycle := frames / periods
	if cycle < 1 {
		return nil, fmt.Errorf("osc: window of %d frames is too short for %d periods", frames, periods)
	}
	phase := make([]float32, frames)
	time := make([]float32, frames)
	duration := make([]float32, frames)
	for i := range phase {
		if cycle > 1 {
			phase[i] = float32(i%cycle) / float32(cycle-1)
		}
		time[i] = float32(seconds * float64(i) / float64(frames))
		duration[i] = float32(seconds)
	}
	return o.Map(phase, time, duration)
}

// Plot draws one curve per output channel of o on s.
func Plot(o Oscillator, s Surface, periods int, seconds float64, sampleRate int) error {
	data, err := Window(o, periods, seconds, sampleRate)
	if err != nil {
		return err
	}
	for _, ch := range data {
		s.Curve(ch)
	}
	return nil
}
