package effects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownEffect = errors.New("effects: unknown effect")

// ParseChain builds a chain from effect descriptions of the form
// "type p1,p2,...", optionally wrapped in braces. Missing parameters take
// their defaults.
func ParseChain(specs []string, sampleRate int) (*Chain, error) {
	chain := NewChain()
	for _, spec := range specs {
		e, err := Parse(spec, sampleRate)
		if err != nil {
			return nil, err
		}
		chain.Add(e)
	}
	return chain, nil
}

// Parse builds a single effect. Known types: delay, reverb, chorus,
// dist/distortion, eq, eq5, comp/compressor.
func Parse(spec string, sampleRate int) (Effector, error) {
	raw := strings.TrimSpace(spec)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	raw = strings.TrimSpace(raw)

	name, args, _ := strings.Cut(raw, " ")
	name = strings.ToLower(strings.TrimSpace(name))
	var params []float64
	if args = strings.TrimSpace(args); args != "" {
		for _, p := range strings.Split(args, ",") {
			p = strings.TrimSpace(p)
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("effects: %s parameter %q: %w", name, p, err)
			}
			params = append(params, v)
		}
	}
	e := create(name, params, sampleRate)
	if e == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownEffect, name)
	}
	return e, nil
}

func create(name string, params []float64, sampleRate int) Effector {
	param := func(idx int, def float64) float32 {
		if idx < len(params) {
			return float32(params[idx])
		}
		return float32(def)
	}
	switch name {
	case "delay":
		ms := 250.0
		if len(params) > 0 {
			ms = params[0]
		}
		return NewDelay(sampleRate,
			ms,
			param(1, 0.4), // feedback
			param(2, 0.3), // wet
		)
	case "reverb":
		return NewReverb(sampleRate,
			param(0, 0.5),  // room size
			param(1, 0.7),  // feedback
			param(2, 0.25), // wet
		)
	case "chorus":
		return NewChorus(sampleRate,
			param(0, 15),  // delay ms
			param(1, 0.3), // feedback
			param(2, 3),   // depth ms
			param(3, 1.5), // rate Hz
			param(4, 0.4), // wet
		)
	case "dist", "distortion":
		return NewDistortion(sampleRate,
			param(0, 4),    // pre gain
			param(1, 0.5),  // post gain
			param(2, 8000), // lpf cutoff
		)
	case "eq":
		return NewEQ3Band(sampleRate,
			param(0, 1.0),  // low gain
			param(1, 1.0),  // mid gain
			param(2, 1.0),  // high gain
			param(3, 300),  // low freq
			param(4, 3000), // high freq
		)
	case "eq5":
		gains := make([]float32, len(params))
		for i := range params {
			gains[i] = param(i, 1)
		}
		return NewEQ5Band(sampleRate, gains...)
	case "comp", "compressor":
		return NewCompressor(sampleRate,
			param(0, -20), // threshold dB
			param(1, 4),   // ratio
			param(2, 5),   // attack ms
			param(3, 100), // release ms
			param(4, 6),   // makeup dB
		)
	}
	return nil
}
