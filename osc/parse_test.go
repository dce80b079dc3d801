package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchesBuilders(t *testing.T) {
	p, tm, d := inputs(48)
	cases := []struct {
		expr string
		want Oscillator
	}{
		{"sine", Sine},
		{"sine * 0.5", Scale(Sine, 0.5)},
		{"0.5 * sine", Mul(Constant(0.5), Sine)},
		{"sine + saw * 2", Add(Sine, Scale(Saw, 2))},
		{"(sine + saw) * 2", Scale(Add(Sine, Saw), 2)},
		{"1 - square", Sub(Constant(1), Square)},
		{"-triangle ** 2", Neg(PowValue(Triangle, Value(2)))},
		{"(saw + 2) ** 2 ** 0.5", PowValue(Offset(Saw, 2), Value(1.4142135))},
		{"abs(saw) // 0.25 % 3", ModValue(FloorDivValue(Abs(Saw), Value(0.25)), Value(3))},
		{"sine * adsr(0.01, 0.1, 0.7, 0.1)", Mul(Sine, ADSR(0.01, 0.1, 0.7, 0.1))},
		{"pulse(0.25) + noise(2) * 0.1 + ramp", Add(Add(Pulse(0.25), Scale(Noise(2), 0.1)), Ramp)},
		{"SINE/2e0", DivValue(Sine, Value(2))},
		{"+saw", Saw},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Parse(tc.expr)
			require.NoError(t, err)
			a := mustMap(t, got, p, tm, d)
			b := mustMap(t, tc.want, p, tm, d)
			assert.InDeltaSlice(t, b[0], a[0], 1e-5)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"1 + 2",
		"sine +",
		"(sine",
		"sine )",
		"wobble",
		"adsr(1, 2)",
		"pulse(sine)",
		"abs()",
		"sine $ 2",
	}
	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			assert.Error(t, err)
		})
	}
}
