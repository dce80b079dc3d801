package osc

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// BinaryOp is an elementwise operator on two sample streams. The vectorized
// forms are optional; fn is the reference definition.
type BinaryOp struct {
	Name string
	fn   func(a, b float32) float32
	vec  func(dst, x []float32)
	vecK func(dst []float32, k float32)
}

// UnaryOp is an elementwise operator on one sample stream.
type UnaryOp struct {
	Name string
	fn   func(a float32) float32
	vec  func(dst []float32)
}

var (
	OpAdd = BinaryOp{
		Name: "+",
		fn:   func(a, b float32) float32 { return a + b },
		vec:  func(dst, x []float32) { vek32.Add_Inplace(dst, x) },
		vecK: func(dst []float32, k float32) { vek32.AddNumber_Inplace(dst, k) },
	}
	OpSub = BinaryOp{
		Name: "-",
		fn:   func(a, b float32) float32 { return a - b },
		vec:  func(dst, x []float32) { vek32.Sub_Inplace(dst, x) },
		vecK: func(dst []float32, k float32) { vek32.SubNumber_Inplace(dst, k) },
	}
	OpMul = BinaryOp{
		Name: "*",
		fn:   func(a, b float32) float32 { return a * b },
		vec:  func(dst, x []float32) { vek32.Mul_Inplace(dst, x) },
		vecK: func(dst []float32, k float32) { vek32.MulNumber_Inplace(dst, k) },
	}
	OpDiv = BinaryOp{
		Name: "/",
		fn:   func(a, b float32) float32 { return a / b },
		vec:  func(dst, x []float32) { vek32.Div_Inplace(dst, x) },
		vecK: func(dst []float32, k float32) { vek32.DivNumber_Inplace(dst, k) },
	}
	OpFloorDiv = BinaryOp{Name: "//", fn: floorDiv}
	OpMod      = BinaryOp{Name: "%", fn: mod}
	OpPow      = BinaryOp{Name: "**", fn: pow}

	OpNeg = UnaryOp{
		Name: "-",
		fn:   func(a float32) float32 { return -a },
		vec:  func(dst []float32) { vek32.Neg_Inplace(dst) },
	}
	OpAbs = UnaryOp{
		Name: "abs",
		fn:   func(a float32) float32 { return float32(math.Abs(float64(a))) },
		vec:  func(dst []float32) { vek32.Abs_Inplace(dst) },
	}
)

// NewBinaryOp defines a custom elementwise operator.
func NewBinaryOp(name string, fn func(a, b float32) float32) BinaryOp {
	return BinaryOp{Name: name, fn: fn}
}

// NewUnaryOp defines a custom elementwise operator.
func NewUnaryOp(name string, fn func(a float32) float32) UnaryOp {
	return UnaryOp{Name: name, fn: fn}
}

// Eval applies the operator to a single pair of samples.
func (op BinaryOp) Eval(a, b float32) float32 { return op.fn(a, b) }

// Eval applies the operator to a single sample.
func (op UnaryOp) Eval(a float32) float32 { return op.fn(a) }

// Apply combines a and b elementwise, broadcasting single channels and single
// frames. Neither input is modified.
func (op BinaryOp) Apply(a, b Buffer) (Buffer, error) {
	channels, frames, err := broadcastShape(op.Name, a, b)
	if err != nil {
		return nil, err
	}
	out := make(Buffer, channels)
	for c := range out {
		x, y := a.row(c), b.row(c)
		dst := make([]float32, frames)
		if len(x) == frames {
			copy(dst, x)
		} else {
			fill(dst, x[0])
		}
		switch {
		case len(y) == frames && op.vec != nil:
			op.vec(dst, y)
		case len(y) == frames:
			for i := range dst {
				dst[i] = op.fn(dst[i], y[i])
			}
		case op.vecK != nil:
			op.vecK(dst, y[0])
		default:
			k := y[0]
			for i := range dst {
				dst[i] = op.fn(dst[i], k)
			}
		}
		out[c] = dst
	}
	return out, nil
}

// Apply maps a elementwise into a new buffer.
func (op UnaryOp) Apply(a Buffer) Buffer {
	out := a.Clone()
	for _, ch := range out {
		if op.vec != nil {
			op.vec(ch)
			continue
		}
		for i, v := range ch {
			ch[i] = op.fn(v)
		}
	}
	return out
}

func fill(dst []float32, v float32) {
	for i := range dst {
		dst[i] = v
	}
}

func floorDiv(a, b float32) float32 {
	return float32(math.Floor(float64(a) / float64(b)))
}

// mod takes the sign of the divisor.
func mod(a, b float32) float32 {
	r := math.Mod(float64(a), float64(b))
	if r != 0 && (r < 0) != (b < 0) {
		r += float64(b)
	}
	return float32(r)
}

func pow(a, b float32) float32 {
	return float32(math.Pow(float64(a), float64(b)))
}
