package osc

import "fmt"

// Unary applies an operator to the output of one child.
type Unary struct {
	op UnaryOp
	a  Oscillator
}

// Binary applies an operator to the outputs of two children evaluated over
// the same inputs.
type Binary struct {
	a  Oscillator
	op BinaryOp
	b  Oscillator
}

// Scalar applies an operator between a child's output and a constant captured
// at construction time.
type Scalar struct {
	a  Oscillator
	op BinaryOp
	v  Buffer
}

func (n *Unary) Map(phase, time, duration []float32) (Buffer, error) {
	a, err := n.a.Map(phase, time, duration)
	if err != nil {
		return nil, err
	}
	return n.op.Apply(a), nil
}

func (n *Binary) Map(phase, time, duration []float32) (Buffer, error) {
	a, err := n.a.Map(phase, time, duration)
	if err != nil {
		return nil, err
	}
	b, err := n.b.Map(phase, time, duration)
	if err != nil {
		return nil, err
	}
	return n.op.Apply(a, b)
}

func (n *Scalar) Map(phase, time, duration []float32) (Buffer, error) {
	a, err := n.a.Map(phase, time, duration)
	if err != nil {
		return nil, err
	}
	return n.op.Apply(a, n.v)
}

func (n *Unary) Op() UnaryOp        { return n.op }
func (n *Unary) Child() Oscillator  { return n.a }
func (n *Binary) Op() BinaryOp      { return n.op }
func (n *Scalar) Op() BinaryOp      { return n.op }
func (n *Scalar) Child() Oscillator { return n.a }
func (n *Scalar) Value() Buffer     { return n.v }

// Children returns the left and right operands.
func (n *Binary) Children() (Oscillator, Oscillator) { return n.a, n.b }

func (n *Unary) String() string {
	if n.op.Name == "-" {
		return fmt.Sprintf("-%v", n.a)
	}
	return fmt.Sprintf("%s(%v)", n.op.Name, n.a)
}

func (n *Binary) String() string {
	return fmt.Sprintf("(%v %s %v)", n.a, n.op.Name, n.b)
}

func (n *Scalar) String() string {
	if len(n.v) == 1 && len(n.v[0]) == 1 {
		return fmt.Sprintf("(%v %s %g)", n.a, n.op.Name, n.v[0][0])
	}
	return fmt.Sprintf("(%v %s %v)", n.a, n.op.Name, [][]float32(n.v))
}

// Combine pairs two oscillators under op.
func Combine(a Oscillator, op BinaryOp, b Oscillator) *Binary {
	return &Binary{a: a, op: op, b: b}
}

// CombineValue pairs an oscillator with a constant under op. The constant is
// copied so later edits to v do not leak into the node.
func CombineValue(a Oscillator, op BinaryOp, v Buffer) *Scalar {
	return &Scalar{a: a, op: op, v: v.Clone()}
}

// Apply wraps a in a unary node.
func Apply(op UnaryOp, a Oscillator) *Unary {
	return &Unary{op: op, a: a}
}

func Add(a, b Oscillator) *Binary      { return Combine(a, OpAdd, b) }
func Sub(a, b Oscillator) *Binary      { return Combine(a, OpSub, b) }
func Mul(a, b Oscillator) *Binary      { return Combine(a, OpMul, b) }
func Div(a, b Oscillator) *Binary      { return Combine(a, OpDiv, b) }
func FloorDiv(a, b Oscillator) *Binary { return Combine(a, OpFloorDiv, b) }
func Mod(a, b Oscillator) *Binary      { return Combine(a, OpMod, b) }
func Pow(a, b Oscillator) *Binary      { return Combine(a, OpPow, b) }

func AddValue(a Oscillator, v Buffer) *Scalar      { return CombineValue(a, OpAdd, v) }
func SubValue(a Oscillator, v Buffer) *Scalar      { return CombineValue(a, OpSub, v) }
func MulValue(a Oscillator, v Buffer) *Scalar      { return CombineValue(a, OpMul, v) }
func DivValue(a Oscillator, v Buffer) *Scalar      { return CombineValue(a, OpDiv, v) }
func FloorDivValue(a Oscillator, v Buffer) *Scalar { return CombineValue(a, OpFloorDiv, v) }
func ModValue(a Oscillator, v Buffer) *Scalar      { return CombineValue(a, OpMod, v) }
func PowValue(a Oscillator, v Buffer) *Scalar      { return CombineValue(a, OpPow, v) }

// Scale multiplies a by k.
func Scale(a Oscillator, k float32) *Scalar { return MulValue(a, Value(k)) }

// Offset adds k to a.
func Offset(a Oscillator, k float32) *Scalar { return AddValue(a, Value(k)) }

// Pos is the identity: it returns a itself, not a copy.
func Pos(a Oscillator) Oscillator { return a }

func Neg(a Oscillator) *Unary { return Apply(OpNeg, a) }
func Abs(a Oscillator) *Unary { return Apply(OpAbs, a) }
