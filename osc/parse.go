package osc

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse builds an oscillator from an algebraic expression such as
//
//	sine * adsr(0.01, 0.1, 0.7, 0.2) + 0.1 * noise
//
// Identifiers name the primitive waveforms (sine, square, saw, triangle, ramp,
// noise, noise(seed), pulse(width), adsr(a, d, s, r)); abs(x) is the absolute
// value. Operators are + - * / // % ** with Go precedence for the first six
// and ** binding tightest (right associative).
func Parse(expr string) (Oscillator, error) {
	p := &exprParser{src: expr}
	v, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.at < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.at])
	}
	if v.osc == nil {
		return nil, fmt.Errorf("osc: expression %q has no oscillator", expr)
	}
	return v.osc, nil
}

// operand is either an oscillator or a folded constant.
type operand struct {
	osc Oscillator
	k   float32
}

func (v operand) isConst() bool { return v.osc == nil }

type exprParser struct {
	src string
	at  int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("osc: parse error at %d: %s", p.at, fmt.Sprintf(format, args...))
}

func (p *exprParser) skipSpace() {
	for p.at < len(p.src) && isSpace(p.src[p.at]) {
		p.at++
	}
}

func (p *exprParser) peek(tok string) bool {
	p.skipSpace()
	return strings.HasPrefix(p.src[p.at:], tok)
}

// accept consumes tok if it is next in the input.
func (p *exprParser) accept(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.at:], tok) {
		p.at += len(tok)
		return true
	}
	return false
}

func (p *exprParser) parseSum() (operand, error) {
	left, err := p.parseProduct()
	if err != nil {
		return operand{}, err
	}
	for {
		var op BinaryOp
		switch {
		case p.accept("+"):
			op = OpAdd
		case p.accept("-"):
			op = OpSub
		default:
			return left, nil
		}
		right, err := p.parseProduct()
		if err != nil {
			return operand{}, err
		}
		left = combine(left, op, right)
	}
}

func (p *exprParser) parseProduct() (operand, error) {
	left, err := p.parseUnary()
	if err != nil {
		return operand{}, err
	}
	for {
		var op BinaryOp
		switch {
		case p.peek("**"):
			return left, nil
		case p.accept("//"):
			op = OpFloorDiv
		case p.accept("*"):
			op = OpMul
		case p.accept("/"):
			op = OpDiv
		case p.accept("%"):
			op = OpMod
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return operand{}, err
		}
		left = combine(left, op, right)
	}
}

func (p *exprParser) parseUnary() (operand, error) {
	switch {
	case p.accept("-"):
		v, err := p.parseUnary()
		if err != nil {
			return operand{}, err
		}
		if v.isConst() {
			return operand{k: -v.k}, nil
		}
		return operand{osc: Neg(v.osc)}, nil
	case p.accept("+"):
		v, err := p.parseUnary()
		if err != nil {
			return operand{}, err
		}
		if !v.isConst() {
			v.osc = Pos(v.osc)
		}
		return v, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (operand, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return operand{}, err
	}
	if !p.accept("**") {
		return base, nil
	}
	exp, err := p.parseUnary()
	if err != nil {
		return operand{}, err
	}
	return combine(base, OpPow, exp), nil
}

func (p *exprParser) parsePrimary() (operand, error) {
	p.skipSpace()
	if p.at >= len(p.src) {
		return operand{}, p.errorf("unexpected end of expression")
	}
	ch := p.src[p.at]
	switch {
	case ch == '(':
		p.at++
		v, err := p.parseSum()
		if err != nil {
			return operand{}, err
		}
		if !p.accept(")") {
			return operand{}, p.errorf("missing ')'")
		}
		return v, nil
	case isDigit(ch) || ch == '.':
		return p.parseNumber()
	case isAlpha(ch):
		return p.parseCall()
	}
	return operand{}, p.errorf("unexpected %q", ch)
}

func (p *exprParser) parseNumber() (operand, error) {
	start := p.at
	for p.at < len(p.src) && (isDigit(p.src[p.at]) || p.src[p.at] == '.') {
		p.at++
	}
	if p.at < len(p.src) && (p.src[p.at] == 'e' || p.src[p.at] == 'E') {
		p.at++
		if p.at < len(p.src) && (p.src[p.at] == '+' || p.src[p.at] == '-') {
			p.at++
		}
		for p.at < len(p.src) && isDigit(p.src[p.at]) {
			p.at++
		}
	}
	text := p.src[start:p.at]
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		p.at = start
		return operand{}, p.errorf("bad number %q", text)
	}
	return operand{k: float32(v)}, nil
}

func (p *exprParser) parseCall() (operand, error) {
	start := p.at
	for p.at < len(p.src) && (isAlpha(p.src[p.at]) || isDigit(p.src[p.at]) || p.src[p.at] == '_') {
		p.at++
	}
	name := strings.ToLower(p.src[start:p.at])
	var args []operand
	if p.accept("(") {
		if !p.accept(")") {
			for {
				v, err := p.parseSum()
				if err != nil {
					return operand{}, err
				}
				args = append(args, v)
				if p.accept(")") {
					break
				}
				if !p.accept(",") {
					return operand{}, p.errorf("expected ',' or ')' in call to %s", name)
				}
			}
		}
	}
	if name == "abs" {
		if len(args) != 1 {
			return operand{}, p.errorf("abs takes 1 argument, got %d", len(args))
		}
		if args[0].isConst() {
			return operand{k: OpAbs.Eval(args[0].k)}, nil
		}
		return operand{osc: Abs(args[0].osc)}, nil
	}
	consts := make([]float32, len(args))
	for i, a := range args {
		if !a.isConst() {
			return operand{}, p.errorf("argument %d of %s must be a number", i+1, name)
		}
		consts[i] = a.k
	}
	o, err := primitive(name, consts)
	if err != nil {
		return operand{}, p.errorf("%v", err)
	}
	return operand{osc: o}, nil
}

func primitive(name string, args []float32) (Oscillator, error) {
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d arguments, got %d", name, n, len(args))
		}
		return nil
	}
	switch name {
	case "sine", "sin":
		return Sine, want(0)
	case "square":
		return Square, want(0)
	case "saw":
		return Saw, want(0)
	case "triangle", "tri":
		return Triangle, want(0)
	case "ramp":
		return Ramp, want(0)
	case "noise":
		if len(args) == 0 {
			return Noise(0), nil
		}
		return Noise(args[0]), want(1)
	case "pulse":
		if err := want(1); err != nil {
			return nil, err
		}
		return Pulse(args[0]), nil
	case "adsr":
		if err := want(4); err != nil {
			return nil, err
		}
		return ADSR(args[0], args[1], args[2], args[3]), nil
	}
	return nil, fmt.Errorf("unknown oscillator %q", name)
}

// combine builds the node for left op right. Constant pairs are folded; a
// constant on the left becomes a Constant leaf so operand order is kept.
func combine(left operand, op BinaryOp, right operand) operand {
	switch {
	case left.isConst() && right.isConst():
		return operand{k: op.Eval(left.k, right.k)}
	case right.isConst():
		return operand{osc: CombineValue(left.osc, op, Value(right.k))}
	case left.isConst():
		return operand{osc: Combine(Constant(left.k), op, right.osc)}
	}
	return operand{osc: Combine(left.osc, op, right.osc)}
}

func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\r' || b == '\t' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
