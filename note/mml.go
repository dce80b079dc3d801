package note

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultOctave = 5
	minOctave     = 0
	maxOctave     = 9
	maxVolume     = 16
)

// maxExpandedLen bounds the text produced by loop expansion.
const maxExpandedLen = 1 << 20

var noteOffsets = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// SyntaxError reports where an MML string could not be parsed. Offset counts
// bytes of the text after loop expansion.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("mml: %s at %d", e.Msg, e.Offset)
}

type mmlState struct {
	octave     int
	defaultLen float64
}

// ParseMML reads a single part written in music macro language:
//
//	cdefgab    notes, followed by # + or - accidentals and an optional length
//	n60        note by MIDI number
//	r          rest
//	4 8. 2^8   length (1 = whole note), dots, ties
//	l8         default length
//	o4 < >     octave, octave down, octave up
//	v12        velocity on a 0..16 scale
//	[ab|c]3    loop: the part after | is skipped on the last pass
func ParseMML(text string) (Sequence, error) {
	src, err := expandLoops(text)
	if err != nil {
		return nil, err
	}
	st := mmlState{octave: defaultOctave, defaultLen: 1}
	seq := make(Sequence, 0, len(src)/2)
	i := 0
	for i < len(src) {
		ch := lower(src[i])
		switch {
		case isSpace(ch):
			i++
		case isNote(ch):
			pitch, next := parsePitch(src, i, st)
			length, next, err := parseLengthWithTie(src, next, st)
			if err != nil {
				return nil, err
			}
			seq = append(seq, Note{Pitch: pitch, Length: length})
			i = next
		case ch == 'n':
			pitch, next, ok := parseNumber(src, i+1)
			if !ok {
				return nil, &SyntaxError{Offset: i, Msg: "note number expected"}
			}
			length, next, err := parseLengthWithTie(src, next, st)
			if err != nil {
				return nil, err
			}
			seq = append(seq, Note{Pitch: clampInt(pitch, 0, 127), Length: length})
			i = next
		case ch == 'r':
			length, next, err := parseLengthWithTie(src, i+1, st)
			if err != nil {
				return nil, err
			}
			seq = append(seq, Rest{Length: length})
			i = next
		case ch == 'l':
			length, next, err := parseLength(src, i+1, st)
			if err != nil {
				return nil, err
			}
			st.defaultLen = length
			i = next
		case ch == 'o':
			val, next, ok := parseNumber(src, i+1)
			if !ok {
				return nil, &SyntaxError{Offset: i, Msg: "octave number expected"}
			}
			if val < minOctave || val > maxOctave {
				return nil, &SyntaxError{Offset: i, Msg: fmt.Sprintf("octave %d out of range", val)}
			}
			st.octave = val
			i = next
		case ch == '<' || ch == '>':
			shift, next := parseNumberDefault(src, i+1, 1)
			if ch == '<' {
				shift = -shift
			}
			st.octave = clampInt(st.octave+shift, minOctave, maxOctave)
			i = next
		case ch == 'v':
			val, next := parseNumberDefault(src, i+1, maxVolume)
			if val > maxVolume {
				return nil, &SyntaxError{Offset: i, Msg: fmt.Sprintf("velocity %d out of range", val)}
			}
			seq = append(seq, Velocity{Level: float32(val) / maxVolume})
			i = next
		default:
			return nil, &SyntaxError{Offset: i, Msg: fmt.Sprintf("unexpected %q", src[i])}
		}
	}
	return seq, nil
}

func parsePitch(s string, at int, st mmlState) (int, int) {
	pitch := st.octave*12 + noteOffsets[lower(s[at])]
	i := at + 1
	for i < len(s) {
		switch s[i] {
		case '#', '+':
			pitch++
		case '-':
			pitch--
		default:
			return clampInt(pitch, 0, 127), i
		}
		i++
	}
	return clampInt(pitch, 0, 127), i
}

func parseLengthWithTie(s string, at int, st mmlState) (float64, int, error) {
	length, i, err := parseLength(s, at, st)
	if err != nil {
		return 0, at, err
	}
	for i < len(s) && s[i] == '^' {
		extra, next, err := parseLength(s, i+1, st)
		if err != nil {
			return 0, at, err
		}
		length += extra
		i = next
	}
	return length, i, nil
}

// parseLength reads an optional note value and dots. A note value of n lasts
// 4/n beats.
func parseLength(s string, at int, st mmlState) (float64, int, error) {
	val, i, ok := parseNumber(s, at)
	base := st.defaultLen
	if ok {
		if val < 1 || val > 64 {
			return 0, at, &SyntaxError{Offset: at, Msg: fmt.Sprintf("length %d out of range", val)}
		}
		base = 4 / float64(val)
	}
	length, term := base, base
	for i < len(s) && s[i] == '.' {
		term /= 2
		length += term
		i++
	}
	return length, i, nil
}

func parseNumber(s string, at int) (int, int, bool) {
	i := at
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == at {
		return 0, at, false
	}
	n, err := strconv.Atoi(s[at:i])
	if err != nil {
		return 0, at, false
	}
	return n, i, true
}

func parseNumberDefault(s string, at int, def int) (int, int) {
	n, i, ok := parseNumber(s, at)
	if !ok {
		return def, i
	}
	return n, i
}

// expandLoops rewrites every [body]N block as N copies of body. Text after a
// '|' inside a block is left out of the final pass.
func expandLoops(src string) (string, error) {
	out, i, err := expandBlock(src, 0, 0)
	if err != nil {
		return "", err
	}
	if i != len(src) {
		return "", &SyntaxError{Offset: i, Msg: "unmatched ']'"}
	}
	return out, nil
}

func expandBlock(src string, at, depth int) (string, int, error) {
	var head, tail strings.Builder
	body := &head
	broken := false
	for at < len(src) {
		ch := src[at]
		switch {
		case ch == '[':
			inner, next, err := expandBlock(src, at+1, depth+1)
			if err != nil {
				return "", at, err
			}
			body.WriteString(inner)
			if head.Len()+tail.Len() > maxExpandedLen {
				return "", at, &SyntaxError{Offset: at, Msg: "loops expand too far"}
			}
			at = next
		case ch == ']':
			if depth == 0 {
				return head.String(), at, nil
			}
			repeat, next := parseNumberDefault(src, at+1, 2)
			if repeat < 1 {
				repeat = 1
			}
			if per := head.Len() + tail.Len(); per > 0 && repeat > (maxExpandedLen+tail.Len())/per {
				return "", at, &SyntaxError{Offset: at, Msg: fmt.Sprintf("loop of %d expands too far", repeat)}
			}
			var out strings.Builder
			for n := 0; n < repeat; n++ {
				out.WriteString(head.String())
				if n < repeat-1 {
					out.WriteString(tail.String())
				}
			}
			return out.String(), next, nil
		case ch == '|' && depth > 0:
			if broken {
				return "", at, &SyntaxError{Offset: at, Msg: "second '|' in loop"}
			}
			broken = true
			body = &tail
			at++
		default:
			body.WriteByte(ch)
			at++
		}
	}
	if depth > 0 {
		return "", at, &SyntaxError{Offset: at, Msg: "unclosed '['"}
	}
	return head.String(), at, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}

func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\r' || b == '\t' }
func isNote(b byte) bool  { _, ok := noteOffsets[b]; return ok }
