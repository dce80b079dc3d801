// Package tempo maps beat positions to seconds.
package tempo

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrTempo = errors.New("tempo: invalid tempo")

// Tempo converts a position in beats (quarter notes) to seconds from the
// start of the score.
type Tempo interface {
	Seconds(beat float64) float64
	BPMAt(beat float64) float64
}

// Change switches to BPM quarter notes per minute at Beat.
type Change struct {
	Beat float64
	BPM  float64
}

// Map is a piecewise constant tempo.
type Map struct {
	changes []Change
	// starts[i] is the time in seconds at changes[i].Beat.
	starts []float64
}

// Constant returns a Map that never changes tempo. It panics on a
// non-positive bpm.
func Constant(bpm float64) *Map {
	m, err := NewMap(bpm)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMap builds a tempo that starts at bpm and applies changes in beat order.
// A change at beat 0 replaces the initial tempo.
func NewMap(bpm float64, changes ...Change) (*Map, error) {
	all := make([]Change, 0, len(changes)+1)
	all = append(all, Change{Beat: 0, BPM: bpm})
	all = append(all, changes...)
	for _, c := range all {
		if !(c.BPM > 0) {
			return nil, fmt.Errorf("%w: bpm %g must be positive", ErrTempo, c.BPM)
		}
		if c.Beat < 0 {
			return nil, fmt.Errorf("%w: change at negative beat %g", ErrTempo, c.Beat)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Beat < all[j].Beat })

	// Later entries at the same beat win.
	merged := all[:0]
	for _, c := range all {
		if n := len(merged); n > 0 && merged[n-1].Beat == c.Beat {
			merged[n-1] = c
			continue
		}
		merged = append(merged, c)
	}

	m := &Map{changes: merged, starts: make([]float64, len(merged))}
	for i := 1; i < len(merged); i++ {
		prev := merged[i-1]
		m.starts[i] = m.starts[i-1] + (merged[i].Beat-prev.Beat)*60/prev.BPM
	}
	return m, nil
}

func (m *Map) segment(beat float64) int {
	i := sort.Search(len(m.changes), func(i int) bool { return m.changes[i].Beat > beat })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Seconds returns the time at beat. Negative beats extrapolate the initial
// tempo.
func (m *Map) Seconds(beat float64) float64 {
	i := m.segment(beat)
	c := m.changes[i]
	return m.starts[i] + (beat-c.Beat)*60/c.BPM
}

func (m *Map) BPMAt(beat float64) float64 {
	return m.changes[m.segment(beat)].BPM
}

func (m *Map) Changes() []Change {
	return append([]Change(nil), m.changes...)
}

func (m *Map) String() string {
	parts := make([]string, len(m.changes))
	for i, c := range m.changes {
		if i == 0 {
			parts[i] = strconv.FormatFloat(c.BPM, 'g', -1, 64)
			continue
		}
		parts[i] = fmt.Sprintf("%g:%g", c.Beat, c.BPM)
	}
	return strings.Join(parts, ", ")
}

var unitBeats = map[byte]float64{
	'w': 4,
	'h': 2,
	'q': 1,
	'e': 0.5,
	's': 0.25,
}

// Parse reads a tempo description. The first field is the initial tempo and
// the rest are changes written beat:tempo. A tempo is a number of quarter
// notes per minute, or unit=count where unit is one of w h q e s, optionally
// dotted:
//
//	120
//	q=120
//	h.=40, 16:q=90
func Parse(spec string) (*Map, error) {
	fields := strings.Split(spec, ",")
	if strings.TrimSpace(fields[0]) == "" {
		return nil, fmt.Errorf("%w: empty", ErrTempo)
	}
	bpm, err := parseBPM(fields[0])
	if err != nil {
		return nil, err
	}
	changes := make([]Change, 0, len(fields)-1)
	for _, f := range fields[1:] {
		beatText, bpmText, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("%w: change %q is not beat:tempo", ErrTempo, strings.TrimSpace(f))
		}
		beat, err := strconv.ParseFloat(strings.TrimSpace(beatText), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: change beat %q", ErrTempo, strings.TrimSpace(beatText))
		}
		b, err := parseBPM(bpmText)
		if err != nil {
			return nil, err
		}
		changes = append(changes, Change{Beat: beat, BPM: b})
	}
	return NewMap(bpm, changes...)
}

func parseBPM(text string) (float64, error) {
	text = strings.TrimSpace(text)
	unit := 1.0
	if name, count, ok := strings.Cut(text, "="); ok {
		name = strings.ToLower(strings.TrimSpace(name))
		dotted := strings.HasSuffix(name, ".")
		name = strings.TrimSuffix(name, ".")
		beats, known := 0.0, false
		if len(name) == 1 {
			beats, known = unitBeats[name[0]]
		}
		if !known {
			return 0, fmt.Errorf("%w: unknown note unit %q", ErrTempo, name)
		}
		if dotted {
			beats *= 1.5
		}
		unit = beats
		text = strings.TrimSpace(count)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrTempo, text)
	}
	if !(v > 0) {
		return 0, fmt.Errorf("%w: bpm %g must be positive", ErrTempo, v)
	}
	return v * unit, nil
}
