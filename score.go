// Package oscmix arranges oscillator instruments into a score of named parts,
// renders every part and mixes them into one signal.
package oscmix

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/oscmix/note"
	"github.com/cbegin/oscmix/osc"
	"github.com/cbegin/oscmix/tempo"
)

var (
	ErrUnknownPart  = errors.New("oscmix: unknown part")
	errNoOscillator = errors.New("oscmix: instrument has no oscillator")
)

// UnknownPartError names a part the score was not created with.
type UnknownPartError struct {
	Part string
}

func (e *UnknownPartError) Error() string {
	return fmt.Sprintf("oscmix: unknown part %q", e.Part)
}

func (e *UnknownPartError) Unwrap() error { return ErrUnknownPart }

// Score is a set of named parts sharing one tempo. Each part has a fixed
// instrument and a sequence of symbols that may be edited at any time;
// Compile and Build always render the current sequences.
type Score struct {
	title      string
	composer   string
	sampleRate int
	tempo      tempo.Tempo
	parts      []string
	mixer      Mixer
	compiler   Compiler
	logger     *slog.Logger
	parallel   bool
	player     Player

	instruments map[string]Instrument

	mu        sync.RWMutex
	sequences map[string]note.Sequence
}

// NewScore creates a score with empty sequences for parts. tempoSpec is parsed
// with tempo.Parse unless WithTempo is given.
func NewScore(tempoSpec string, parts []string, opts ...Option) (*Score, error) {
	cfg := defaultScoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, fmt.Errorf("oscmix: invalid sample rate %d", cfg.sampleRate)
	}
	t := cfg.tempo
	if t == nil {
		m, err := tempo.Parse(tempoSpec)
		if err != nil {
			return nil, err
		}
		t = m
	}
	if cfg.mixer == nil {
		cfg.mixer = DefaultMixer
	}
	if cfg.compiler == nil {
		cfg.compiler = NewCompiler(cfg.sampleRate)
	}
	if cfg.logger == nil {
		cfg.logger = defaultScoreConfig().logger
	}

	s := &Score{
		title:       cfg.title,
		composer:    cfg.composer,
		sampleRate:  cfg.sampleRate,
		tempo:       t,
		parts:       append([]string(nil), parts...),
		mixer:       cfg.mixer,
		compiler:    cfg.compiler,
		logger:      cfg.logger,
		parallel:    cfg.parallel,
		player:      cfg.player,
		instruments: make(map[string]Instrument, len(parts)),
		sequences:   make(map[string]note.Sequence, len(parts)),
	}
	for _, part := range parts {
		if part == "" {
			return nil, errors.New("oscmix: empty part name")
		}
		if _, dup := s.instruments[part]; dup {
			return nil, fmt.Errorf("oscmix: duplicate part %q", part)
		}
		instr, ok := cfg.instruments[part]
		if !ok {
			instr = DefaultInstrument()
		}
		if err := instr.Validate(s.sampleRate); err != nil {
			return nil, fmt.Errorf("oscmix: part %q: %w", part, err)
		}
		s.instruments[part] = instr
		s.sequences[part] = note.Sequence{}
	}
	for part := range cfg.instruments {
		if _, ok := s.instruments[part]; !ok {
			return nil, &UnknownPartError{Part: part}
		}
	}
	return s, nil
}

func (s *Score) Title() string        { return s.title }
func (s *Score) Composer() string     { return s.composer }
func (s *Score) SampleRate() int      { return s.sampleRate }
func (s *Score) Tempo() tempo.Tempo   { return s.tempo }
func (s *Score) Parts() []string      { return append([]string(nil), s.parts...) }
func (s *Score) Mixer() Mixer         { return s.mixer }
func (s *Score) Logger() *slog.Logger { return s.logger }

// Instrument returns the instrument bound to part.
func (s *Score) Instrument(part string) (Instrument, error) {
	instr, ok := s.instruments[part]
	if !ok {
		return Instrument{}, &UnknownPartError{Part: part}
	}
	return instr, nil
}

// Sequence returns the symbols of part. The returned slice is a copy.
func (s *Score) Sequence(part string) (note.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq, ok := s.sequences[part]
	if !ok {
		return nil, &UnknownPartError{Part: part}
	}
	return seq.Clone(), nil
}

// SetSequence replaces the symbols of part.
func (s *Score) SetSequence(part string, seq note.Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sequences[part]; !ok {
		return &UnknownPartError{Part: part}
	}
	if seq == nil {
		seq = note.Sequence{}
	}
	s.sequences[part] = seq.Clone()
	return nil
}

// Append adds symbols to the end of part.
func (s *Score) Append(part string, syms ...note.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.sequences[part]
	if !ok {
		return &UnknownPartError{Part: part}
	}
	s.sequences[part] = append(seq, syms...)
	return nil
}

// SetMML replaces the symbols of part with the parsed MML text.
func (s *Score) SetMML(part string, text string) error {
	seq, err := note.ParseMML(text)
	if err != nil {
		return fmt.Errorf("oscmix: part %q: %w", part, err)
	}
	return s.SetSequence(part, seq)
}

func (s *Score) snapshot() map[string]note.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]note.Sequence, len(s.sequences))
	for part, seq := range s.sequences {
		out[part] = seq.Clone()
	}
	return out
}

// Compile renders every part on its own. Buffers may differ in length and
// channel count. Compiler errors are returned as is.
func (s *Score) Compile() (map[string]osc.Buffer, error) {
	seqs := s.snapshot()
	tracks := make(map[string]osc.Buffer, len(s.parts))
	if !s.parallel {
		for _, part := range s.parts {
			buf, err := s.compilePart(part, seqs[part])
			if err != nil {
				return nil, err
			}
			tracks[part] = buf
		}
		return tracks, nil
	}

	bufs := make([]osc.Buffer, len(s.parts))
	var g errgroup.Group
	for i, part := range s.parts {
		g.Go(func() error {
			buf, err := s.compilePart(part, seqs[part])
			bufs[i] = buf
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, part := range s.parts {
		tracks[part] = bufs[i]
	}
	return tracks, nil
}

func (s *Score) compilePart(part string, seq note.Sequence) (osc.Buffer, error) {
	buf, err := s.compiler.Compile(s.instruments[part], s.tempo, seq)
	if err != nil {
		return nil, err
	}
	channels, frames := buf.Shape()
	s.logger.Debug("compiled part", "part", part, "symbols", len(seq), "channels", channels, "frames", frames)
	return buf, nil
}

// Build compiles every part, pads them with trailing silence to the length of
// the longest and mixes them. A score with no parts builds an empty mono
// buffer.
func (s *Score) Build() (osc.Buffer, error) {
	tracks, err := s.Compile()
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return osc.NewBuffer(1, 0), nil
	}
	width := 0
	for _, buf := range tracks {
		width = max(width, buf.Frames())
	}
	for part, buf := range tracks {
		tracks[part] = buf.PadFrames(width)
	}
	mixed, err := s.mixer.Mix(tracks)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("built score", "parts", len(tracks), "channels", mixed.Channels(), "frames", mixed.Frames())
	return mixed, nil
}

// Audio builds the score for playback. Empty output becomes one silent sample
// so the result is always playable. With autoplay set the configured Player,
// if any, starts playing it.
func (s *Score) Audio(autoplay, normalize bool) (*Audio, error) {
	data, err := s.Build()
	if err != nil {
		return nil, err
	}
	if data.Frames() == 0 {
		data = osc.Buffer{{0}}
	}
	a := &Audio{Data: data, Rate: s.sampleRate, Autoplay: autoplay, Normalize: normalize}
	if autoplay && s.player != nil {
		if err := s.player.Play(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}
