package oscmix

import (
	"io"
	"log/slog"

	"github.com/cbegin/oscmix/tempo"
)

const DefaultSampleRate = 44100

type Option func(*scoreConfig)

type scoreConfig struct {
	title       string
	composer    string
	sampleRate  int
	tempo       tempo.Tempo
	mixer       Mixer
	compiler    Compiler
	instruments map[string]Instrument
	logger      *slog.Logger
	parallel    bool
	player      Player
}

func defaultScoreConfig() scoreConfig {
	return scoreConfig{
		sampleRate:  DefaultSampleRate,
		mixer:       DefaultMixer,
		instruments: map[string]Instrument{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func WithTitle(title string) Option {
	return func(cfg *scoreConfig) {
		cfg.title = title
	}
}

func WithComposer(composer string) Option {
	return func(cfg *scoreConfig) {
		cfg.composer = composer
	}
}

func WithSampleRate(sampleRate int) Option {
	return func(cfg *scoreConfig) {
		cfg.sampleRate = sampleRate
	}
}

// WithTempo uses t instead of parsing the tempo description passed to
// NewScore.
func WithTempo(t tempo.Tempo) Option {
	return func(cfg *scoreConfig) {
		cfg.tempo = t
	}
}

func WithMixer(m Mixer) Option {
	return func(cfg *scoreConfig) {
		cfg.mixer = m
	}
}

// WithInstrument binds instr to part. Parts without an instrument play
// DefaultInstrument.
func WithInstrument(part string, instr Instrument) Option {
	return func(cfg *scoreConfig) {
		cfg.instruments[part] = instr
	}
}

// WithCompiler replaces the synthesizer that renders each part.
func WithCompiler(c Compiler) Option {
	return func(cfg *scoreConfig) {
		cfg.compiler = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *scoreConfig) {
		cfg.logger = logger
	}
}

// WithParallelCompile compiles parts concurrently. The compiler and every
// instrument oscillator must then be safe for concurrent use, which the
// built-in ones are.
func WithParallelCompile(enabled bool) Option {
	return func(cfg *scoreConfig) {
		cfg.parallel = enabled
	}
}

// WithPlayer sets the player that Audio starts when autoplay is requested.
func WithPlayer(p Player) Option {
	return func(cfg *scoreConfig) {
		cfg.player = p
	}
}
