package oscmix

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoreFile is the YAML form of a score.
//
//	title: Demo
//	tempo: "q=120"
//	parts:
//	  - name: melody
//	    instrument: {expr: "sine * adsr(0.01, 0.1, 0.7, 0.1)", gain: 0.8}
//	    mml: "o5 l8 cdefgab>c"
type ScoreFile struct {
	Title      string       `yaml:",omitempty"`
	Composer   string       `yaml:",omitempty"`
	Tempo      string
	SampleRate int          `yaml:"sampleRate,omitempty"`
	Mixer      *MixerConfig `yaml:",omitempty"`
	Parts      []PartFile
}

type MixerConfig struct {
	Level float32
}

type PartFile struct {
	Name       string
	Instrument InstrumentFile `yaml:",omitempty"`
	MML        string         `yaml:"mml,omitempty"`
}

type InstrumentFile struct {
	// Expr is an oscillator expression. Empty means sine.
	Expr string `yaml:",omitempty"`
	// Gain defaults to 1.
	Gain     *float32 `yaml:",omitempty"`
	Channels int      `yaml:",omitempty"`
	Effects  []string `yaml:",flow,omitempty"`
}

// Instrument builds the instrument described by f.
func (f InstrumentFile) Instrument() (Instrument, error) {
	expr := f.Expr
	if expr == "" {
		expr = "sine"
	}
	instr, err := ParseInstrument(expr, f.Effects...)
	if err != nil {
		return Instrument{}, err
	}
	if f.Gain != nil {
		instr.Gain = *f.Gain
	}
	instr.Channels = f.Channels
	return instr, nil
}

// Score creates the score described by f and loads each part's MML. opts are
// applied after the file's own settings.
func (f *ScoreFile) Score(opts ...Option) (*Score, error) {
	names := make([]string, 0, len(f.Parts))
	fileOpts := []Option{WithTitle(f.Title), WithComposer(f.Composer)}
	if f.SampleRate != 0 {
		fileOpts = append(fileOpts, WithSampleRate(f.SampleRate))
	}
	if f.Mixer != nil {
		fileOpts = append(fileOpts, WithMixer(SumNormalize{Level: f.Mixer.Level}))
	}
	for _, p := range f.Parts {
		instr, err := p.Instrument.Instrument()
		if err != nil {
			return nil, fmt.Errorf("oscmix: part %q: %w", p.Name, err)
		}
		names = append(names, p.Name)
		fileOpts = append(fileOpts, WithInstrument(p.Name, instr))
	}
	s, err := NewScore(f.Tempo, names, append(fileOpts, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, p := range f.Parts {
		if err := s.SetMML(p.Name, p.MML); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ReadScoreFile decodes a YAML score. Unknown fields are an error.
func ReadScoreFile(r io.Reader) (*ScoreFile, error) {
	var f ScoreFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("oscmix: empty score file")
		}
		return nil, fmt.Errorf("oscmix: decode score: %w", err)
	}
	return &f, nil
}

// LoadScore reads a YAML score and creates it.
func LoadScore(r io.Reader, opts ...Option) (*Score, error) {
	f, err := ReadScoreFile(r)
	if err != nil {
		return nil, err
	}
	return f.Score(opts...)
}

func LoadScoreFile(path string, opts ...Option) (*Score, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadScore(file, opts...)
}
