package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/cbegin/oscmix"
	intaudio "github.com/cbegin/oscmix/internal/audio"
	intplot "github.com/cbegin/oscmix/internal/plot"
	"github.com/cbegin/oscmix/osc"
)

const demoScore = `
title: Demo
tempo: "q=112"
parts:
  - name: lead
    instrument:
      expr: "(saw * 0.6 + sine * 0.4) * adsr(0.01, 0.08, 0.6, 0.05)"
      effects: ["delay 180,0.3,0.25"]
    mml: "o5 l8 [ceg>c<gec r|]2 d4 f4 a2"
  - name: bass
    instrument:
      expr: "triangle * adsr(0.005, 0.2, 0.5, 0.05)"
      gain: 0.8
    mml: "o3 l2 c c c f d1"
`

type options struct {
	file         string
	mml          string
	expr         string
	tempo        string
	sampleRate   int
	play         bool
	parallel     bool
	plotPart     string
	plotOut      string
	plotPeriods  int
	plotSeconds  float64
	report       bool
	templatePath string
	logLevel     string
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "path to a YAML score (default: built-in demo)")
	flag.StringVar(&opts.mml, "mml", "", "inline MML played as a single part")
	flag.StringVar(&opts.expr, "expr", "sine", "oscillator expression used with -mml")
	flag.StringVar(&opts.tempo, "tempo", "120", "tempo used with -mml")
	flag.IntVar(&opts.sampleRate, "sample-rate", 0, "override the score sample rate")
	flag.BoolVar(&opts.play, "play", false, "play the mixed score and wait for it to finish")
	flag.BoolVar(&opts.parallel, "parallel", false, "compile parts concurrently")
	flag.StringVar(&opts.plotPart, "plot", "", "plot the instrument of this part")
	flag.StringVar(&opts.plotOut, "plot-out", "plot.png", "PNG file written by -plot")
	flag.IntVar(&opts.plotPeriods, "plot-periods", 2, "periods shown by -plot")
	flag.Float64Var(&opts.plotSeconds, "plot-seconds", 0.02, "window length shown by -plot")
	flag.BoolVar(&opts.report, "report", true, "print a summary of the compiled parts")
	flag.StringVar(&opts.templatePath, "template", "", "text/template file used for the report")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	flag.Parse()

	logger, err := newLogger(os.Stderr, opts.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			return
		}
		logger.Error("oscmix failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	s, err := loadScore(ctx, opts, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded score", "title", s.Title(), "parts", strings.Join(s.Parts(), ","), "sampleRate", s.SampleRate())

	if opts.report {
		text := ""
		if opts.templatePath != "" {
			path, err := homedir.Expand(opts.templatePath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text = string(data)
		}
		if err := writeReport(os.Stdout, s, text); err != nil {
			return err
		}
	}

	if opts.plotPart != "" {
		if err := plotPart(s, opts); err != nil {
			return err
		}
		logger.Info("wrote plot", "part", opts.plotPart, "file", opts.plotOut)
	}

	a, err := s.Audio(opts.play, true)
	if err != nil {
		return err
	}
	logger.Info("built audio", "channels", a.Channels(), "frames", a.Frames(), "duration", a.Duration())
	return nil
}

func loadScore(ctx context.Context, opts options, logger *slog.Logger) (*oscmix.Score, error) {
	scoreOpts := []oscmix.Option{
		oscmix.WithLogger(logger),
		oscmix.WithParallelCompile(opts.parallel),
		oscmix.WithPlayer(intaudio.Speaker{Context: ctx}),
	}
	if opts.sampleRate > 0 {
		scoreOpts = append(scoreOpts, oscmix.WithSampleRate(opts.sampleRate))
	}
	if opts.file != "" && opts.mml != "" {
		return nil, errors.New("use either -file or -mml, not both")
	}
	if opts.mml != "" {
		return inlineScore(opts, scoreOpts)
	}
	if opts.file == "" {
		return oscmix.LoadScore(strings.NewReader(demoScore), scoreOpts...)
	}
	path, err := homedir.Expand(opts.file)
	if err != nil {
		return nil, err
	}
	return oscmix.LoadScoreFile(path, scoreOpts...)
}

func plotPart(s *oscmix.Score, opts options) error {
	instr, err := s.Instrument(opts.plotPart)
	if err != nil {
		return err
	}
	im := intplot.New(800, 300)
	if err := osc.Plot(instr.Osc, im, opts.plotPeriods, opts.plotSeconds, s.SampleRate()); err != nil {
		return err
	}
	path, err := homedir.Expand(opts.plotOut)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := im.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func inlineScore(opts options, scoreOpts []oscmix.Option) (*oscmix.Score, error) {
	instr, err := oscmix.ParseInstrument(opts.expr)
	if err != nil {
		return nil, err
	}
	scoreOpts = append(scoreOpts, oscmix.WithInstrument("mml", instr))
	s, err := oscmix.NewScore(opts.tempo, []string{"mml"}, scoreOpts...)
	if err != nil {
		return nil, err
	}
	if err := s.SetMML("mml", opts.mml); err != nil {
		return nil, err
	}
	return s, nil
}
