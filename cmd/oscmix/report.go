package main

import (
	"io"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/cbegin/oscmix"
)

const defaultReport = `{{ .Title | default "untitled" }}{{ with .Composer }} by {{ . }}{{ end }}
tempo {{ .Tempo }}, {{ .SampleRate }} Hz, {{ printf "%.2f" .Seconds }}s
{{- range .Parts }}
  {{ .Name | printf "%-12s" }} {{ .Symbols | printf "%4d" }} symbols {{ printf "%7.2f" .Beats }} beats {{ .Channels }}ch {{ .Frames }} frames peak {{ printf "%.3f" .Peak }}
{{- end }}
`

type partReport struct {
	Name     string
	Symbols  int
	Beats    float64
	Channels int
	Frames   int
	Peak     float32
}

type scoreReport struct {
	Title      string
	Composer   string
	Tempo      any
	SampleRate int
	Seconds    float64
	Parts      []partReport
}

func buildReport(s *oscmix.Score) (*scoreReport, error) {
	tracks, err := s.Compile()
	if err != nil {
		return nil, err
	}
	r := &scoreReport{
		Title:      s.Title(),
		Composer:   s.Composer(),
		Tempo:      s.Tempo(),
		SampleRate: s.SampleRate(),
	}
	frames := 0
	for _, part := range s.Parts() {
		seq, err := s.Sequence(part)
		if err != nil {
			return nil, err
		}
		buf := tracks[part]
		r.Parts = append(r.Parts, partReport{
			Name:     part,
			Symbols:  len(seq),
			Beats:    seq.Beats(),
			Channels: buf.Channels(),
			Frames:   buf.Frames(),
			Peak:     buf.Peak(),
		})
		frames = max(frames, buf.Frames())
	}
	r.Seconds = float64(frames) / float64(s.SampleRate())
	return r, nil
}

// writeReport renders text as a template over the compiled score. An empty
// text uses the built-in summary.
func writeReport(w io.Writer, s *oscmix.Score, text string) error {
	if text == "" {
		text = defaultReport
	}
	tmpl, err := template.New("report").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return err
	}
	r, err := buildReport(s)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
