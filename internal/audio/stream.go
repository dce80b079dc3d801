// Package audio plays rendered buffers on the default output device.
package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cbegin/oscmix"
	"github.com/cbegin/oscmix/osc"
)

// BufferSource yields the frames of a buffer as interleaved stereo. Mono
// buffers play on both sides; channels past the second are dropped.
type BufferSource struct {
	left, right []float32
	pos         int
}

func NewBufferSource(b osc.Buffer) *BufferSource {
	s := &BufferSource{}
	switch b.Channels() {
	case 0:
	case 1:
		s.left, s.right = b[0], b[0]
	default:
		s.left, s.right = b[0], b[1]
	}
	return s
}

// Process fills dst with the next len(dst)/2 frames, padding with silence
// once the buffer is exhausted.
func (s *BufferSource) Process(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		if s.pos < len(s.left) {
			dst[i], dst[i+1] = s.left[s.pos], s.right[s.pos]
			s.pos++
			continue
		}
		dst[i], dst[i+1] = 0, 0
	}
}

func (s *BufferSource) Finished() bool { return s.pos >= len(s.left) }

// StreamReader encodes a source as 32-bit float little-endian stereo for the
// audio context. It returns io.EOF once the source has finished.
type StreamReader struct {
	mu     sync.Mutex
	source *BufferSource
	buf    []float32
}

func NewStreamReader(source *BufferSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.source.Finished() {
		return 0, io.EOF
	}
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i, v := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return frames * 8, nil
}

func (r *StreamReader) Close() error { return nil }

var (
	audioContextMu  sync.Mutex
	audioContext    *ebitaudio.Context
	audioSampleRate int
)

// sharedAudioContext returns the process-wide context. Ebiten allows one
// context, so every player must use the same sample rate.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextMu.Lock()
	defer audioContextMu.Unlock()
	if audioContext == nil {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	}
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

func NewPlayer(sampleRate int, b osc.Buffer) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(NewBufferSource(b))
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Position returns the current playback position (what the listener actually hears).
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

// Wait blocks until playback ends or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for p.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (p *Player) Stop() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}

// Speaker plays score audio to completion. It implements oscmix.Player.
type Speaker struct {
	Context context.Context
}

func (s Speaker) Play(a *oscmix.Audio) error {
	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}
	data := a.Data
	if a.Normalize {
		data = oscmix.Normalize(data, 1)
	}
	p, err := NewPlayer(a.Rate, data)
	if err != nil {
		return err
	}
	p.Play()
	waitErr := p.Wait(ctx)
	if err := p.Stop(); err != nil {
		return err
	}
	return waitErr
}
