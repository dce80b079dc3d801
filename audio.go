package oscmix

import (
	"errors"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cbegin/oscmix/osc"
)

const wavBitDepth = 16

// Audio is a mixed score ready for playback.
type Audio struct {
	Data osc.Buffer
	Rate int
	// Autoplay asks the Player to start as soon as the audio is built.
	Autoplay bool
	// Normalize rescales Samples to a peak of 1.
	Normalize bool
}

func (a *Audio) Channels() int { return a.Data.Channels() }
func (a *Audio) Frames() int   { return a.Data.Frames() }

func (a *Audio) Duration() time.Duration {
	if a.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(a.Frames()) / float64(a.Rate) * float64(time.Second))
}

// Samples returns the audio interleaved frame by frame.
func (a *Audio) Samples() []float32 {
	data := a.Data
	if a.Normalize {
		data = Normalize(data, 1)
	}
	return data.Interleave()
}

// WAV encodes the audio as 16-bit PCM. Samples outside [-1, 1] are clipped.
func (a *Audio) WAV() ([]byte, error) {
	if a.Rate <= 0 {
		return nil, errors.New("oscmix: audio has no sample rate")
	}
	samples := a.Samples()
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: max(a.Channels(), 1),
			SampleRate:  a.Rate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: wavBitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(min(max(s, -1), 1) * 32767)
	}

	out := &memFile{}
	e := wav.NewEncoder(out, buf.Format.SampleRate, wavBitDepth, buf.Format.NumChannels, 1)
	if err := e.Write(buf); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}
	return out.buf, nil
}

// memFile is an in-memory io.WriteSeeker; the WAV encoder seeks back to patch
// chunk sizes when it closes.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.New("oscmix: invalid whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("oscmix: negative seek position")
	}
	m.pos = int(pos)
	return pos, nil
}

// Player plays built audio. Score.Audio hands it every Audio built with
// autoplay set.
type Player interface {
	Play(a *Audio) error
}
