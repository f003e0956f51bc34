// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmix/sample"
)

const pcmFormat = 1

// pcmReader is the part of gowav.Decoder the source uses.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	buf        *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf.Data) }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	// 8-bit WAV data is unsigned, wider depths are signed.
	var centre, scale float32
	switch s.bitDepth {
	case 8:
		centre, scale = 128, 128
	case 24:
		scale = 1 << 23
	case 32:
		scale = 1 << 31
	default:
		scale = 1 << 15
	}
	for i, v := range s.buf.Data[:n] {
		dst[i] = (float32(v) - centre) / scale
	}

	if n < len(dst) {
		return n, io.EOF
	}
	return n, err
}

// Decoder reads PCM WAV files of 8, 16, 24 or 32 bits.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (sample.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
		buf: &goaudio.IntBuffer{
			Format: dec.Format(),
			Data:   make([]int, 4096),
		},
	}, nil
}
