// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/sample"
)

// aiffReader is the part of aiff.Decoder the source uses.
type aiffReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	scale      float32
	buf        *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// ReadSamples converts signed AIFF samples to float32.
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
		return 0, fmt.Errorf("aiff: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) / s.scale
	}

	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

// Decoder reads AIFF files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (sample.Source, error) {
	// go-audio needs to seek.
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	var scale float32
	switch dec.BitDepth {
	case 8:
		scale = 128
	case 16:
		scale = 32768
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      scale,
		buf:        &goaudio.IntBuffer{Format: format},
	}, nil
}
