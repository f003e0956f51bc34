// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audmix/sample"
)

// oggReader is the part of oggvorbis.Reader the source uses.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec oggReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// ReadSamples reads whole frames; dst is truncated to a multiple of the
// channel count.
func (s *source) ReadSamples(dst []float32) (int, error) {
	ch := s.dec.Channels()
	dst = dst[:len(dst)-len(dst)%ch]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("vorbis: %w", err)
	}
	return n, err
}

// Decoder reads Ogg Vorbis streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (sample.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	return &source{dec: dec}, nil
}
