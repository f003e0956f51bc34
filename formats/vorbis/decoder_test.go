// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// fakeOgg serves interleaved values like oggvorbis.Reader.
type fakeOgg struct {
	rate, channels int
	values         []float32
	err            error
}

func (f *fakeOgg) SampleRate() int { return f.rate }
func (f *fakeOgg) Channels() int   { return f.channels }

func (f *fakeOgg) Read(p []float32) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if len(f.values) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.values)
	f.values = f.values[n:]
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeOgg{rate: 22050, channels: 2, values: []float32{0.1, 0.2, 0.3, 0.4}}}
	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Errorf("source = %d Hz %d ch", src.SampleRate(), src.Channels())
	}

	// Three values round down to one frame.
	dst := make([]float32, 3)
	if n, err := src.ReadSamples(dst); n != 2 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 2, nil", n, err)
	}
	if dst[0] != 0.1 || dst[1] != 0.2 {
		t.Errorf("first frame = %v", dst[:2])
	}

	dst = make([]float32, 8)
	if n, _ := src.ReadSamples(dst); n != 2 {
		t.Errorf("ReadSamples() = %d, want 2", n)
	}
	if _, err := src.ReadSamples(dst); !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() error = %v, want io.EOF", err)
	}
	if n, err := src.ReadSamples(dst[:1]); n != 0 || err != nil {
		t.Errorf("ReadSamples(1 value) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_Error(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeOgg{channels: 1, err: io.ErrUnexpectedEOF}}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really"))); err == nil {
		t.Error("Decode() error = nil, want error")
	}
}
