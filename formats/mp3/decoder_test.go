// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// fakeMP3 serves 16-bit little-endian PCM like gomp3.Decoder.
type fakeMP3 struct {
	rate int
	pcm  *bytes.Reader
	err  error
}

func newFakeMP3(rate int, samples ...int16) *fakeMP3 {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return &fakeMP3{rate: rate, pcm: bytes.NewReader(b)}
}

func (f *fakeMP3) SampleRate() int { return f.rate }

func (f *fakeMP3) Read(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.pcm.Read(p)
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: newFakeMP3(44100, 0, 16384, -32768, 32767)}
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("source = %d Hz %d ch, want 44100 Hz 2 ch", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 2)
	n, err := src.ReadSamples(dst)
	if n != 2 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 2, nil", n, err)
	}
	if dst[0] != 0 || dst[1] != 0.5 {
		t.Errorf("first frame = %v, want [0 0.5]", dst)
	}

	dst = make([]float32, 4)
	n, err = src.ReadSamples(dst)
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want 2, io.EOF", n, err)
	}
	if dst[0] != -1 {
		t.Errorf("dst[0] = %v, want -1", dst[0])
	}
}

func TestSource_Error(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	src := &source{dec: &fakeMP3{err: errBoom}}
	if _, err := src.ReadSamples(make([]float32, 2)); !errors.Is(err, errBoom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, errBoom)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode(empty) error = nil, want error")
	}
}
