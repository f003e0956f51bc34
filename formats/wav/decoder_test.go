// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/sample"
)

// writeTemp encodes pcm into a file under t.TempDir and returns its path.
func writeTemp(t *testing.T, pcm *sample.PCM) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	if err := WritePCM(f, pcm); err != nil {
		t.Fatalf("WritePCM() error = %v", err)
	}
	return path
}

func TestDecoder_RoundTrip16(t *testing.T) {
	t.Parallel()

	want := []int16{0, 16384, -16384, 32767, -32768}
	path := writeTemp(t, &sample.PCM{Rate: 22050, Bits: 16, Data16: want})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 22050 || src.Channels() != 1 {
		t.Errorf("Decode() = %d Hz %d ch, want 22050 Hz 1 ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 16)
	n, err := src.ReadSamples(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != len(want) {
		t.Fatalf("ReadSamples() = %d, want %d", n, len(want))
	}
	for i, s := range want {
		if got := buf[i] * 32768; got != float32(s) {
			t.Errorf("sample %d = %v, want %d", i, got, s)
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() at end = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestDecoder_Buffered8(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, &sample.PCM{Rate: 11025, Bits: 8, Data8: []byte{0x80, 0xff, 0x01, 0x80}})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	// A plain reader is buffered in memory before decoding.
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 11025 {
		t.Errorf("SampleRate() = %d, want 11025", src.SampleRate())
	}

	pcm, err := sample.Read(src, sample.Options{Bits: 8})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if pcm.Len() != 4 {
		t.Errorf("Len() = %d, want 4", pcm.Len())
	}
}

func TestDecoder_NotWav(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("definitely not a riff file, just text")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Errorf("Decode() error = %v, want %v", err, ErrNotWavFile)
	}
}

type fakePCM struct {
	data []int
	err  error
}

func (f *fakePCM) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestSource_Normalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits int
		in   int
		want float32
	}{
		{8, 128, 0},
		{8, 0, -1},
		{8, 192, 0.5},
		{16, -32768, -1},
		{16, 16384, 0.5},
		{24, 1 << 22, 0.5},
		{32, -(1 << 30), -0.5},
	}

	for _, tt := range tests {
		src := &source{
			dec:      &fakePCM{data: []int{tt.in}},
			channels: 1,
			bitDepth: tt.bits,
			buf:      &goaudio.IntBuffer{},
		}
		dst := make([]float32, 1)
		if _, err := src.ReadSamples(dst); err != nil {
			t.Fatalf("%d-bit ReadSamples() error = %v", tt.bits, err)
		}
		if dst[0] != tt.want {
			t.Errorf("%d-bit %d = %v, want %v", tt.bits, tt.in, dst[0], tt.want)
		}
	}
}

func TestSource_Error(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	src := &source{dec: &fakePCM{err: errBoom}, channels: 1, bitDepth: 16, buf: &goaudio.IntBuffer{}}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, errBoom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, errBoom)
	}
}
