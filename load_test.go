// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/sample"
)

// writeWAV stores pcm as a WAV file in a temporary directory.
func writeWAV(t *testing.T, name string, pcm *sample.PCM) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	if err := wav.WritePCM(f, pcm); err != nil {
		t.Fatalf("WritePCM() error = %v", err)
	}
	return path
}

func TestDecoders(t *testing.T) {
	t.Parallel()

	got := audmix.Decoders().Formats()
	slices.Sort(got)
	want := []string{audmix.FormatAIFF, audmix.FormatMP3, audmix.FormatVorbis, audmix.FormatWAV}
	if !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}

	for _, path := range []string{"a.wav", "b.WAV", "c.aif", "d.mp3", "e.ogg"} {
		if _, ok := audmix.Decoders().ForPath(path); !ok {
			t.Errorf("ForPath(%q) found no decoder", path)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	in := &sample.PCM{Rate: 11025, Bits: 16, Data16: []int16{0, 16384, -16384, 32767, -32767, 0}}
	path := writeWAV(t, "tone.wav", in)

	pcm, err := audmix.LoadFile(path, sample.Options{Bits: 16})
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if pcm.Rate != 11025 || pcm.Bits != 16 {
		t.Errorf("LoadFile() = %d Hz %d-bit, want 11025 Hz 16-bit", pcm.Rate, pcm.Bits)
	}
	if pcm.Len() != len(in.Data16) {
		t.Fatalf("Len() = %d, want %d", pcm.Len(), len(in.Data16))
	}
	if pcm.Data16[0] != 0 || pcm.Data16[3] < 32700 || pcm.Data16[4] > -32700 {
		t.Errorf("Data16 = %v, want silence and both peaks preserved", pcm.Data16)
	}

	eight, err := audmix.LoadFile(path, sample.Options{Bits: 8})
	if err != nil {
		t.Fatalf("LoadFile(8-bit) error = %v", err)
	}
	if eight.Data8[0] != 0x80 || eight.Data8[3] < 0xfe {
		t.Errorf("Data8 = %v, want 0x80 first and full scale at the peak", eight.Data8)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	if _, err := audmix.LoadFile("sound.xyz", sample.Options{}); !errors.Is(err, sample.ErrUnknownFormat) {
		t.Errorf("LoadFile(.xyz) error = %v, want %v", err, sample.ErrUnknownFormat)
	}

	missing := filepath.Join(t.TempDir(), "missing.wav")
	if _, err := audmix.LoadFile(missing, sample.Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want %v", err, os.ErrNotExist)
	}

	bogus := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(bogus, []byte("not a wav file at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := audmix.LoadFile(bogus, sample.Options{}); !errors.Is(err, wav.ErrNotWavFile) {
		t.Errorf("LoadFile(bogus) error = %v, want %v", err, wav.ErrNotWavFile)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, "click.wav", &sample.PCM{Rate: 8000, Bits: 8, Data8: []byte{0x80, 0xff, 0x00, 0x80}})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	pcm, err := audmix.Load(bytes.NewReader(data), audmix.FormatWAV, sample.Options{Bits: 8})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(pcm.Data8, []byte{0x80, 0xfe, 0x01, 0x80}) {
		t.Errorf("Data8 = %v, want [128 254 1 128]", pcm.Data8)
	}

	if _, err := audmix.Load(bytes.NewReader(data), "flac", sample.Options{}); !errors.Is(err, sample.ErrUnknownFormat) {
		t.Errorf("Load(flac) error = %v, want %v", err, sample.ErrUnknownFormat)
	}
}
