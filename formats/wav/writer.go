// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmix/sample"
)

// Writer encodes PCM laid out the way the mixer's ring holds it: unsigned
// 8-bit or signed little-endian 16-bit, channels interleaved.
type Writer struct {
	enc      *gowav.Encoder
	bits     int
	channels int
	buf      *goaudio.IntBuffer
	frames   int
}

// NewWriter starts a WAV stream on ws. Close must be called to fix up the
// header.
func NewWriter(ws io.WriteSeeker, rate, bits, channels int) (*Writer, error) {
	if bits != 8 && bits != 16 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitDepth, bits)
	}

	return &Writer{
		enc:      gowav.NewEncoder(ws, rate, bits, channels, pcmFormat),
		bits:     bits,
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: bits,
		},
	}, nil
}

// Write encodes raw PCM bytes. A trailing partial sample is ignored.
func (w *Writer) Write(p []byte) (int, error) {
	bps := w.bits / 8
	n := len(p) / bps

	data := w.grow(n)
	for i := range data {
		if bps == 1 {
			data[i] = int(p[i])
		} else {
			data[i] = int(int16(binary.LittleEndian.Uint16(p[2*i:])))
		}
	}

	if err := w.flush(); err != nil {
		return 0, err
	}
	return n * bps, nil
}

// WritePCM encodes a mono PCM. Its depth must match the writer's.
func (w *Writer) WritePCM(pcm *sample.PCM) error {
	if pcm.Bits != w.bits {
		return fmt.Errorf("%w: writer is %d-bit, pcm is %d-bit", ErrInvalidBitDepth, w.bits, pcm.Bits)
	}

	data := w.grow(pcm.Len())
	for i := range data {
		if w.bits == 8 {
			data[i] = int(pcm.Data8[i])
		} else {
			data[i] = int(pcm.Data16[i])
		}
	}
	return w.flush()
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finishes the file. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

func (w *Writer) grow(n int) []int {
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	return w.buf.Data
}

func (w *Writer) flush() error {
	if len(w.buf.Data) == 0 {
		return nil
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	w.frames += len(w.buf.Data) / w.channels
	return nil
}

// WritePCM writes pcm to ws as a complete mono WAV file.
func WritePCM(ws io.WriteSeeker, pcm *sample.PCM) error {
	w, err := NewWriter(ws, pcm.Rate, pcm.Bits, 1)
	if err != nil {
		return err
	}
	if err := w.WritePCM(pcm); err != nil {
		return err
	}
	return w.Close()
}
