// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/internal/audiotest"
)

func TestDownmix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float32
		want   float32
	}{
		{"mono passes through", []float32{0.25}, 0.25},
		{"stereo averages", []float32{1, 0}, 0.5},
		{"opposite phases cancel", []float32{0.5, -0.5}, 0},
		{"four channels", []float32{1, 1, 0, 0}, 0.5},
		{"three channels", []float32{0.3, 0.3, 0.3}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewChannelSource(8000, 10, tt.values...)
			d := NewDownmix(src)
			if d.Channels() != 1 || d.SampleRate() != 8000 {
				t.Fatalf("Downmix = %d ch %d Hz, want 1 ch 8000 Hz", d.Channels(), d.SampleRate())
			}

			buf := make([]float32, 16)
			n, err := d.ReadSamples(buf)
			if !errors.Is(err, io.EOF) {
				t.Errorf("ReadSamples() error = %v, want io.EOF", err)
			}
			if n != 10 {
				t.Fatalf("ReadSamples() = %d, want 10", n)
			}
			for i, v := range buf[:n] {
				if diff := v - tt.want; diff > 1e-6 || diff < -1e-6 {
					t.Errorf("buf[%d] = %v, want %v", i, v, tt.want)
				}
			}
		})
	}
}

func TestDownmix_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 2, 1, 0)
	if err := NewDownmix(src).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.Closed() {
		t.Error("Close() did not close the source")
	}
}

func TestDownmix_EmptyDst(t *testing.T) {
	t.Parallel()

	n, err := NewDownmix(audiotest.NewConstantSource(8000, 2, 1, 0)).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}
