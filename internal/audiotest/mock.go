// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides test doubles shared by the audmix packages.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates frames from a waveform function. It satisfies
// sample.Source.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	generated  int
	closed     bool
	waveform   func(frame, channel int) float32
}

// NewMockSource returns frames frames of waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewConstantSource returns a source where every sample is value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewSineSource returns a sine wave of frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewChannelSource returns a source whose channel c always reads values[c].
func NewChannelSource(sampleRate, frames int, values ...float32) *MockSource {
	return NewMockSource(sampleRate, len(values), frames, func(_, ch int) float32 { return values[ch] })
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// ReadSamples implements sample.Source.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.generated)
	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += n

	if m.generated >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
