// SPDX-License-Identifier: EPL-2.0

package device

import (
	"time"

	"github.com/decred/slog"
)

// Mode describes the output sample format as a set of flags.
type Mode uint8

const (
	// Stereo selects two output channels.
	Stereo Mode = 1 << iota
	// SixteenBit selects signed 16-bit little-endian output instead of
	// unsigned 8-bit.
	SixteenBit
)

// NewMode builds a Mode from a channel count and sample width.
func NewMode(channels, bits int) Mode {
	var m Mode
	if channels == 2 {
		m |= Stereo
	}
	if bits == 16 {
		m |= SixteenBit
	}
	return m
}

// Channels returns 1 or 2.
func (m Mode) Channels() int {
	if m&Stereo != 0 {
		return 2
	}
	return 1
}

// Bits returns 8 or 16.
func (m Mode) Bits() int {
	if m&SixteenBit != 0 {
		return 16
	}
	return 8
}

// BytesPerSample is the size of one sample of one channel.
func (m Mode) BytesPerSample() int { return m.Bits() / 8 }

// Silence is the byte value a cleared page is filled with.
func (m Mode) Silence() byte {
	if m&SixteenBit != 0 {
		return 0
	}
	return 0x80
}

// Caps reports how a backend wants to be driven.
type Caps struct {
	// DemandFeed devices pull blocks through Host.NextBlock and use split
	// stereo pages.
	DemandFeed bool
	// Addressable devices report the byte offset being consumed.
	Addressable bool
	// ReverseStereo devices have their left and right outputs swapped.
	ReverseStereo bool
}

// Config carries the settings a backend may need to open its device.
type Config struct {
	// Name selects an output device; empty means the system default.
	Name string
	// Path is the output file for capture backends.
	Path string
	// Latency overrides the backend's internal buffering when non-zero.
	Latency time.Duration
	// Log receives backend diagnostics. Nil means slog.Disabled.
	Log slog.Logger
}

// Logger returns c.Log or slog.Disabled.
func (c Config) Logger() slog.Logger {
	if c.Log == nil {
		return slog.Disabled
	}
	return c.Log
}

// Host is implemented by the mixer and called from the backend's service
// goroutine.
type Host interface {
	// ServiceBuffer is called once per page boundary by ring devices.
	ServiceBuffer()
	// NextBlock returns the next mixed block for channel ch (0 is left or
	// mono, 1 is right). The slice aliases the ring and is valid until the
	// next call for the same channel.
	NextBlock(ch int) []byte
}

// Playback describes the ring a backend plays from.
type Playback struct {
	// Ring is the whole buffer. For split stereo the right channel ring
	// starts at len(Ring)/2.
	Ring []byte
	// Split is set when left and right live in separate rings.
	Split bool
	// PageSize is the size in bytes of one page of one ring.
	PageSize int
	// Pages is the number of pages in one ring.
	Pages int
	// Rate is the requested sample rate in Hz.
	Rate int
	// Mode is the negotiated output format.
	Mode Mode
	// Host is serviced at every page boundary.
	Host Host
}

// Frames is the number of sample frames in one page.
func (p Playback) Frames() int {
	stride := p.Mode.BytesPerSample()
	if p.Mode&Stereo != 0 && !p.Split {
		stride *= 2
	}
	return p.PageSize / stride
}

// Period is the wall-clock duration of one page at the requested rate.
func (p Playback) Period() time.Duration {
	if p.Rate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.Rate)
}

// Backend is the contract every hardware family implements.
type Backend interface {
	// Init opens the device.
	Init(cfg Config) (Caps, error)
	// SetMixMode asks for an output format and returns the one the device
	// will actually use.
	SetMixMode(m Mode) Mode
	// BeginBufferedPlayback starts consuming the ring and returns the
	// negotiated sample rate.
	BeginBufferedPlayback(p Playback) (int, error)
	// CurrentPosition returns the byte offset into the ring being played, or
	// false when the device cannot tell. It is called from within
	// Host.ServiceBuffer and must not block.
	CurrentPosition() (int, bool)
	// StopPlayback halts the device. No Host call may happen after it
	// returns.
	StopPlayback()
	// Shutdown releases the device.
	Shutdown() error
}
