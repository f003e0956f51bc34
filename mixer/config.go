// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"unsafe"

	"github.com/ik5/audmix/device"
)

const (
	// MixBufferSize is the number of frames in one page.
	MixBufferSize = 256
	// NumberOfBuffers is the page count of the ring at 16-bit stereo.
	NumberOfBuffers = 16
	// TotalBufferSize is the ring size in bytes regardless of mode.
	TotalBufferSize = MixBufferSize * 2 * 2 * NumberOfBuffers
	// MinVoiceHandle is the smallest handle ever returned.
	MinVoiceHandle = 1

	maxVoiceHandle = 1<<31 - 1

	// Sample rates outside this range are rejected.
	minSampleRate = 4000
	maxSampleRate = 96000
)

// Config selects the device and output format.
type Config struct {
	// Family picks a backend from the device registry.
	Family device.Family
	// Backend, when set, is used instead of the registry.
	Backend device.Backend
	// Device is passed to Backend.Init.
	Device device.Config

	SampleRate int
	Voices     int
	Channels   int
	Bits       int

	// MemoryLimit caps the bytes the mixer may reserve. Zero means no
	// limit.
	MemoryLimit int
}

// DefaultConfig returns the settings used when nothing is specified:
// eight voices, 16-bit stereo at 11025 Hz on the null device.
func DefaultConfig() Config {
	return Config{
		Family:     device.Null,
		SampleRate: 11025,
		Voices:     8,
		Channels:   2,
		Bits:       16,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.SampleRate < minSampleRate || c.SampleRate > maxSampleRate:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.Voices < 1:
		return fmt.Errorf("%w: %d voices", ErrInvalidConfig, c.Voices)
	case c.Channels != 1 && c.Channels != 2:
		return fmt.Errorf("%w: %d channels", ErrInvalidConfig, c.Channels)
	case c.Bits != 8 && c.Bits != 16:
		return fmt.Errorf("%w: %d bits", ErrInvalidConfig, c.Bits)
	case c.MemoryLimit < 0:
		return fmt.Errorf("%w: memory limit %d", ErrInvalidConfig, c.MemoryLimit)
	}
	return nil
}

// Footprint is the number of bytes Init reserves for c.
func (c Config) Footprint() int {
	return c.Voices*int(unsafe.Sizeof(voice{})) + TotalBufferSize
}
