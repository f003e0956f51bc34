// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"testing"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/mixer"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	o, err := parseFlags([]string{"-device", "wav", "-out", "mix.wav", "-mono", "-8bit", "-lowsound", "a.wav", "b.ogg"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if len(o.files) != 2 {
		t.Errorf("files = %v, want two", o.files)
	}

	cfg, err := o.config()
	if err != nil {
		t.Fatalf("config() error = %v", err)
	}
	if cfg.Family != device.WAVFile {
		t.Errorf("Family = %v, want %v", cfg.Family, device.WAVFile)
	}
	if cfg.SampleRate != 11025 || cfg.Channels != 1 || cfg.Bits != 8 {
		t.Errorf("config = %d Hz, %d channels, %d bits; want 11025 Hz, 1, 8",
			cfg.SampleRate, cfg.Channels, cfg.Bits)
	}
	if cfg.Device.Path != "mix.wav" {
		t.Errorf("Device.Path = %q, want %q", cfg.Device.Path, "mix.wav")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	if _, err := parseFlags(nil); err == nil {
		t.Error("parseFlags(nil) error = nil, want missing files")
	}

	o, err := parseFlags([]string{"-device", "beeper", "a.wav"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if _, err := o.config(); !errors.Is(err, device.ErrUnsupported) {
		t.Errorf("config() error = %v, want %v", err, device.ErrUnsupported)
	}

	o, _ = parseFlags([]string{"-rate", "100", "a.wav"})
	if _, err := o.config(); !errors.Is(err, mixer.ErrInvalidConfig) {
		t.Errorf("config() error = %v, want %v", err, mixer.ErrInvalidConfig)
	}
}
