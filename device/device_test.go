// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"testing"
	"time"
)

func TestNewMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channels, bits int
		want           Mode
		silence        byte
	}{
		{1, 8, 0, 0x80},
		{2, 8, Stereo, 0x80},
		{1, 16, SixteenBit, 0},
		{2, 16, Stereo | SixteenBit, 0},
	}

	for _, tt := range tests {
		m := NewMode(tt.channels, tt.bits)
		if m != tt.want {
			t.Errorf("NewMode(%d, %d) = %v, want %v", tt.channels, tt.bits, m, tt.want)
		}
		if m.Channels() != tt.channels || m.Bits() != tt.bits {
			t.Errorf("mode %v reports %d/%d, want %d/%d", m, m.Channels(), m.Bits(), tt.channels, tt.bits)
		}
		if m.Silence() != tt.silence {
			t.Errorf("mode %v Silence() = %#x, want %#x", m, m.Silence(), tt.silence)
		}
	}
}

func TestPlayback_FramesAndPeriod(t *testing.T) {
	t.Parallel()

	interleaved := Playback{
		Ring:     make([]byte, 16384),
		PageSize: 1024,
		Pages:    16,
		Rate:     11025,
		Mode:     Stereo | SixteenBit,
	}
	if got := interleaved.Frames(); got != 256 {
		t.Errorf("interleaved Frames() = %d, want 256", got)
	}

	split := interleaved
	split.PageSize = 512
	split.Split = true
	if got := split.Frames(); got != 256 {
		t.Errorf("split Frames() = %d, want 256", got)
	}

	want := 256 * time.Second / 11025
	if got := interleaved.Period(); got != want {
		t.Errorf("Period() = %v, want %v", got, want)
	}

	if got := (Playback{}).Period(); got != 0 {
		t.Errorf("zero Playback Period() = %v, want 0", got)
	}
}

type stubBackend struct{ Backend }

func TestRegistry(t *testing.T) {
	// Not parallel: mutates the package registry.
	const f = Family(100)

	if Registered(f) {
		t.Fatal("family 100 registered before test")
	}
	if _, err := Open(f); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Open() error = %v, want ErrUnsupported", err)
	}

	Register(f, func() Backend { return stubBackend{} })
	defer func() {
		registryMtx.Lock()
		delete(registry, f)
		registryMtx.Unlock()
	}()

	b, err := Open(f)
	if err != nil {
		t.Fatalf("Open() error = %v, want nil", err)
	}
	if _, ok := b.(stubBackend); !ok {
		t.Errorf("Open() returned %T, want stubBackend", b)
	}
}

func TestFamily_Wrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("no device")
	err := Oto.Wrap(cause)
	if !errors.Is(err, ErrOto) {
		t.Errorf("Wrap() = %v, want ErrOto", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Wrap() = %v, want cause kept", err)
	}
	if Oto.Wrap(nil) != nil {
		t.Error("Wrap(nil) != nil")
	}
	if !errors.Is(Family(42).Err(), ErrUnsupported) {
		t.Error("unknown family Err() is not ErrUnsupported")
	}
}

func TestParseFamily(t *testing.T) {
	t.Parallel()

	for f, name := range familyNames {
		got, err := ParseFamily(name)
		if err != nil || got != f {
			t.Errorf("ParseFamily(%q) = %v, %v; want %v", name, got, err, f)
		}
		if f.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(f), f.String(), name)
		}
	}

	if _, err := ParseFamily("gravis"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ParseFamily(gravis) error = %v, want ErrUnsupported", err)
	}
}
