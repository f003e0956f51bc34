// SPDX-License-Identifier: EPL-2.0

// Package otodev plays the ring through ebitengine/oto. Oto pulls bytes
// from a reader on its own goroutine; the reader walks the ring and
// services the mixer at every page boundary, so the read cursor doubles as
// the device position.
//
// Oto allows one context per process. The first device to start playback
// fixes the sample rate and format for every later one.
package otodev

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/device"
)

// defaultLatency is the buffer oto keeps ahead of the speaker.
const defaultLatency = 40 * time.Millisecond

// ErrContextMismatch is returned when playback asks for a rate or format
// other than the one the process-wide context was created with.
var ErrContextMismatch = errors.New("oto context already created with other settings")

var shared struct {
	mtx  sync.Mutex
	ctx  *oto.Context
	rate int
	mode device.Mode
}

func init() {
	device.Register(device.Oto, func() device.Backend { return New() })
}

// Backend is a device.Backend on top of an oto player.
type Backend struct {
	log     slog.Logger
	latency time.Duration

	mtx    sync.Mutex
	player *oto.Player

	cursor device.Cursor
}

var _ device.Backend = (*Backend)(nil)

// New returns an unopened backend.
func New() *Backend {
	return &Backend{log: slog.Disabled}
}

// Init implements device.Backend.
func (b *Backend) Init(cfg device.Config) (device.Caps, error) {
	b.log = cfg.Logger()
	b.latency = cfg.Latency
	if b.latency <= 0 {
		b.latency = defaultLatency
	}
	if cfg.Name != "" {
		b.log.Warnf("oto always plays on the default device, ignoring %q", cfg.Name)
	}

	return device.Caps{Addressable: true}, nil
}

// SetMixMode implements device.Backend. Once the context exists its format
// wins.
func (b *Backend) SetMixMode(m device.Mode) device.Mode {
	shared.mtx.Lock()
	defer shared.mtx.Unlock()

	if shared.ctx != nil {
		return shared.mode
	}
	return m
}

// BeginBufferedPlayback implements device.Backend.
func (b *Backend) BeginBufferedPlayback(p device.Playback) (int, error) {
	ctx, err := b.context(p)
	if err != nil {
		return 0, err
	}

	b.cursor.Start(p)

	player := ctx.NewPlayer(reader{&b.cursor})
	player.SetBufferSize(int(b.latency.Seconds()*float64(p.Rate)) * p.Mode.Channels() * p.Mode.BytesPerSample())
	player.Play()

	b.mtx.Lock()
	b.player = player
	b.mtx.Unlock()

	b.log.Debugf("oto: playing %d-bit at %d Hz", p.Mode.Bits(), p.Rate)
	return p.Rate, nil
}

func (b *Backend) context(p device.Playback) (*oto.Context, error) {
	shared.mtx.Lock()
	defer shared.mtx.Unlock()

	if shared.ctx != nil {
		if shared.rate != p.Rate || shared.mode != p.Mode {
			return nil, fmt.Errorf("%w: %d Hz %d-bit", ErrContextMismatch, shared.rate, shared.mode.Bits())
		}
		if err := shared.ctx.Resume(); err != nil {
			return nil, err
		}
		return shared.ctx, nil
	}

	format := oto.FormatUnsignedInt8
	if p.Mode.Bits() == 16 {
		format = oto.FormatSignedInt16LE
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   p.Rate,
		ChannelCount: p.Mode.Channels(),
		Format:       format,
		BufferSize:   b.latency,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	shared.ctx, shared.rate, shared.mode = ctx, p.Rate, p.Mode
	return ctx, nil
}

// CurrentPosition implements device.Backend.
func (b *Backend) CurrentPosition() (int, bool) {
	return b.cursor.Position()
}

// StopPlayback implements device.Backend.
func (b *Backend) StopPlayback() {
	b.cursor.Stop()

	b.mtx.Lock()
	player := b.player
	b.player = nil
	b.mtx.Unlock()

	if player == nil {
		return
	}
	player.Pause()
	if err := player.Close(); err != nil {
		b.log.Warnf("oto: closing player: %v", err)
	}
}

// Shutdown implements device.Backend. The context outlives the backend and
// is only suspended.
func (b *Backend) Shutdown() error {
	b.StopPlayback()

	shared.mtx.Lock()
	defer shared.mtx.Unlock()

	if shared.ctx == nil {
		return nil
	}
	return shared.ctx.Suspend()
}

// reader adapts the cursor to io.Reader.
type reader struct{ c *device.Cursor }

func (r reader) Read(p []byte) (int, error) {
	return r.c.Read(p), nil
}
