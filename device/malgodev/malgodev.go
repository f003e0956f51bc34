// SPDX-License-Identifier: EPL-2.0

// Package malgodev plays through miniaudio. The data callback drains the
// ring through a cursor, which services the mixer at page boundaries and
// reports the position.
package malgodev

import (
	"sync"

	"github.com/decred/slog"
	"github.com/gen2brain/malgo"

	"github.com/ik5/audmix/device"
)

func init() {
	device.Register(device.Malgo, func() device.Backend { return New() })
}

// Backend is a device.Backend on a miniaudio playback device.
type Backend struct {
	log slog.Logger
	cfg device.Config

	mtx sync.Mutex
	ctx *malgo.AllocatedContext
	dev *malgo.Device

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
	b.cfg = cfg

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		b.log.Debugf("miniaudio: %s", message)
	})
	if err != nil {
		return device.Caps{}, err
	}

	b.mtx.Lock()
	b.ctx = ctx
	b.mtx.Unlock()

	if cfg.Name != "" {
		b.log.Warnf("malgo plays on the default device, ignoring %q", cfg.Name)
	}
	return device.Caps{Addressable: true}, nil
}

// SetMixMode implements device.Backend.
func (b *Backend) SetMixMode(m device.Mode) device.Mode {
	return m
}

// BeginBufferedPlayback implements device.Backend.
func (b *Backend) BeginBufferedPlayback(p device.Playback) (int, error) {
	conf := malgo.DefaultDeviceConfig(malgo.Playback)
	conf.Playback.Format = malgo.FormatU8
	if p.Mode.Bits() == 16 {
		conf.Playback.Format = malgo.FormatS16
	}
	conf.Playback.Channels = uint32(p.Mode.Channels())
	conf.SampleRate = uint32(p.Rate)
	conf.PeriodSizeInFrames = uint32(p.Frames())
	if b.cfg.Latency > 0 {
		conf.PeriodSizeInMilliseconds = uint32(b.cfg.Latency.Milliseconds())
		conf.PeriodSizeInFrames = 0
	}

	b.cursor.Start(p)

	b.mtx.Lock()
	defer b.mtx.Unlock()

	dev, err := malgo.InitDevice(b.ctx.Context, conf, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			b.cursor.Read(out)
		},
	})
	if err != nil {
		b.cursor.Stop()
		return 0, err
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		b.cursor.Stop()
		return 0, err
	}
	b.dev = dev

	rate := int(dev.SampleRate())
	b.log.Debugf("malgo: %d-bit %d channels at %d Hz", p.Mode.Bits(), p.Mode.Channels(), rate)

	return rate, nil
}

// CurrentPosition implements device.Backend.
func (b *Backend) CurrentPosition() (int, bool) {
	return b.cursor.Position()
}

// StopPlayback implements device.Backend.
func (b *Backend) StopPlayback() {
	b.cursor.Stop()

	b.mtx.Lock()
	dev := b.dev
	b.dev = nil
	b.mtx.Unlock()

	if dev == nil {
		return
	}
	if err := dev.Stop(); err != nil {
		b.log.Warnf("malgo: stopping device: %v", err)
	}
	dev.Uninit()
}

// Shutdown implements device.Backend.
func (b *Backend) Shutdown() error {
	b.StopPlayback()

	b.mtx.Lock()
	ctx := b.ctx
	b.ctx = nil
	b.mtx.Unlock()

	if ctx == nil {
		return nil
	}
	if err := ctx.Uninit(); err != nil {
		return err
	}
	ctx.Free()
	return nil
}
