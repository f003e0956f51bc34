// SPDX-License-Identifier: EPL-2.0

// Package sdldev queues pages to an SDL2 audio device. SDL offers no
// position for a queue, so a ticker running at the page rate keeps a few
// pages queued ahead of the speaker.
package sdldev

import (
	"context"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix/device"
)

// queuedPages is how far ahead of playback the queue is kept.
const queuedPages = 4

func init() {
	device.Register(device.SDL, func() device.Backend { return New() })
}

// Backend is a timer-driven device.Backend.
type Backend struct {
	log slog.Logger
	cfg device.Config

	mtx    sync.Mutex
	id     sdl.AudioDeviceID
	cancel context.CancelFunc
	g      *errgroup.Group

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

	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return device.Caps{}, err
	}
	return device.Caps{}, nil
}

// SetMixMode implements device.Backend.
func (b *Backend) SetMixMode(m device.Mode) device.Mode {
	return m
}

// BeginBufferedPlayback implements device.Backend. The device may run at a
// rate other than the one asked for.
func (b *Backend) BeginBufferedPlayback(p device.Playback) (int, error) {
	format := sdl.AudioFormat(sdl.AUDIO_U8)
	if p.Mode.Bits() == 16 {
		format = sdl.AUDIO_S16LSB
	}

	want := &sdl.AudioSpec{
		Freq:     int32(p.Rate),
		Format:   format,
		Channels: uint8(p.Mode.Channels()),
		Samples:  uint16(p.Frames()),
	}
	var got sdl.AudioSpec
	id, err := sdl.OpenAudioDevice(b.cfg.Name, false, want, &got, sdl.AUDIO_ALLOW_FREQUENCY_CHANGE)
	if err != nil {
		return 0, err
	}
	p.Rate = int(got.Freq)

	b.cursor.Start(p)
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	b.mtx.Lock()
	b.id, b.cancel, b.g = id, cancel, g
	b.mtx.Unlock()

	period := p.Period()
	if b.cfg.Latency > 0 {
		period = b.cfg.Latency
	}
	g.Go(func() error { return b.feed(ctx, id, p, period) })

	sdl.PauseAudioDevice(id, false)
	b.log.Debugf("sdl: device %d at %d Hz, %d-frame pages every %v", id, p.Rate, p.Frames(), period)

	return p.Rate, nil
}

// feed tops up the queue every period until ctx is done.
func (b *Backend) feed(ctx context.Context, id sdl.AudioDeviceID, p device.Playback, period time.Duration) error {
	tick := time.NewTicker(period)
	defer tick.Stop()

	ahead := uint32(queuedPages * p.PageSize)
	for {
		for sdl.GetQueuedAudioSize(id) < ahead {
			page := b.cursor.NextPage()
			if page == nil {
				return nil
			}
			if err := sdl.QueueAudio(id, page); err != nil {
				b.log.Errorf("sdl: queueing audio: %v", err)
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

// CurrentPosition implements device.Backend.
func (b *Backend) CurrentPosition() (int, bool) {
	return 0, false
}

// StopPlayback implements device.Backend.
func (b *Backend) StopPlayback() {
	b.mtx.Lock()
	id, cancel, g := b.id, b.cancel, b.g
	b.id, b.cancel, b.g = 0, nil, nil
	b.mtx.Unlock()

	if g == nil {
		return
	}
	cancel()
	if err := g.Wait(); err != nil {
		b.log.Warnf("sdl: feeder: %v", err)
	}
	b.cursor.Stop()

	sdl.PauseAudioDevice(id, true)
	sdl.ClearQueuedAudio(id)
	sdl.CloseAudioDevice(id)
}

// Shutdown implements device.Backend.
func (b *Backend) Shutdown() error {
	b.StopPlayback()
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
