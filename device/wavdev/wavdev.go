// SPDX-License-Identifier: EPL-2.0

// Package wavdev captures the mix to a WAV file instead of a speaker. A
// clock goroutine plays one page per period and hands it to a writer
// goroutine, so disk latency never stalls the mixer.
package wavdev

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/formats/wav"
)

// ErrNoPath is returned by Init when the config names no output file.
var ErrNoPath = errors.New("wav device needs an output path")

// backlog is the number of pages the writer may fall behind the clock.
const backlog = 16

func init() {
	device.Register(device.WAVFile, func() device.Backend { return New() })
}

// Backend is a timer-driven device.Backend writing to a file.
type Backend struct {
	log     slog.Logger
	path    string
	latency time.Duration

	mtx    sync.Mutex
	cancel context.CancelFunc
	g      *errgroup.Group
	frames int

	cursor device.Cursor
}

var _ device.Backend = (*Backend)(nil)

// New returns an unopened backend.
func New() *Backend {
	return &Backend{log: slog.Disabled}
}

// Init implements device.Backend. Latency, when set, replaces the page
// period as the clock, so a capture can run faster than real time.
func (b *Backend) Init(cfg device.Config) (device.Caps, error) {
	if cfg.Path == "" {
		return device.Caps{}, ErrNoPath
	}
	b.log = cfg.Logger()
	b.path = cfg.Path
	b.latency = cfg.Latency

	return device.Caps{}, nil
}

// SetMixMode implements device.Backend.
func (b *Backend) SetMixMode(m device.Mode) device.Mode {
	return m
}

// BeginBufferedPlayback implements device.Backend. The file is truncated.
func (b *Backend) BeginBufferedPlayback(p device.Playback) (int, error) {
	f, err := os.Create(b.path)
	if err != nil {
		return 0, err
	}
	w, err := wav.NewWriter(f, p.Rate, p.Mode.Bits(), p.Mode.Channels())
	if err != nil {
		f.Close()
		return 0, err
	}

	period := p.Period()
	if b.latency > 0 {
		period = b.latency
	}

	b.cursor.Start(p)
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	pages := make(chan []byte, backlog)

	g.Go(func() error {
		defer close(pages)
		return b.clock(ctx, period, pages)
	})
	g.Go(func() error {
		return b.write(f, w, pages)
	})

	b.mtx.Lock()
	b.cancel, b.g = cancel, g
	b.mtx.Unlock()

	b.log.Debugf("wav: writing %d-bit %d-channel audio to %s", p.Mode.Bits(), p.Mode.Channels(), b.path)
	return p.Rate, nil
}

// clock plays one page per tick.
func (b *Backend) clock(ctx context.Context, period time.Duration, pages chan<- []byte) error {
	tick := time.NewTicker(period)
	defer tick.Stop()

	for {
		page := b.cursor.NextPage()
		if page == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case pages <- append([]byte(nil), page...):
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

// write drains pages into w and finishes the file when the clock stops.
func (b *Backend) write(f *os.File, w *wav.Writer, pages <-chan []byte) error {
	var werr error
	for page := range pages {
		if werr != nil {
			continue
		}
		if _, err := w.Write(page); err != nil {
			werr = err
			b.log.Errorf("wav: %v", err)
		}
	}

	b.mtx.Lock()
	b.frames = w.Frames()
	b.mtx.Unlock()

	return errors.Join(werr, w.Close(), f.Close())
}

// CurrentPosition implements device.Backend.
func (b *Backend) CurrentPosition() (int, bool) {
	return 0, false
}

// StopPlayback implements device.Backend. It returns once the file is
// complete.
func (b *Backend) StopPlayback() {
	b.mtx.Lock()
	cancel, g := b.cancel, b.g
	b.cancel, b.g = nil, nil
	b.mtx.Unlock()

	if g == nil {
		return
	}
	cancel()
	err := g.Wait()
	b.cursor.Stop()

	if err != nil {
		b.log.Errorf("wav: capture to %s failed: %v", b.path, err)
		return
	}
	b.log.Debugf("wav: wrote %d frames to %s", b.Frames(), b.path)
}

// Frames returns the number of frames written by the last finished
// capture.
func (b *Backend) Frames() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.frames
}

// Shutdown implements device.Backend.
func (b *Backend) Shutdown() error {
	b.StopPlayback()
	return nil
}
