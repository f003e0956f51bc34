// SPDX-License-Identifier: EPL-2.0

// Package nulldev is a headless backend. Nothing is played: the service
// context runs only when the owner calls Step, which makes it the backend of
// choice for tests and for rendering without sound hardware.
package nulldev

import (
	"sync"

	"github.com/decred/slog"

	"github.com/ik5/audmix/device"
)

// Options tune what the device claims to be.
type Options struct {
	// DemandFeed makes the device pull blocks through Host.NextBlock with
	// split stereo pages.
	DemandFeed bool
	// Addressable makes CurrentPosition report the cursor. Ignored for
	// demand-feed devices.
	Addressable bool
	// ReverseStereo is reported as is in Caps.
	ReverseStereo bool
	// Downgrade lists mode flags the device refuses.
	Downgrade device.Mode
	// Rate overrides the negotiated sample rate when non-zero.
	Rate int
	// InitErr and BeginErr are returned by Init and BeginBufferedPlayback.
	InitErr  error
	BeginErr error
}

// Backend is a device.Backend stepped by hand.
type Backend struct {
	opts Options
	log  slog.Logger

	mtx      sync.Mutex
	pb       device.Playback
	started  bool
	position int
	fixed    bool

	cursor device.Cursor
}

var _ device.Backend = (*Backend)(nil)

func init() {
	device.Register(device.Null, func() device.Backend {
		return New(Options{Addressable: true})
	})
}

// New returns a backend with the given options.
func New(opts Options) *Backend {
	return &Backend{opts: opts, log: slog.Disabled}
}

// Init implements device.Backend.
func (b *Backend) Init(cfg device.Config) (device.Caps, error) {
	if b.opts.InitErr != nil {
		return device.Caps{}, b.opts.InitErr
	}
	b.log = cfg.Logger()

	return device.Caps{
		DemandFeed:    b.opts.DemandFeed,
		Addressable:   b.opts.Addressable && !b.opts.DemandFeed,
		ReverseStereo: b.opts.ReverseStereo,
	}, nil
}

// SetMixMode implements device.Backend.
func (b *Backend) SetMixMode(m device.Mode) device.Mode {
	return m &^ b.opts.Downgrade
}

// BeginBufferedPlayback implements device.Backend.
func (b *Backend) BeginBufferedPlayback(p device.Playback) (int, error) {
	if b.opts.BeginErr != nil {
		return 0, b.opts.BeginErr
	}

	b.mtx.Lock()
	b.pb = p
	b.started = true
	b.fixed = false
	b.mtx.Unlock()

	b.cursor.Start(p)
	b.cursor.NextPage()

	rate := p.Rate
	if b.opts.Rate != 0 {
		rate = b.opts.Rate
	}
	b.log.Debugf("null device: %d pages of %d bytes at %d Hz", p.Pages, p.PageSize, rate)

	return rate, nil
}

// CurrentPosition implements device.Backend.
func (b *Backend) CurrentPosition() (int, bool) {
	if !b.opts.Addressable || b.opts.DemandFeed {
		return 0, false
	}

	b.mtx.Lock()
	fixed, pos := b.fixed, b.position
	b.mtx.Unlock()
	if fixed {
		return pos, true
	}

	return b.cursor.Position()
}

// SetPosition pins the reported position, as a device whose counter moves
// without raising page interrupts would.
func (b *Backend) SetPosition(offset int) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.position = offset
	b.fixed = true
}

// StopPlayback implements device.Backend.
func (b *Backend) StopPlayback() {
	b.cursor.Stop()

	b.mtx.Lock()
	b.started = false
	b.mtx.Unlock()
}

// Shutdown implements device.Backend.
func (b *Backend) Shutdown() error {
	return nil
}

// Started reports whether playback is running.
func (b *Backend) Started() bool {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.started
}

// Playback returns the ring description handed to BeginBufferedPlayback.
func (b *Backend) Playback() device.Playback {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.pb
}

// Step plays one page. Ring devices advance the cursor, which services the
// host, and Step returns a copy of the page that was just mixed.
// Demand-feed devices request one block per channel and Step returns the
// blocks concatenated, left first. Step returns nil when stopped.
func (b *Backend) Step() []byte {
	b.mtx.Lock()
	pb, started := b.pb, b.started
	b.mtx.Unlock()

	if !started {
		return nil
	}

	if b.opts.DemandFeed {
		var out []byte
		for ch := range pb.Mode.Channels() {
			out = append(out, pb.Host.NextBlock(ch)...)
		}
		return out
	}

	if b.cursor.NextPage() == nil {
		return nil
	}

	next := (b.cursor.Page() + 1) % pb.Pages
	off := next * pb.PageSize

	return append([]byte(nil), pb.Ring[off:off+pb.PageSize]...)
}

// Run calls Step n times and returns the pages in order.
func (b *Backend) Run(n int) [][]byte {
	pages := make([][]byte, 0, n)
	for range n {
		pages = append(pages, b.Step())
	}
	return pages
}
