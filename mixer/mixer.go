// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/tables"
)

// testPlaybackTimeout bounds TestPlayback when ctx has no earlier deadline.
const testPlaybackTimeout = 2 * time.Second

// Mixer is the mixing context: the voice arena, the ring and the device
// that consumes it. The zero value is not usable; create one with New.
//
// Foreground methods may be called from any goroutine. The device calls
// ServiceBuffer or NextBlock from its own goroutine; both contend for the
// same lock as the foreground, and completion callbacks run after it is
// released.
type Mixer struct {
	log slog.Logger

	mtx       sync.Mutex
	installed bool
	playing   bool

	family   device.Family
	backend  device.Backend
	caps     device.Caps
	mode     device.Mode
	lay      layout
	ring     []byte
	mixPage  int
	leftPage int
	// rightPage is only used with split stereo.
	rightPage int
	ticks     uint64

	requestedRate int
	mixRate       int
	reversed      bool

	volume   *tables.Volume
	pan      *tables.PanTable
	pool     *pool
	callback func(uint64)

	errMtx  sync.Mutex
	lastErr error
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithLogger sets the logger used by the mixer and, unless the config
// carries its own, by the device.
func WithLogger(log slog.Logger) Option {
	return func(m *Mixer) {
		if log != nil {
			m.log = log
		}
	}
}

// New returns an uninstalled mixer.
func New(opts ...Option) *Mixer {
	m := &Mixer{
		log:    slog.Disabled,
		volume: tables.NewVolume(tables.MaxTotalVolume),
		pan:    tables.NewPanTable(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init opens the device, reserves the voice arena and the ring, and starts
// playback. An installed mixer is shut down first. On failure everything
// reserved so far is released and the error is kept as the last error.
func (m *Mixer) Init(cfg Config) error {
	if m.Installed() {
		if err := m.Shutdown(); err != nil {
			m.log.Warnf("shutdown before re-init: %v", err)
		}
	}
	m.fail(nil)

	if err := cfg.Validate(); err != nil {
		return m.fail(err)
	}
	if cfg.MemoryLimit > 0 && cfg.Footprint() > cfg.MemoryLimit {
		return m.fail(fmt.Errorf("%w: need %d bytes, limit is %d",
			ErrNoMem, cfg.Footprint(), cfg.MemoryLimit))
	}

	voices := newPool(cfg.Voices)
	ring := make([]byte, TotalBufferSize)

	backend := cfg.Backend
	if backend == nil {
		var err error
		backend, err = device.Open(cfg.Family)
		if err != nil {
			return m.fail(fmt.Errorf("%w: %s", ErrUnsupportedCard, cfg.Family))
		}
	}

	devCfg := cfg.Device
	if devCfg.Log == nil {
		devCfg.Log = m.log
	}
	caps, err := backend.Init(devCfg)
	if err != nil {
		return m.fail(cfg.Family.Wrap(err))
	}

	m.mtx.Lock()
	m.family = cfg.Family
	m.backend = backend
	m.caps = caps
	m.reversed = caps.ReverseStereo
	m.pool = voices
	m.ring = ring
	m.callback = nil
	m.requestedRate = cfg.SampleRate
	m.mixRate = cfg.SampleRate
	m.volume.Build(tables.MaxTotalVolume)
	m.setMixModeLocked(device.NewMode(cfg.Channels, cfg.Bits))
	m.installed = true
	mode := m.mode
	m.mtx.Unlock()

	m.log.Infof("initialized %s device: %d voices, %d-bit %s",
		cfg.Family, cfg.Voices, mode.Bits(), channelName(mode))

	if err := m.StartPlayback(); err != nil {
		if serr := m.Shutdown(); serr != nil {
			m.log.Warnf("shutdown after failed start: %v", serr)
		}
		return m.fail(err)
	}

	return nil
}

// Shutdown stops playback, releases the device and frees the arena and the
// ring. Shutting down an uninstalled mixer is a no-op.
func (m *Mixer) Shutdown() error {
	if !m.Installed() {
		return nil
	}

	m.StopPlayback()

	m.mtx.Lock()
	backend, family := m.backend, m.family
	m.installed = false
	m.backend = nil
	m.callback = nil
	m.pool = nil
	m.ring = nil
	m.mtx.Unlock()

	m.log.Infof("shut down %s device", family)

	if err := backend.Shutdown(); err != nil {
		return m.fail(family.Wrap(err))
	}
	return nil
}

// Installed reports whether Init succeeded and Shutdown was not called.
func (m *Mixer) Installed() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.installed
}

// StartPlayback clears the ring and hands it to the device.
func (m *Mixer) StartPlayback() error {
	m.mtx.Lock()
	if !m.installed {
		m.mtx.Unlock()
		return m.fail(ErrNotInstalled)
	}
	if m.playing {
		m.mtx.Unlock()
		return nil
	}

	for i := range m.ring {
		m.ring[i] = m.lay.silence
	}
	m.mixPage = 1
	m.leftPage, m.rightPage = -1, -1
	m.playing = true

	backend, family := m.backend, m.family
	p := device.Playback{
		Ring:     m.ring,
		Split:    m.lay.split,
		PageSize: m.lay.pageSize,
		Pages:    m.lay.pages,
		Rate:     m.requestedRate,
		Mode:     m.mode,
		Host:     m,
	}
	m.mtx.Unlock()

	rate, err := backend.BeginBufferedPlayback(p)

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if err != nil {
		m.playing = false
		return m.fail(family.Wrap(err))
	}
	if rate > 0 {
		m.mixRate = rate
	}
	m.log.Infof("playback started at %d Hz, %d pages of %d bytes",
		m.mixRate, m.lay.pages, m.lay.pageSize)

	return nil
}

// StopPlayback halts the device and retires every voice, firing their
// completion callbacks.
func (m *Mixer) StopPlayback() {
	m.mtx.Lock()
	if !m.playing {
		m.mtx.Unlock()
		return
	}
	m.playing = false
	backend := m.backend
	m.mtx.Unlock()

	backend.StopPlayback()

	m.mtx.Lock()
	done := m.retireAllLocked()
	cb := m.callback
	m.mtx.Unlock()

	notify(cb, done)
}

// TestPlayback waits until the device has serviced a page boundary. Failures
// are diagnosed from the device position: stuck at zero is a DMA failure, a
// moving position without boundary events is an IRQ failure.
func (m *Mixer) TestPlayback(ctx context.Context) error {
	m.mtx.Lock()
	installed, caps, start := m.installed, m.caps, m.ticks
	m.mtx.Unlock()

	if !installed {
		return m.fail(ErrNotInstalled)
	}
	if caps.DemandFeed {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, testPlaybackTimeout)
	defer cancel()

	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return m.fail(m.diagnose())
		case <-tick.C:
			m.mtx.Lock()
			moved := m.ticks != start
			m.mtx.Unlock()
			if moved {
				return nil
			}
		}
	}
}

func (m *Mixer) diagnose() error {
	m.mtx.Lock()
	backend, mode := m.backend, m.mode
	m.mtx.Unlock()

	if backend != nil {
		if pos, ok := backend.CurrentPosition(); ok && pos > 0 {
			return ErrIrqFailure
		}
	}
	if mode.Bits() == 16 {
		return ErrDMA16Failure
	}
	return ErrDMAFailure
}

// setMixModeLocked negotiates the output format and rebuilds the layout.
func (m *Mixer) setMixModeLocked(want device.Mode) {
	m.mode = m.backend.SetMixMode(want)
	m.lay = newLayout(m.mode, m.caps.DemandFeed)

	for _, slot := range m.pool.active {
		m.pool.voices[slot].selectKind(m.stereo(), m.out16())
	}
}

func (m *Mixer) retireAllLocked() []uint64 {
	if m.pool == nil {
		return nil
	}

	var done []uint64
	for len(m.pool.active) > 0 {
		done = append(done, m.pool.retire(0).token)
	}
	return done
}

func (m *Mixer) stereo() bool { return m.mode.Channels() == 2 }
func (m *Mixer) out16() bool  { return m.mode.Bits() == 16 }

func channelName(mode device.Mode) string {
	if mode.Channels() == 2 {
		return "stereo"
	}
	return "mono"
}
