// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
	"github.com/ik5/audmix/tables"
)

// PlayOptions describe how a new voice is played.
type PlayOptions struct {
	// Rate is the sample rate of the data in Hz.
	Rate int
	// PitchOffset shifts the pitch, in cents.
	PitchOffset int
	// Volume is used on mono output, Left and Right on stereo. All are
	// 0..255.
	Volume      int
	Left, Right int
	// Priority decides eviction order when the pool is exhausted.
	Priority int
	// Token is passed to the completion callback.
	Token uint64
}

// PlayRaw plays unsigned 8-bit data once.
func (m *Mixer) PlayRaw(data []byte, opts PlayOptions) (int, error) {
	return m.play(newRawSource8(data, 0, 0, false), 8, opts)
}

// PlayLoopedRaw plays unsigned 8-bit data, then repeats the samples
// loopStart..loopEnd inclusive until EndLooping or Kill.
func (m *Mixer) PlayLoopedRaw(data []byte, loopStart, loopEnd int, opts PlayOptions) (int, error) {
	if err := checkLoop(len(data), loopStart, loopEnd); err != nil {
		return 0, m.fail(err)
	}
	return m.play(newRawSource8(data, loopStart, loopEnd, true), 8, opts)
}

// PlayRaw16 plays signed 16-bit data once.
func (m *Mixer) PlayRaw16(data []int16, opts PlayOptions) (int, error) {
	return m.play(newRawSource16(data, 0, 0, false), 16, opts)
}

// PlayLoopedRaw16 is PlayLoopedRaw for signed 16-bit data.
func (m *Mixer) PlayLoopedRaw16(data []int16, loopStart, loopEnd int, opts PlayOptions) (int, error) {
	if err := checkLoop(len(data), loopStart, loopEnd); err != nil {
		return 0, m.fail(err)
	}
	return m.play(newRawSource16(data, loopStart, loopEnd, true), 16, opts)
}

// PlayDemandFeed plays unsigned 8-bit blocks returned by feed. feed is
// called from the device goroutine with the mixer locked, so it must not
// call back into the mixer. An empty block ends the voice.
func (m *Mixer) PlayDemandFeed(feed func() []byte, opts PlayOptions) (int, error) {
	return m.play(&demandFeedSource{feed: feed}, 8, opts)
}

// PlaySample plays a decoded asset. A zero opts.Rate uses the asset's rate.
func (m *Mixer) PlaySample(pcm *sample.PCM, opts PlayOptions) (int, error) {
	if opts.Rate == 0 {
		opts.Rate = pcm.Rate
	}
	if pcm.Bits == 16 {
		return m.PlayRaw16(pcm.Data16, opts)
	}
	return m.PlayRaw(pcm.Data8, opts)
}

func checkLoop(n, start, end int) error {
	if start < 0 || end < start || end >= n {
		return fmt.Errorf("%w: %d..%d of %d samples", ErrInvalidLoop, start, end, n)
	}
	return nil
}

func (m *Mixer) play(src blockSource, bits int, opts PlayOptions) (int, error) {
	if opts.Rate <= 0 {
		return 0, m.fail(fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, opts.Rate))
	}

	m.mtx.Lock()
	if !m.installed {
		m.mtx.Unlock()
		return 0, m.fail(ErrNotInstalled)
	}

	var evicted []uint64
	slot, ok := m.pool.take()
	if !ok && len(m.pool.active) > 0 {
		v := m.pool.retire(0)
		m.log.Warnf("no free voices, evicting voice %d (priority %d)", v.handle, v.priority)
		evicted = append(evicted, v.token)
		slot, ok = m.pool.take()
	}
	cb := m.callback
	if !ok {
		m.mtx.Unlock()
		return 0, m.fail(ErrNoVoices)
	}

	v := &m.pool.voices[slot]
	*v = voice{
		handle:   m.pool.nextHandle(),
		priority: opts.Priority,
		token:    opts.Token,
		playing:  true,
		src:      src,
		bits:     bits,
	}
	v.setRate(opts.Rate, opts.PitchOffset, m.mixRate)
	m.setLevels(v, opts.Volume, opts.Left, opts.Right)
	m.pool.insert(slot)
	handle := v.handle
	m.mtx.Unlock()

	notify(cb, evicted)
	return handle, nil
}

// setLevels maps caller volumes to table levels and picks the kernel
// variant.
func (m *Mixer) setLevels(v *voice, vol, left, right int) {
	if !m.stereo() {
		left, right = vol, vol
	}
	if m.reversed {
		left, right = right, left
	}
	v.left = tables.Level(left)
	v.right = tables.Level(right)
	v.selectKind(m.stereo(), m.out16())
}

// withVoice runs fn on the voice with handle under the lock.
func (m *Mixer) withVoice(handle int, fn func(v *voice)) error {
	m.mtx.Lock()
	var v *voice
	if m.pool != nil {
		v = m.pool.lookup(handle)
	}
	if v != nil {
		fn(v)
	}
	m.mtx.Unlock()

	if v == nil {
		return m.notFound(handle)
	}
	return nil
}

// SetPitch changes the pitch offset of a voice, in cents.
func (m *Mixer) SetPitch(handle, offset int) error {
	return m.withVoice(handle, func(v *voice) {
		v.setRate(v.samplingRate, offset, m.mixRate)
	})
}

// SetFrequency changes the source sample rate of a voice. The rate must be
// positive.
func (m *Mixer) SetFrequency(handle, rate int) error {
	if rate <= 0 {
		return m.fail(fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, rate))
	}
	return m.withVoice(handle, func(v *voice) {
		v.setRate(rate, 0, m.mixRate)
	})
}

// SetPan sets the volumes of a voice. vol is used on mono output.
func (m *Mixer) SetPan(handle, vol, left, right int) error {
	return m.withVoice(handle, func(v *voice) {
		m.setLevels(v, vol, left, right)
	})
}

// Pan3D positions a voice on a circle of 32 angles around the listener.
// Negative distances place the voice behind.
func (m *Mixer) Pan3D(handle, angle, distance int) error {
	if distance < 0 {
		distance = -distance
		angle += tables.PanPositions / 2
	}
	level := tables.Level(distance)
	p := m.pan.Lookup(angle&tables.MaxPanPosition, level)
	mid := max(0, tables.MaxTotalVolume-distance)

	return m.SetPan(handle, mid, int(p.Left), int(p.Right))
}

// EndLooping lets a looping voice run to the end of its data instead of
// repeating. It has no effect on other voices.
func (m *Mixer) EndLooping(handle int) error {
	return m.withVoice(handle, func(v *voice) {
		if s, ok := v.src.(*rawSource); ok {
			s.looping = false
		}
	})
}

// Kill stops a voice and fires its completion callback.
func (m *Mixer) Kill(handle int) error {
	m.mtx.Lock()
	i := -1
	if m.pool != nil {
		i = m.pool.find(handle)
	}
	if i < 0 {
		m.mtx.Unlock()
		return m.notFound(handle)
	}
	token := m.pool.retire(i).token
	cb := m.callback
	m.mtx.Unlock()

	notify(cb, []uint64{token})
	return nil
}

// KillAll stops every voice, highest priority first.
func (m *Mixer) KillAll() error {
	m.mtx.Lock()
	done := m.retireAllLocked()
	cb := m.callback
	m.mtx.Unlock()

	notify(cb, done)
	return nil
}

// VoicePlaying reports whether handle is active.
func (m *Mixer) VoicePlaying(handle int) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.pool != nil && m.pool.find(handle) >= 0
}

// VoicesPlaying returns the number of active voices.
func (m *Mixer) VoicesPlaying() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.pool == nil {
		return 0
	}
	return len(m.pool.active)
}

// VoiceAvailable reports whether a voice of the given priority could be
// started: a slot is free or some active voice can be evicted. Eviction does
// not compare priorities, so priority does not affect the answer.
func (m *Mixer) VoiceAvailable(priority int) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.pool == nil {
		return false
	}
	return len(m.pool.free) > 0 || len(m.pool.active) > 0
}

// SetCallback registers the function invoked with a voice's token when it
// completes or is killed. It runs without the mixer lock held.
func (m *Mixer) SetCallback(fn func(token uint64)) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.callback = fn
}

// SetVolume sets the master volume, 0..255.
func (m *Mixer) SetVolume(level int) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.volume.Build(level)
}

// MasterVolume returns the master volume.
func (m *Mixer) MasterVolume() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.volume.Total()
}

// SetReverseStereo swaps left and right for voices panned afterwards.
func (m *Mixer) SetReverseStereo(reverse bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.reversed = reverse
}

// StereoReversed reports whether left and right are swapped.
func (m *Mixer) StereoReversed() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.reversed
}

// MixRate returns the sample rate the device negotiated.
func (m *Mixer) MixRate() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.mixRate
}

// Mode returns the output format in use.
func (m *Mixer) Mode() device.Mode {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.mode
}
