// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/ik5/audmix/device"
)

// layout is the geometry of the ring for one output mode.
type layout struct {
	split       bool
	stride      int
	pageSize    int
	pages       int
	rightOffset int
	silence     byte
}

func newLayout(mode device.Mode, split bool) layout {
	bps := mode.BytesPerSample()
	frame := bps * mode.Channels()

	l := layout{
		stride:      frame,
		pageSize:    MixBufferSize * frame,
		rightOffset: bps,
		silence:     mode.Silence(),
	}
	l.pages = TotalBufferSize / l.pageSize

	if split && mode.Channels() == 2 {
		l.split = true
		l.stride = bps
		l.pageSize /= 2
		l.rightOffset = l.pageSize * l.pages
	}
	return l
}

// ServiceBuffer mixes the page after the one the device is playing. It is
// called by ring devices at every page boundary and implements device.Host.
func (m *Mixer) ServiceBuffer() {
	m.mtx.Lock()
	done, cb := m.serviceLocked()
	m.mtx.Unlock()

	notify(cb, done)
}

// NextBlock implements device.Host for demand-feed devices. A page is mixed
// only when the requesting channel has already consumed the current one, so
// the left and right requests of one period share a single mix.
func (m *Mixer) NextBlock(ch int) []byte {
	m.mtx.Lock()
	if !m.playing {
		m.mtx.Unlock()
		return nil
	}

	var (
		done []uint64
		cb   func(uint64)
	)
	consumed := &m.leftPage
	if ch == 1 && m.lay.split {
		consumed = &m.rightPage
	}
	if *consumed == m.mixPage {
		done, cb = m.serviceLocked()
	}
	*consumed = m.mixPage

	start := m.mixPage * m.lay.pageSize
	if ch == 1 && m.lay.split {
		start += m.lay.rightOffset
	}
	block := m.ring[start : start+m.lay.pageSize]
	m.mtx.Unlock()

	notify(cb, done)
	return block
}

// serviceLocked advances the mix page, clears it and mixes every active
// voice into it. It returns the tokens of voices that finished.
func (m *Mixer) serviceLocked() ([]uint64, func(uint64)) {
	if !m.playing {
		return nil, nil
	}

	if m.caps.Addressable {
		if pos, ok := m.backend.CurrentPosition(); ok {
			m.mixPage = pos / m.lay.pageSize
		}
	}
	m.mixPage++
	if m.mixPage >= m.lay.pages {
		m.mixPage -= m.lay.pages
	}

	off := m.mixPage * m.lay.pageSize
	m.clearPage(off)
	if m.lay.split {
		m.clearPage(off + m.lay.rightOffset)
	}

	var done []uint64
	for i := 0; i < len(m.pool.active); {
		v := &m.pool.voices[m.pool.active[i]]
		m.mixVoice(v, off)

		if v.playing {
			i++
			continue
		}

		done = append(done, v.token)
		m.pool.retire(i)
	}

	m.ticks++
	if len(done) > 0 {
		m.log.Tracef("page %d: %d voices finished", m.mixPage, len(done))
	}

	return done, m.callback
}

func (m *Mixer) clearPage(off int) {
	page := m.ring[off : off+m.lay.pageSize]
	for i := range page {
		page[i] = m.lay.silence
	}
}

// notify fires the completion callback for each token. It must be called
// without the mixer lock held.
func notify(cb func(uint64), tokens []uint64) {
	if cb == nil {
		return
	}
	for _, t := range tokens {
		cb(t)
	}
}
