// SPDX-License-Identifier: EPL-2.0

package mixer

import "slices"

// pool is the voice arena. Every slot is either on the free stack or in the
// active ordering, never both. The active ordering is sorted by priority,
// highest first, and keeps insertion order among equal priorities.
type pool struct {
	voices []voice
	free   []int
	active []int
	handle int
}

func newPool(n int) *pool {
	p := &pool{
		voices: make([]voice, n),
		free:   make([]int, 0, n),
		active: make([]int, 0, n),
	}
	for i := n - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// take pops a free slot.
func (p *pool) take() (int, bool) {
	n := len(p.free)
	if n == 0 {
		return 0, false
	}
	slot := p.free[n-1]
	p.free = p.free[:n-1]
	return slot, true
}

// insert places slot in the active ordering after every voice of greater or
// equal priority.
func (p *pool) insert(slot int) {
	pr := p.voices[slot].priority
	i := len(p.active)
	for i > 0 && pr > p.voices[p.active[i-1]].priority {
		i--
	}
	p.active = slices.Insert(p.active, i, slot)
}

// retire removes the voice at index i of the active ordering and returns
// its slot to the free stack.
func (p *pool) retire(i int) *voice {
	slot := p.active[i]
	p.active = slices.Delete(p.active, i, i+1)
	p.free = append(p.free, slot)

	v := &p.voices[slot]
	v.playing = false
	v.src = nil
	v.block8, v.block16 = nil, nil
	return v
}

// find returns the active index of handle, or -1.
func (p *pool) find(handle int) int {
	for i, slot := range p.active {
		if p.voices[slot].handle == handle {
			return i
		}
	}
	return -1
}

// lookup returns the active voice with handle, or nil.
func (p *pool) lookup(handle int) *voice {
	if i := p.find(handle); i >= 0 {
		return &p.voices[p.active[i]]
	}
	return nil
}

// nextHandle mints a handle no active voice uses.
func (p *pool) nextHandle() int {
	for {
		p.handle++
		if p.handle < MinVoiceHandle || p.handle > maxVoiceHandle {
			p.handle = MinVoiceHandle
		}
		if p.find(p.handle) < 0 {
			return p.handle
		}
	}
}
