// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"slices"
	"testing"
)

// checkPool fails unless every slot is in exactly one of free and active.
func checkPool(t *testing.T, p *pool) {
	t.Helper()

	seen := make([]int, len(p.voices))
	for _, s := range p.free {
		seen[s]++
	}
	for _, s := range p.active {
		seen[s]++
	}
	for slot, n := range seen {
		if n != 1 {
			t.Errorf("slot %d appears %d times in free+active", slot, n)
		}
	}
}

func TestPool_InsertOrdersByPriority(t *testing.T) {
	t.Parallel()

	p := newPool(5)
	for i, pr := range []int{3, 5, 3, 1, 5} {
		slot, ok := p.take()
		if !ok {
			t.Fatalf("take() %d failed", i)
		}
		p.voices[slot] = voice{handle: i + 1, priority: pr}
		p.insert(slot)
	}
	checkPool(t, p)

	var got []int
	for _, slot := range p.active {
		got = append(got, p.voices[slot].handle)
	}
	// Highest first, equal priorities in insertion order.
	if want := []int{2, 5, 1, 3, 4}; !slices.Equal(got, want) {
		t.Errorf("active handles = %v, want %v", got, want)
	}

	if _, ok := p.take(); ok {
		t.Error("take() on an exhausted pool succeeded")
	}
}

func TestPool_Retire(t *testing.T) {
	t.Parallel()

	p := newPool(3)
	for i := range 3 {
		slot, _ := p.take()
		p.voices[slot] = voice{handle: i + 1, token: uint64(10 + i), playing: true}
		p.insert(slot)
	}

	v := p.retire(p.find(2))
	if v.token != 11 || v.playing {
		t.Errorf("retire() = token %d playing %v, want 11 false", v.token, v.playing)
	}
	if p.lookup(2) != nil {
		t.Error("lookup(2) after retire != nil")
	}
	if p.find(3) != 1 {
		t.Errorf("find(3) = %d, want 1", p.find(3))
	}
	checkPool(t, p)
}

func TestPool_NextHandle(t *testing.T) {
	t.Parallel()

	p := newPool(2)
	slot, _ := p.take()
	p.voices[slot] = voice{handle: MinVoiceHandle}
	p.insert(slot)

	p.handle = maxVoiceHandle
	if got := p.nextHandle(); got != MinVoiceHandle+1 {
		t.Errorf("nextHandle() after wrap = %d, want %d", got, MinVoiceHandle+1)
	}
	if got := p.nextHandle(); got != MinVoiceHandle+2 {
		t.Errorf("nextHandle() = %d, want %d", got, MinVoiceHandle+2)
	}
}
