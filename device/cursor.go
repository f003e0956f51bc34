// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"
	"sync/atomic"
)

// Cursor walks the ring on behalf of a backend, servicing the Host every
// time it crosses into a new page. Pull-model devices drain it with Read,
// clocked devices step it a page at a time with NextPage.
type Cursor struct {
	mtx     sync.Mutex
	pb      Playback
	running bool
	primed  bool

	pos atomic.Int64
}

// Start resets the cursor to the first page of p.
func (c *Cursor) Start(p Playback) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.pb = p
	c.running = true
	c.primed = false
	c.pos.Store(0)
}

// Stop waits for any in-flight Read or NextPage and prevents further Host
// calls.
func (c *Cursor) Stop() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.running = false
}

// Running reports whether Start was called without a matching Stop.
func (c *Cursor) Running() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.running
}

// Position returns the byte offset being played. It never blocks.
func (c *Cursor) Position() (int, bool) {
	return int(c.pos.Load()), true
}

// Page returns the index of the page being played.
func (c *Cursor) Page() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.pb.PageSize == 0 {
		return 0
	}
	return int(c.pos.Load()) / c.pb.PageSize
}

// Read copies ring bytes into dst, servicing the host at every page
// boundary. A stopped cursor yields silence.
func (c *Cursor) Read(dst []byte) int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.running {
		fill(dst, c.pb.Mode.Silence())
		return len(dst)
	}

	ring, size := c.pb.Ring, c.pb.PageSize
	n := 0
	for n < len(dst) {
		cur := int(c.pos.Load())
		end := (cur/size + 1) * size
		copied := copy(dst[n:], ring[cur:end])
		n += copied
		cur += copied

		if cur < end {
			c.pos.Store(int64(cur))
			continue
		}

		if cur >= len(ring) {
			cur = 0
		}
		c.pos.Store(int64(cur))
		c.pb.Host.ServiceBuffer()
	}

	return n
}

// NextPage moves to the next page, services the host and returns the page
// that is now playing. The first call returns page 0 without servicing.
// The returned slice aliases the ring.
func (c *Cursor) NextPage() []byte {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.running {
		return nil
	}

	size := c.pb.PageSize
	cur := int(c.pos.Load())
	if c.primed {
		cur = (cur + size) % (size * c.pb.Pages)
		c.pos.Store(int64(cur))
		c.pb.Host.ServiceBuffer()
	}
	c.primed = true

	return c.pb.Ring[cur : cur+size]
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
