// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"encoding/binary"

	"github.com/ik5/audmix/tables"
)

// mixVoice adds one page of v to the ring at byte offset off.
func (m *Mixer) mixVoice(v *voice, off int) {
	if v.length == 0 && v.src.nextBlock(v) != keepPlaying {
		return
	}

	if v.rightOnly {
		off += m.lay.rightOffset
	}

	length := MixBufferSize
	span := v.span
	for length > 0 {
		pos, rate := v.position, v.rate

		count := length
		if uint64(pos)+uint64(span) >= uint64(v.length) {
			// The block ends inside this run.
			if pos >= v.length {
				v.src.nextBlock(v)
				return
			}
			count = int((v.length - pos + rate - 1) / rate)
		}

		// Runs are mixed in pairs. A longer odd run steps over its last
		// input sample, a run of one mixes it.
		n := count &^ 1
		if count == 1 {
			n = 1
		}
		pos, off = m.mixRun(v, off, pos, rate, n)
		if count > n {
			pos += rate
			count--
		}
		v.position = pos
		length -= count

		if v.position >= v.length {
			if v.src.nextBlock(v) != keepPlaying {
				return
			}
			if length > 0 {
				span = v.rate * uint32(length-1)
			}
		}
	}
}

// mixRun mixes n output frames starting at input position pos and returns
// the advanced position and offset.
func (m *Mixer) mixRun(v *voice, off int, pos, rate uint32, n int) (uint32, int) {
	r := run{
		buf:    m.ring,
		off:    off,
		stride: m.lay.stride,
		right:  m.lay.rightOffset,
		pos:    pos,
		rate:   rate,
		n:      n,
	}
	if v.kind == mixSilent {
		return pos + rate*uint32(n), off + n*r.stride
	}

	g1, g2 := v.gains(m.volume, m.mode.Bits() == 16)
	switch v.kind {
	case mix8Mono8:
		r.mono8(v.block8, g1)
	case mix8Mono16:
		r.mono8From16(v.block16, g1)
	case mix8Stereo8:
		r.stereo8(v.block8, g1, g2)
	case mix8Stereo16:
		r.stereo8From16(v.block16, g1, g2)
	case mix16Mono8:
		r.mono16(v.block8, g1)
	case mix16Mono16:
		r.mono16From16(v.block16, g1)
	case mix16Stereo8:
		r.stereo16(v.block8, g1, g2)
	case mix16Stereo16:
		r.stereo16From16(v.block16, g1, g2)
	}

	return r.pos, r.off
}

type run struct {
	buf    []byte
	off    int
	stride int
	right  int
	pos    uint32
	rate   uint32
	n      int
}

// hi maps a signed 16-bit sample to the unsigned index of its high byte.
func hi(s int16) uint8 { return uint8(s>>8) ^ 0x80 }

func add8(buf []byte, i int, g int16) {
	buf[i] = tables.Clip8(int(buf[i]) + int(g))
}

func add16(buf []byte, i int, g int16) {
	s := int(int16(binary.LittleEndian.Uint16(buf[i:])))
	binary.LittleEndian.PutUint16(buf[i:], uint16(tables.Clip16(s+int(g))))
}

func (r *run) mono8(src []byte, g *tables.Row) {
	for range r.n {
		add8(r.buf, r.off, g[src[r.pos>>16]])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) mono8From16(src []int16, g *tables.Row) {
	for range r.n {
		add8(r.buf, r.off, g[hi(src[r.pos>>16])])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) stereo8(src []byte, gl, gr *tables.Row) {
	for range r.n {
		s := src[r.pos>>16]
		add8(r.buf, r.off, gl[s])
		add8(r.buf, r.off+r.right, gr[s])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) stereo8From16(src []int16, gl, gr *tables.Row) {
	for range r.n {
		s := hi(src[r.pos>>16])
		add8(r.buf, r.off, gl[s])
		add8(r.buf, r.off+r.right, gr[s])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) mono16(src []byte, g *tables.Row) {
	for range r.n {
		add16(r.buf, r.off, g[src[r.pos>>16]])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) mono16From16(src []int16, g *tables.Row) {
	for range r.n {
		add16(r.buf, r.off, g[hi(src[r.pos>>16])])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) stereo16(src []byte, gl, gr *tables.Row) {
	for range r.n {
		s := src[r.pos>>16]
		add16(r.buf, r.off, gl[s])
		add16(r.buf, r.off+r.right, gr[s])
		r.pos += r.rate
		r.off += r.stride
	}
}

func (r *run) stereo16From16(src []int16, gl, gr *tables.Row) {
	for range r.n {
		s := hi(src[r.pos>>16])
		add16(r.buf, r.off, gl[s])
		add16(r.buf, r.off+r.right, gr[s])
		r.pos += r.rate
		r.off += r.stride
	}
}
