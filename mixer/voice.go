// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/ik5/audmix/tables"
)

// mixKind selects the kernel variant for a voice. It is recomputed whenever
// the output mode or the voice's volumes change.
type mixKind uint8

const (
	mixSilent mixKind = iota
	mix8Mono8
	mix8Mono16
	mix8Stereo8
	mix8Stereo16
	mix16Mono8
	mix16Mono16
	mix16Stereo8
	mix16Stereo16
)

// maxRate keeps position + span inside 32 bits for the largest block.
const maxRate = 1 << 22

type voice struct {
	handle   int
	priority int
	token    uint64
	playing  bool

	src     blockSource
	bits    int
	block8  []byte
	block16 []int16

	// 16.16 fixed point, in samples of the current block.
	position uint32
	length   uint32
	rate     uint32
	span     uint32

	samplingRate int
	pitchScale   uint32

	left, right int
	kind        mixKind
	rightOnly   bool
}

// setRate derives the step from the source rate, the pitch offset in cents
// and the mix rate.
func (v *voice) setRate(samplingRate, pitchOffset, mixRate int) {
	v.samplingRate = samplingRate
	v.pitchScale = tables.PitchScale(pitchOffset)

	r := uint64(max(samplingRate, 0)) * uint64(v.pitchScale) / uint64(max(mixRate, 1))
	v.rate = uint32(min(max(r, 1), maxRate))
	v.span = v.rate * (MixBufferSize - 1)
}

// selectKind picks the variant for the output mode. A quiet side on a
// stereo device is mixed as mono into the other side.
func (v *voice) selectKind(stereo, out16 bool) {
	v.rightOnly = false

	kind := mix8Mono8
	if out16 {
		kind = mix16Mono8
	}

	switch {
	case !stereo:
		if v.left == 0 {
			v.kind = mixSilent
			return
		}
	case v.left == 0 && v.right == 0:
		v.kind = mixSilent
		return
	case v.left == 0:
		v.rightOnly = true
	case v.right == 0:
	default:
		kind += 2
	}

	if v.bits == 16 {
		kind++
	}
	v.kind = kind
}

// gains returns the table rows for the current levels. For right-only
// voices the row that matters is returned first.
func (v *voice) gains(vol *tables.Volume, out16 bool) (first, second *tables.Row) {
	l, r := v.left, v.right
	if v.rightOnly {
		l = r
	}
	if out16 {
		return vol.Row16(l), vol.Row16(r)
	}
	return vol.Row8(l), vol.Row8(r)
}
