// SPDX-License-Identifier: EPL-2.0

package mixer

type playbackStatus uint8

const (
	keepPlaying playbackStatus = iota
	noMoreData
)

// maxBlock is the largest block handed to the kernel, so that its length in
// 16.16 fits 32 bits.
const maxBlock = 0x8000

// blockSource feeds a voice. nextBlock installs the next block, rebasing the
// position against the previous one, or clears playing and reports
// noMoreData.
type blockSource interface {
	nextBlock(v *voice) playbackStatus
}

// rawSource plays a buffer once or loops part of it.
type rawSource struct {
	pcm8  []byte
	pcm16 []int16

	next      int
	remaining int

	looping   bool
	loopStart int
	loopSize  int
}

func newRawSource8(data []byte, loopStart, loopEnd int, looping bool) *rawSource {
	return &rawSource{
		pcm8:      data,
		remaining: len(data),
		looping:   looping,
		loopStart: loopStart,
		loopSize:  loopEnd - loopStart + 1,
	}
}

func newRawSource16(data []int16, loopStart, loopEnd int, looping bool) *rawSource {
	return &rawSource{
		pcm16:     data,
		remaining: len(data),
		looping:   looping,
		loopStart: loopStart,
		loopSize:  loopEnd - loopStart + 1,
	}
}

func (s *rawSource) nextBlock(v *voice) playbackStatus {
	if s.remaining <= 0 {
		if !s.looping {
			v.playing = false
			return noMoreData
		}

		s.next = s.loopStart
		s.remaining = s.loopSize
		v.position = 0
		v.length = 0
	}

	n := min(s.remaining, maxBlock)
	if s.pcm16 != nil {
		v.block16 = s.pcm16[s.next : s.next+n]
	} else {
		v.block8 = s.pcm8[s.next : s.next+n]
	}

	v.position -= v.length
	v.length = uint32(n) << 16
	s.next += n
	s.remaining -= n

	return keepPlaying
}

// demandFeedSource asks a generator for more 8-bit data each time the
// current block runs out.
type demandFeedSource struct {
	feed    func() []byte
	pending []byte
}

func (s *demandFeedSource) nextBlock(v *voice) playbackStatus {
	if len(s.pending) > 0 {
		v.position -= v.length
		s.take(v)
		return keepPlaying
	}

	v.position = 0
	v.length = 0
	if s.feed != nil {
		s.pending = s.feed()
	}
	if len(s.pending) == 0 {
		v.playing = false
		return noMoreData
	}

	s.take(v)
	return keepPlaying
}

func (s *demandFeedSource) take(v *voice) {
	n := min(len(s.pending), maxBlock)
	v.block8 = s.pending[:n]
	v.length = uint32(n) << 16
	s.pending = s.pending[n:]
}
