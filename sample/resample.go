// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler converts a Source to another sample rate with cubic
// interpolation over a sliding window of four frames. When downsampling, a
// one-pole low-pass filter is applied to incoming frames to tame aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64
	channels int

	// Output position lies between window[1] and window[2]. avail counts
	// the real frames from window[1] on; the rest repeat the last one.
	window [4][]float32
	avail  int
	primed bool
	pos    float64
	eof    bool

	in     []float32
	filter []float32
	seeded bool
}

// NewResampler returns src at dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    float64(src.SampleRate()) / float64(dstRate),
		channels: ch,
		in:       make([]float32, ch),
	}
	for i := range r.window {
		r.window[i] = make([]float32, ch)
	}
	if r.ratio > 1 {
		r.filter = make([]float32, ch)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

// pull rotates the window left by one frame and loads the next source
// frame into window[3]. Once the source is exhausted the previous frame is
// repeated and false is returned.
func (r *Resampler) pull() (bool, error) {
	first := r.window[0]
	copy(r.window[:3], r.window[1:])
	r.window[3] = first

	if !r.eof {
		n, err := r.src.ReadSamples(r.in)
		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case err != nil:
			return false, fmt.Errorf("resampler: %w", err)
		}
		if n == r.channels {
			r.load(r.in)
			return true, nil
		}
		r.eof = true
	}

	copy(r.window[3], r.window[2])
	return false, nil
}

func (r *Resampler) load(frame []float32) {
	dst := r.window[3]
	if r.filter == nil {
		copy(dst, frame)
		return
	}

	if !r.seeded {
		copy(r.filter, frame)
		r.seeded = true
	}
	for c, v := range frame {
		v = 0.5*v + 0.5*r.filter[c]
		r.filter[c] = v
		dst[c] = v
	}
}

func (r *Resampler) prime() error {
	r.primed = true
	for range 3 {
		ok, err := r.pull()
		if err != nil {
			return err
		}
		if ok {
			r.avail++
		}
	}
	copy(r.window[0], r.window[1])
	return nil
}

// ReadSamples fills dst with interleaved frames at the target rate.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			ok, err := r.pull()
			if err != nil {
				return written * r.channels, err
			}
			if !ok {
				r.avail--
			}
		}
		if r.avail < 2 {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
