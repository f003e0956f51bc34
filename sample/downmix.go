// SPDX-License-Identifier: EPL-2.0

package sample

import "fmt"

// Downmix averages the channels of a Source into one.
type Downmix struct {
	src Source
	tmp []float32
}

// NewDownmix wraps src. Mono sources pass through untouched.
func NewDownmix(src Source) *Downmix {
	return &Downmix{src: src}
}

func (d *Downmix) SampleRate() int { return d.src.SampleRate() }
func (d *Downmix) Channels() int   { return 1 }
func (d *Downmix) BufSize() int    { return d.src.BufSize() }

func (d *Downmix) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("downmix: %w", err)
	}
	return nil
}

// ReadSamples fills dst with one value per source frame.
func (d *Downmix) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := d.src.Channels()
	if channels == 1 {
		return d.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(d.tmp) < need {
		d.tmp = make([]float32, need)
	}
	d.tmp = d.tmp[:need]

	n, err := d.src.ReadSamples(d.tmp)
	frames := n / channels

	if channels == 2 {
		for f := range frames {
			dst[f] = (d.tmp[2*f] + d.tmp[2*f+1]) * 0.5
		}
		return frames, err
	}

	inv := 1 / float32(channels)
	for f := range frames {
		var sum float32
		for _, v := range d.tmp[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum * inv
	}

	return frames, err
}
