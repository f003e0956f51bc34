// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audmix/utils"
)

// PCM is mono integer audio ready for the mixer. Exactly one of Data8 and
// Data16 is set, according to Bits.
type PCM struct {
	Rate int
	Bits int
	// Data8 holds unsigned samples centred on 0x80.
	Data8 []byte
	// Data16 holds signed samples.
	Data16 []int16
}

// Len returns the number of samples.
func (p *PCM) Len() int {
	if p.Bits == 16 {
		return len(p.Data16)
	}
	return len(p.Data8)
}

// Duration returns the playing time at p.Rate.
func (p *PCM) Duration() time.Duration {
	if p.Rate <= 0 {
		return 0
	}
	return time.Duration(p.Len()) * time.Second / time.Duration(p.Rate)
}

// Options control Read.
type Options struct {
	// Rate resamples to the given rate when non-zero and different from
	// the source.
	Rate int
	// Bits is 8 or 16. Zero means 16.
	Bits int
	// BufSize is the read size in values. Zero uses the source's BufSize.
	BufSize int
}

// Read drains src into mono PCM. It does not close src.
func Read(src Source, opts Options) (*PCM, error) {
	bits := opts.Bits
	if bits == 0 {
		bits = 16
	}
	if bits != 8 && bits != 16 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBits, bits)
	}
	if opts.Rate < 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}

	var pipe Source = src
	if opts.Rate != 0 && opts.Rate != src.SampleRate() {
		pipe = NewResampler(pipe, opts.Rate)
	}
	pipe = NewDownmix(pipe)

	size := opts.BufSize
	if size <= 0 {
		size = src.BufSize()
	}
	if size <= 0 {
		size = 4096
	}

	pcm := &PCM{Rate: pipe.SampleRate(), Bits: bits}
	buf := make([]float32, size)
	for {
		n, err := pipe.ReadSamples(buf)
		for _, v := range buf[:n] {
			if bits == 16 {
				pcm.Data16 = append(pcm.Data16, utils.Float32ToInt16(v))
			} else {
				pcm.Data8 = append(pcm.Data8, utils.Float32ToUint8(v))
			}
		}

		if errors.Is(err, io.EOF) {
			return pcm, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}
		if n == 0 {
			// A source that makes no progress without EOF would spin.
			return pcm, nil
		}
	}
}
