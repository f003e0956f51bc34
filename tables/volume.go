// SPDX-License-Identifier: EPL-2.0

package tables

const (
	// MaxVolume is the highest volume level index.
	MaxVolume = 63
	// Levels is the number of discrete volume levels.
	Levels = MaxVolume + 1
	// MaxTotalVolume is the top of the caller-facing 0..255 volume scale.
	MaxTotalVolume = 255
)

// Row is one gain curve: the output value for every 8-bit sample index.
// Index 0x80 is the zero crossing.
type Row [256]int16

// Volume holds a gain curve per level for both output domains.
type Volume struct {
	total int
	out8  [Levels]Row
	out16 [Levels]Row
}

// NewVolume returns tables built for the given master volume.
func NewVolume(total int) *Volume {
	v := &Volume{}
	v.Build(total)
	return v
}

// Build recomputes every level for a new master volume (0..255).
func (v *Volume) Build(total int) {
	v.total = clamp(total, 0, MaxTotalVolume)

	for level := range Levels {
		scaled := level * v.total / MaxTotalVolume
		for i := range 256 {
			v.out8[level][i] = int16((i - 0x80) * scaled / MaxVolume)
			v.out16[level][i] = int16((i*256 - 0x8000) * scaled / MaxVolume)
		}
	}
}

// Total is the master volume the tables were built for.
func (v *Volume) Total() int { return v.total }

// Row8 returns the 8-bit output curve for level.
func (v *Volume) Row8(level int) *Row { return &v.out8[clamp(level, 0, MaxVolume)] }

// Row16 returns the 16-bit output curve for level.
func (v *Volume) Row16(level int) *Row { return &v.out16[clamp(level, 0, MaxVolume)] }

// Level maps a caller volume on the 0..255 scale to a table level.
func Level(vol int) int {
	return (clamp(vol, 0, MaxTotalVolume) * Levels) >> 8
}

// harshClip saturates an 8-bit mix sum. Index is sum+128.
var harshClip = func() (t [512]uint8) {
	for i := range 128 {
		t[i] = 0
		t[i+384] = 255
	}
	for i := range 256 {
		t[i+128] = uint8(i)
	}
	return t
}()

// Clip8 saturates an unsigned 8-bit sample plus a signed gain value into
// 0..255. x must be within [-128, 383].
func Clip8(x int) uint8 { return harshClip[x+128] }

// Clip16 saturates x into the int16 range.
func Clip16(x int) int16 { return int16(clamp(x, -32768, 32767)) }

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
