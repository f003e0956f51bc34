// SPDX-License-Identifier: EPL-2.0

package tables

import "math"

const (
	// FixedOne is 1.0 in 16.16 fixed point.
	FixedOne = 1 << 16

	maxDetune    = 25
	centsPerNote = 100
	centsPerOct  = 12 * centsPerNote
)

// pitchTable holds 2^(n/300) for every note and detune step of one octave.
var pitchTable = func() (t [12][maxDetune]uint32) {
	for note := range 12 {
		for detune := range maxDetune {
			exp := float64(note*maxDetune+detune) / float64(12*maxDetune)
			t[note][detune] = uint32(FixedOne * math.Pow(2, exp))
		}
	}
	return t
}()

// PitchScale converts a pitch offset in cents into a 16.16 multiplier.
// Detune resolution is four cents.
func PitchScale(offset int) uint32 {
	if offset == 0 {
		return pitchTable[0][0]
	}

	shift := offset % centsPerOct
	if shift < 0 {
		shift += centsPerOct
	}

	note := shift / centsPerNote
	detune := (shift % centsPerNote) / (centsPerNote / maxDetune)
	octave := (offset - shift) / centsPerOct

	scale := pitchTable[note][detune]
	if octave < 0 {
		return scale >> -octave
	}
	return scale << octave
}
