// SPDX-License-Identifier: EPL-2.0

package tables

const (
	// PanPositions is the number of discrete angles around the listener.
	PanPositions = 32
	// MaxPanPosition is used to wrap angles.
	MaxPanPosition = PanPositions - 1

	halfCircle = PanPositions / 2
	quarter    = PanPositions / 4
)

// Pan is a left/right gain pair on the 0..255 scale.
type Pan struct {
	Left  uint8
	Right uint8
}

// PanTable maps angle and distance to stereo gains. Angle 0 is straight
// ahead, a quarter turn is hard right, half a turn is behind and three
// quarters is hard left. Distance runs 0..MaxVolume.
type PanTable [PanPositions][Levels]Pan

// NewPanTable builds the table. Gains fall off linearly with distance and,
// on the far side of the listener, linearly with the angle away from the
// front/back axis.
func NewPanTable() *PanTable {
	t := &PanTable{}

	for distance := range Levels {
		level := 255 * (MaxVolume - distance) / MaxVolume
		for angle := range halfCircle {
			off := min(angle, halfCircle-angle)
			ramp := level - level*off/quarter

			t[angle][distance] = Pan{Left: uint8(ramp), Right: uint8(level)}
			t[angle+halfCircle][distance] = Pan{Left: uint8(level), Right: uint8(ramp)}
		}
	}

	return t
}

// Lookup returns the gains for angle (wrapped) and distance (clamped).
func (t *PanTable) Lookup(angle, distance int) Pan {
	return t[angle&MaxPanPosition][clamp(distance, 0, MaxVolume)]
}

// Mirror returns the angle on the other side of the front/back axis.
func Mirror(angle int) int {
	return (PanPositions - angle&MaxPanPosition) & MaxPanPosition
}
