// SPDX-License-Identifier: EPL-2.0

// Package tables holds the precomputed lookup tables used by the mixer.
//
// All gain math in the mix loop is a table lookup:
//   - Volume maps an 8-bit sample index to a scaled output value for each of
//     the 64 volume levels, separately for 8-bit and 16-bit output
//   - the harsh-clip table saturates 8-bit output without branching
//   - PanTable maps an angle and distance to a left/right gain pair
//   - PitchScale turns a pitch offset in cents into a 16.16 rate multiplier
//
// Volume tables depend on the master volume and must be rebuilt whenever it
// changes. The pan and pitch tables never change after construction.
package tables
