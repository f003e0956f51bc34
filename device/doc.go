// SPDX-License-Identifier: EPL-2.0

// Package device defines the contract between the mixer and the audio
// hardware families it can drive.
//
// A Backend owns the transfer of mixed pages to an output device. The mixer
// hands it a ring of fixed-size pages and a Host; the backend calls back into
// the Host every time a page boundary is crossed:
//
//   - ring devices (Caps.DemandFeed false) consume pages in order and call
//     Host.ServiceBuffer at each boundary. If Caps.Addressable is set the
//     mixer asks CurrentPosition which page is playing, otherwise it keeps
//     count itself
//   - demand-feed devices (Caps.DemandFeed true) pull blocks with
//     Host.NextBlock, once per output channel. Their stereo pages are split:
//     the left ring fills the first half of the buffer and the right ring the
//     second half
//
// Host calls run in the backend's own goroutine, which plays the role of the
// interrupt handler: they must never be made while holding a lock the
// foreground could be waiting on.
//
// # Families
//
// Each hardware family registers a factory under its Family value, usually
// from the init function of its subpackage:
//
//	import _ "github.com/ik5/audmix/device/otodev"
//
//	b, err := device.Open(device.Oto)
//
// Opening a family that has not been registered returns ErrUnsupported.
package device
