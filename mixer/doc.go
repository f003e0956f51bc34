// SPDX-License-Identifier: EPL-2.0

// Package mixer is a multi-voice software mixer for devices that play from
// a ring of fixed-size pages.
//
// A Mixer owns a pool of voices and a ring of pages. Every time the device
// crosses a page boundary it calls ServiceBuffer, and the mixer clears the
// page after the one being played and adds each active voice into it. Voices
// are resampled in 16.16 fixed point and scaled through precomputed volume
// tables, so the per-sample work is table lookups and adds.
//
// Devices that pull data instead (PortAudio style callbacks) call NextBlock
// once per channel; left and right live in separate rings and share one mix
// per page.
//
// # Voices
//
// Play functions return a handle identifying the voice while it plays. When
// every voice is busy, starting a new one evicts the voice at the head of
// the priority ordering, which is the one with the highest priority. A
// completion callback registered with SetCallback receives the token given
// at play time whenever a voice finishes, is killed or is evicted. The
// callback runs without the mixer lock held and may call back into it.
//
// # Usage
//
//	m := mixer.New(mixer.WithLogger(log))
//	cfg := mixer.DefaultConfig()
//	cfg.Family = device.Oto
//	if err := m.Init(cfg); err != nil {
//		return err
//	}
//	defer m.Shutdown()
//
//	h, err := m.PlayRaw(pcm, mixer.PlayOptions{Rate: 11025, Left: 255, Right: 255})
//
// Operations on a handle that already finished return ErrVoiceNotFound,
// which IsWarning reports as non-fatal.
package mixer
