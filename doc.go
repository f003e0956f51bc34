// SPDX-License-Identifier: EPL-2.0

// Package audmix is a multi-voice software mixer for sound effects.
//
// The mixer keeps a fixed pool of voices ordered by priority, and a ring of
// pages that a device backend plays. Every time the device crosses a page
// boundary the mixer renders the page after the one being played: each
// active voice is resampled with a 16.16 fixed-point step, scaled through
// precomputed volume tables and summed with saturation into 8-bit or
// 16-bit, mono or stereo output.
//
// # Packages
//
//   - mixer: the mixing context, voice control and the buffer scheduler
//   - tables: volume, clipping, pan and pitch tables
//   - device: the backend contract and the family registry
//   - device/nulldev, otodev, padev, sdldev, malgodev, wavdev: backends
//   - sample and formats/...: decoding assets into mixer-ready PCM
//
// # Quick Start
//
//	import (
//		"github.com/ik5/audmix"
//		"github.com/ik5/audmix/mixer"
//		_ "github.com/ik5/audmix/device/otodev"
//	)
//
//	cfg := mixer.DefaultConfig()
//	cfg.Family = device.Oto
//
//	m := mixer.New()
//	if err := m.Init(cfg); err != nil {
//		return err
//	}
//	defer m.Shutdown()
//
//	pcm, err := audmix.LoadFile("shot.wav", sample.Options{Bits: 16})
//	if err != nil {
//		return err
//	}
//	handle, err := m.PlaySample(pcm, mixer.PlayOptions{Left: 255, Right: 255, Priority: 10})
//
// Backends register themselves when imported. A program picks the ones it
// links in with blank imports and chooses one with Config.Family.
//
// # Loading Sounds
//
// LoadFile and Load decode WAV, AIFF, MP3 and Ogg Vorbis through the
// decoders registry returned by Decoders. The result is mono, optionally
// resampled, and converted to unsigned 8-bit or signed 16-bit samples.
package audmix
