// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes PCM WAV files with github.com/go-audio/wav.
//
// Decoder accepts 8, 16, 24 and 32-bit PCM of any channel count and sample
// rate, and produces a sample.Source of float32 values in [-1, 1]. 8-bit
// data is unsigned as the format prescribes.
//
//	f, _ := os.Open("door.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Writer goes the other way, from the byte layout the mixer produces
// (unsigned 8-bit or signed little-endian 16-bit, interleaved) to a WAV
// stream. The wavdev capture device and WritePCM use it:
//
//	out, _ := os.Create("mix.wav")
//	w, _ := wav.NewWriter(out, 11025, 16, 2)
//	w.Write(page)
//	w.Close()
package wav
