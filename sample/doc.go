// SPDX-License-Identifier: EPL-2.0

// Package sample turns decoded audio into data the mixer can play.
//
// Decoders in the formats subpackages produce a Source: interleaved float32
// frames in [-1, 1] at the file's own rate and channel count. The mixer
// plays mono integer PCM, so a Source is usually passed through
//
//  1. NewResampler, to bring it to the rate the device runs at (optional,
//     the mixer resamples on the fly as well);
//  2. NewDownmix, which averages all channels into one;
//  3. Read, which drains the pipeline into a PCM of 8-bit unsigned or
//     16-bit signed samples.
//
// Registry maps format names and file extensions to decoders so callers can
// pick one from a path:
//
//	reg := sample.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, ".wav", ".wave")
//	dec, ok := reg.ForPath("boom.wav")
package sample
