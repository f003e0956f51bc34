// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III files with
// github.com/hajimehoshi/go-mp3. The decoder always yields 16-bit stereo,
// so sources from this package report two channels even for mono files.
package mp3
