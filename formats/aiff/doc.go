// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff. Only
// uncompressed 8 and 16-bit PCM is accepted.
package aiff
