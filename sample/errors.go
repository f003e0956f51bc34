// SPDX-License-Identifier: EPL-2.0

package sample

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidBits    = errors.New("bit depth must be 8 or 16")
	ErrUnknownFormat  = errors.New("no decoder for format")
)
