// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input has no valid FORM/AIFF header.
	ErrNotAiffFile = errors.New("not an AIFF file")
	// ErrUnsupportedBitDepth indicates a sample size other than 8 or 16.
	ErrUnsupportedBitDepth = errors.New("only 8 and 16-bit AIFF is supported")
)
