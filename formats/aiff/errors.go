// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"

	"github.com/ik5/audclip/audio"
)

// All parse errors wrap audio.ErrUnsupportedFormat.
var (
	// ErrNotAiffFile indicates the input does not start with a FORM/AIFF or
	// FORM/AIFC header.
	ErrNotAiffFile = fmt.Errorf("%w: not an AIFF file", audio.ErrUnsupportedFormat)

	ErrInvalidCommSize = fmt.Errorf("%w: invalid AIFF/COMM chunk size", audio.ErrUnsupportedFormat)
	ErrInvalidChannels = fmt.Errorf("%w: invalid number of channels", audio.ErrUnsupportedFormat)
	ErrInvalidBitDepth = fmt.Errorf("%w: invalid AIFF/COMM sample size", audio.ErrUnsupportedFormat)

	// ErrUnsupportedCompression is returned for an AIFF-C compression type
	// other than uncompressed PCM, float or G.711.
	ErrUnsupportedCompression = fmt.Errorf("%w: invalid AIFF encoding", audio.ErrUnsupportedFormat)

	ErrMissingComm = fmt.Errorf("%w: missing COMM chunk", audio.ErrUnsupportedFormat)

	ErrLengthNotSpecified = audio.ErrLengthNotSpecified
)
