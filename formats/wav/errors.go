// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"

	"github.com/ik5/audclip/audio"
)

var (
	ErrNotWavFile = fmt.Errorf("%w: not a WAV file", audio.ErrUnsupportedFormat)

	// ErrUnsupportedWavEncoding is returned for a fmt chunk format code
	// other than PCM, IEEE float, A-law or u-law.
	ErrUnsupportedWavEncoding = fmt.Errorf("%w: unsupported WAV encoding", audio.ErrUnsupportedFormat)

	ErrMissingData = fmt.Errorf("%w: missing data chunk", audio.ErrUnsupportedFormat)

	// ErrLengthNotSpecified is returned by Write for a stream of unknown
	// length when the destination cannot seek.
	ErrLengthNotSpecified = audio.ErrLengthNotSpecified
)
