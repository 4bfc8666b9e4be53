// SPDX-License-Identifier: EPL-2.0

package au

import (
	"fmt"

	"github.com/ik5/audclip/audio"
)

var (
	ErrNotAuFile         = fmt.Errorf("%w: not an AU file", audio.ErrUnsupportedFormat)
	ErrUnknownEncoding   = fmt.Errorf("%w: unknown AU encoding", audio.ErrUnsupportedFormat)
	ErrInvalidChannels   = fmt.Errorf("%w: invalid number of channels", audio.ErrUnsupportedFormat)
	ErrInvalidSampleRate = fmt.Errorf("%w: invalid sample rate", audio.ErrUnsupportedFormat)
	ErrInvalidHeaderSize = fmt.Errorf("%w: invalid AU header size", audio.ErrUnsupportedFormat)
)
