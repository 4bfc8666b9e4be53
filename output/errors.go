// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"

	"github.com/ik5/audclip/audio"
)

var (
	ErrLineClosed = errors.New("line is not open")
	// ErrUnsupportedLineFormat is returned by Open for sample formats the
	// backend cannot play.
	ErrUnsupportedLineFormat = fmt.Errorf("%w: sample format not supported by the backend", audio.ErrDeviceUnavailable)
	ErrAlreadyOpen           = errors.New("line is already open with another format")
)
