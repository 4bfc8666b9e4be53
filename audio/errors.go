// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is wrapped by every header parser failure.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrUnsupportedConversion is matched by *UnsupportedConversionError.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrDeviceUnavailable is wrapped by output lines that cannot be opened.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrLengthNotSpecified is returned by container writers that need the
	// payload size up front and cannot seek back to patch it.
	ErrLengthNotSpecified = errors.New("stream length not specified")
)

// UnsupportedConversionError names the formats of a transcode that has no
// implementation.
type UnsupportedConversionError struct {
	From Format
	To   Format
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported conversion: %s to %s", e.From, e.To)
}

func (e *UnsupportedConversionError) Is(target error) bool {
	return target == ErrUnsupportedConversion
}
