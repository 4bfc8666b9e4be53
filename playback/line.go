// SPDX-License-Identifier: EPL-2.0

package playback

import "github.com/ik5/audclip/audio"

// Line is an output device that accepts PCM in one format.
//
// Write blocks until the device has queued p or until Flush, Stop or Close
// interrupts it, and may then return fewer bytes than len(p). Flush may be
// called from another goroutine while Write or Drain blocks. Drain blocks
// until everything queued has been played.
type Line interface {
	Open(f audio.Format) error
	Start() error
	Write(p []byte) (int, error)
	Drain() error
	Stop() error
	Flush() error
	Close() error
}
