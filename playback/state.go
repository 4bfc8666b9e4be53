// SPDX-License-Identifier: EPL-2.0

package playback

// State is a pusher lifecycle state.
type State int

const (
	StateNone State = iota
	StatePlaying
	StateWaiting
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StatePlaying:
		return "PLAYING"
	case StateWaiting:
		return "WAITING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}
