// SPDX-License-Identifier: EPL-2.0

// Package playback pushes PCM to an output Line from a background worker.
//
// A Pusher plays either an in-memory buffer or a stream:
//
//	p := playback.NewBufferedPusher(line, format, pcm, playback.Config{})
//	if err := p.Start(true); err != nil { // loop until Stop
//	    return err
//	}
//	...
//	p.Stop()
//	p.Close()
//
// The worker moves through NONE, PLAYING, WAITING, STOPPING and STOPPED.
// When the data runs out it drains the line and waits; after
// Config.IdleTimeout without a new Start it flushes, stops and closes the
// line so the device is released. Read and write failures end playback
// and are logged rather than returned.
package playback
