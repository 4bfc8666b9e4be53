// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ik5/audclip/audio"
)

var (
	ErrClosed = errors.New("pusher closed")
	// ErrWorkerTimeout is returned by Close when the worker does not shut
	// the line down within Config.StopTimeout.
	ErrWorkerTimeout = errors.New("playback worker did not stop in time")
)

// Pusher feeds one Line from a single worker goroutine.
//
// The worker is started by the first Start and exits, closing the line,
// once it has been idle for Config.IdleTimeout or the pusher is closed. A
// later Start opens the line again and starts a new worker. Line writes and
// drains happen outside the pusher lock, so Start and Stop never wait
// behind device I/O except for the calls they make themselves.
type Pusher struct {
	cfg    Config
	log    zerolog.Logger
	line   Line
	format audio.Format
	src    source

	mu        sync.Mutex
	changed   chan struct{} // closed and replaced on every state change
	wanted    State
	state     State
	running   bool
	open      bool
	loop      bool
	rewind    bool
	closed    bool
	lastStart time.Time
	done      chan struct{}
}

// NewBufferedPusher plays data, which must hold whole frames of f. The
// slice is not copied and must not change while the pusher is in use.
func NewBufferedPusher(line Line, f audio.Format, data []byte, cfg Config) *Pusher {
	return newPusher(line, f, &bufferSource{data: data}, cfg)
}

// NewStreamPusher plays r as it is read. Replaying and looping need r to
// implement Rewinder or io.Seeker; otherwise r plays once.
func NewStreamPusher(line Line, f audio.Format, r io.Reader, cfg Config) *Pusher {
	return newPusher(line, f, &streamSource{r: r}, cfg)
}

func newPusher(line Line, f audio.Format, src source, cfg Config) *Pusher {
	cfg = cfg.withDefaults()

	return &Pusher{
		cfg:     cfg,
		log:     cfg.Logger.With().Str("session", uuid.NewString()).Logger(),
		line:    line,
		format:  f,
		src:     src,
		changed: make(chan struct{}),
	}
}

func (p *Pusher) Format() audio.Format { return p.format }

// State reports the worker state.
func (p *Pusher) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Start plays from the beginning, looping until Stop when loop is set. A
// Start within Config.MinStartInterval of the previous one is ignored. The
// line is opened on demand; a failure to open it wraps
// audio.ErrDeviceUnavailable.
func (p *Pusher) Start(loop bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	now := time.Now()
	if !p.lastStart.IsZero() && now.Sub(p.lastStart) < p.cfg.MinStartInterval {
		p.log.Debug().Msg("start ignored, too soon after the previous one")
		return nil
	}
	p.lastStart = now

	for p.running && p.wanted == StateStopping {
		p.waitChange(0)
	}
	if p.closed {
		return ErrClosed
	}

	if !p.open {
		if err := p.line.Open(p.format); err != nil {
			if !errors.Is(err, audio.ErrDeviceUnavailable) {
				err = fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
			}
			p.log.Error().Err(err).Msg("opening line")
			return err
		}
		p.open = true
	}
	if err := p.line.Flush(); err != nil {
		p.log.Warn().Err(err).Msg("flushing line")
	}
	if err := p.line.Start(); err != nil {
		return fmt.Errorf("starting line: %w", err)
	}

	p.rewind = true
	p.loop = loop
	p.wanted = StatePlaying
	if !p.running {
		p.running = true
		p.done = make(chan struct{})
		go p.run(p.done)
	}
	p.broadcast()

	p.log.Debug().Bool("loop", loop).Msg("playback started")
	return nil
}

// Stop discards queued audio and waits, at most Config.StopTimeout, for the
// worker to leave PLAYING. The line stays open until the idle timeout.
func (p *Pusher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.wanted == StatePlaying {
		p.wanted = StateWaiting
		p.broadcast()
	}
	if p.open {
		if err := p.line.Flush(); err != nil {
			p.log.Warn().Err(err).Msg("flushing line")
		}
	}

	deadline := time.Now().Add(p.cfg.StopTimeout)
	for p.running && p.state == StatePlaying {
		left := time.Until(deadline)
		if left <= 0 {
			p.log.Warn().Dur("timeout", p.cfg.StopTimeout).Msg("worker still playing after stop")
			return
		}
		p.waitChange(min(p.cfg.StopPollInterval, left))
	}

	p.log.Debug().Msg("playback stopped")
}

// Close stops the worker, closes the line and makes later Starts fail.
func (p *Pusher) Close() error {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true

	if !p.running {
		defer p.mu.Unlock()
		if !p.open {
			return nil
		}
		p.open = false
		p.state = StateStopped
		return p.line.Close()
	}

	p.wanted = StateStopping
	p.broadcast()
	done := p.done
	p.mu.Unlock()

	// Unblocks a worker stuck in Write.
	if err := p.line.Flush(); err != nil {
		p.log.Warn().Err(err).Msg("flushing line")
	}

	t := time.NewTimer(p.cfg.StopTimeout)
	defer t.Stop()

	select {
	case <-done:
		return nil
	case <-t.C:
		return ErrWorkerTimeout
	}
}

// broadcast wakes everything waiting on the current change channel. The
// caller holds p.mu.
func (p *Pusher) broadcast() {
	close(p.changed)
	p.changed = make(chan struct{})
}

// setState publishes the worker state. The caller holds p.mu.
func (p *Pusher) setState(s State) {
	if p.state == s {
		return
	}

	p.log.Debug().Stringer("from", p.state).Stringer("to", s).Msg("playback state")
	p.state = s
	p.broadcast()
}

// waitChange releases p.mu until the next broadcast or until d elapses,
// and reports whether a broadcast happened. d <= 0 waits without limit.
func (p *Pusher) waitChange(d time.Duration) bool {
	ch := p.changed
	p.mu.Unlock()
	defer p.mu.Lock()

	if d <= 0 {
		<-ch
		return true
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

func (p *Pusher) run(done chan struct{}) {
	defer close(done)
	defer p.shutdown()

	block := make([]byte, p.cfg.BlockSize)
	var pending []byte
	var played int64 // bytes read since the last rewind

	for {
		p.mu.Lock()

		if p.wanted == StateStopping {
			p.setState(StateStopping)
			p.mu.Unlock()
			return
		}

		if p.wanted != StatePlaying {
			p.setState(StateWaiting)
			if !p.waitChange(p.cfg.IdleTimeout) && p.wanted == StateWaiting {
				p.log.Debug().Dur("idle", p.cfg.IdleTimeout).Msg("closing idle line")
				p.wanted = StateStopping
			}
			p.mu.Unlock()
			continue
		}

		p.setState(StatePlaying)
		loop := p.loop
		rewind := p.rewind
		p.rewind = false
		p.mu.Unlock()

		if rewind {
			pending = nil
			played = 0
			if err := p.src.rewind(); err != nil {
				p.log.Warn().Err(err).Msg("rewinding source")
			}
		}

		if len(pending) == 0 {
			n, err := p.src.read(block)
			pending = block[:n]
			played += int64(n)

			if n == 0 {
				if err == nil {
					continue
				}
				if !errors.Is(err, io.EOF) {
					p.log.Warn().Err(err).Msg("reading source, treating as end of data")
				}
				if loop && played > 0 && p.src.rewind() == nil {
					played = 0
					continue
				}
				p.endOfData()
				continue
			}
		}

		n, err := p.line.Write(pending)
		pending = pending[n:]
		if err != nil {
			p.log.Error().Err(err).Msg("writing to line, treating as end of data")
			pending = nil
			p.endOfData()
		}
	}
}

// endOfData moves a playing pusher to WAITING and lets the line play out.
// A Start that raced with the end of the data wins.
func (p *Pusher) endOfData() {
	p.mu.Lock()
	if p.wanted != StatePlaying || p.rewind {
		p.mu.Unlock()
		return
	}
	p.wanted = StateWaiting
	p.broadcast()
	p.mu.Unlock()

	if err := p.line.Drain(); err != nil {
		p.log.Warn().Err(err).Msg("draining line")
	}
}

func (p *Pusher) shutdown() {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"flush", p.line.Flush},
		{"stop", p.line.Stop},
		{"flush", p.line.Flush},
		{"close", p.line.Close},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			p.log.Warn().Err(err).Str("step", step.name).Msg("shutting line down")
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.open = false
	p.running = false
	if p.wanted == StateStopping {
		p.wanted = StateStopped
	}
	p.setState(StateStopped)
	p.log.Debug().Msg("line closed")
}
