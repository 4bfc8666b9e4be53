// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"io"
)

var errNoRewind = errors.New("source cannot rewind")

// Rewinder is implemented by stream sources that can restart from their
// first byte.
type Rewinder interface {
	Rewind() error
}

// source feeds the worker. Only the worker goroutine touches it once the
// pusher has been started.
type source interface {
	// read copies the next bytes into p. It returns io.EOF, possibly with
	// n > 0, at the end of the data.
	read(p []byte) (int, error)
	// rewind moves back to the first byte.
	rewind() error
}

type bufferSource struct {
	data []byte
	pos  int
}

func (b *bufferSource) read(p []byte) (int, error) {
	n := copy(p, b.data[b.pos:])
	b.pos += n
	if b.pos == len(b.data) {
		return n, io.EOF
	}
	return n, nil
}

func (b *bufferSource) rewind() error {
	b.pos = 0
	return nil
}

type streamSource struct {
	r        io.Reader
	consumed bool
}

func (s *streamSource) read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n > 0 {
		s.consumed = true
	}
	return n, err
}

func (s *streamSource) rewind() error {
	switch r := s.r.(type) {
	case Rewinder:
		if err := r.Rewind(); err != nil {
			return err
		}
	case io.Seeker:
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return err
		}
	default:
		if s.consumed {
			return errNoRewind
		}
	}

	s.consumed = false
	return nil
}
