// SPDX-License-Identifier: EPL-2.0

package output

import "sync"

// Ring is a fixed-size byte queue between a blocking writer and a device
// callback that must never block. The callback side only takes whole
// frames of align bytes and pads a short read with silence.
type Ring struct {
	mu      sync.Mutex
	cond    *sync.Cond
	buf     []byte
	head    int
	count   int
	align   int
	silence byte
	gen     uint64 // bumped to release blocked writers and drainers
	closed  bool
}

// NewRing returns a ring of size bytes, rounded down to whole frames.
func NewRing(size, align int, silence byte) *Ring {
	if align < 1 {
		align = 1
	}
	if size < align {
		size = align
	}
	size -= size % align

	r := &Ring{buf: make([]byte, size), align: align, silence: silence}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Write queues p, blocking while the ring is full. It returns early with
// the bytes queued so far when Flush or Interrupt is called, and fails
// with ErrLineClosed once the ring is closed.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen := r.gen
	written := 0
	for written < len(p) {
		if r.closed {
			return written, ErrLineClosed
		}
		if r.gen != gen {
			return written, nil
		}

		free := len(r.buf) - r.count
		if free == 0 {
			r.cond.Wait()
			continue
		}

		tail := (r.head + r.count) % len(r.buf)
		n := min(free, len(r.buf)-tail, len(p)-written)
		copy(r.buf[tail:tail+n], p[written:written+n])
		r.count += n
		written += n
		r.cond.Broadcast()
	}

	return written, nil
}

// Fill copies queued frames into p and pads the rest of p with silence.
// It returns the number of queued bytes used.
func (r *Ring) Fill(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := min(len(p), r.count)
	n -= n % r.align
	for i := 0; i < n; {
		k := copy(p[i:n], r.buf[r.head:min(r.head+n-i, len(r.buf))])
		r.head = (r.head + k) % len(r.buf)
		i += k
	}
	r.count -= n

	for i := n; i < len(p); i++ {
		p[i] = r.silence
	}

	if n > 0 {
		r.cond.Broadcast()
	}

	return n
}

// Drain blocks until no whole frame is queued, or until Flush, Interrupt
// or Close.
func (r *Ring) Drain() {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen := r.gen
	for r.count >= r.align && !r.closed && r.gen == gen {
		r.cond.Wait()
	}
}

// Flush drops everything queued and releases blocked callers.
func (r *Ring) Flush() {
	r.mu.Lock()
	r.head, r.count = 0, 0
	r.gen++
	r.mu.Unlock()
	r.cond.Broadcast()
}

// Interrupt releases blocked callers and keeps the queue.
func (r *Ring) Interrupt() {
	r.mu.Lock()
	r.gen++
	r.mu.Unlock()
	r.cond.Broadcast()
}

func (r *Ring) Close() {
	r.mu.Lock()
	r.closed = true
	r.head, r.count = 0, 0
	r.mu.Unlock()
	r.cond.Broadcast()
}

// Len is the number of bytes queued.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *Ring) Cap() int { return len(r.buf) }
