// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"
	"time"

	"github.com/ik5/audclip/audio"
)

// Operation names recorded by MockLine.
const (
	OpOpen  = "open"
	OpStart = "start"
	OpWrite = "write"
	OpDrain = "drain"
	OpStop  = "stop"
	OpFlush = "flush"
	OpClose = "close"
)

var ErrLineClosed = errors.New("mock line is not open")

// MockLine is an in-memory output line. It records every call and keeps
// the bytes written since the last Open. Safe for concurrent use.
type MockLine struct {
	// OpenErr is returned by Open when set.
	OpenErr error
	// WriteErr is returned by Write when set.
	WriteErr error
	// MaxWrite caps the bytes a single Write accepts; zero accepts all.
	MaxWrite int
	// WriteDelay is slept inside every Write.
	WriteDelay time.Duration

	mu      sync.Mutex
	calls   []string
	open    bool
	format  audio.Format
	written []byte
	keep    bool
}

// NewMockLine returns a line that keeps written bytes when keep is set.
// Long looping tests pass false to record only the calls.
func NewMockLine(keep bool) *MockLine {
	return &MockLine{keep: keep}
}

func (m *MockLine) record(op string) {
	m.calls = append(m.calls, op)
}

func (m *MockLine) Open(f audio.Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpOpen)
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.open = true
	m.format = f
	m.written = nil
	return nil
}

func (m *MockLine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpStart)
	return nil
}

func (m *MockLine) Write(p []byte) (int, error) {
	if m.WriteDelay > 0 {
		time.Sleep(m.WriteDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpWrite)
	if !m.open {
		return 0, ErrLineClosed
	}
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}

	n := len(p)
	if m.MaxWrite > 0 && n > m.MaxWrite {
		n = m.MaxWrite
	}
	if m.keep {
		m.written = append(m.written, p[:n]...)
	}
	return n, nil
}

func (m *MockLine) Drain() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpDrain)
	return nil
}

func (m *MockLine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpStop)
	return nil
}

func (m *MockLine) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpFlush)
	return nil
}

func (m *MockLine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(OpClose)
	m.open = false
	return nil
}

// Calls returns a copy of the recorded operations in order.
func (m *MockLine) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

// Count returns how many times op was called.
func (m *MockLine) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Written returns a copy of the bytes accepted since the last Open.
func (m *MockLine) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.written...)
}

func (m *MockLine) Format() audio.Format {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.format
}

func (m *MockLine) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.open
}
