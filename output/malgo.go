// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audclip/audio"
)

// Malgo plays through miniaudio. Unlike Oto, each line owns its own
// context and device, so lines with different formats can coexist.
type Malgo struct {
	// BufferDuration is the ring size in time. Zero means
	// DefaultBufferDuration.
	BufferDuration time.Duration

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	ring   *Ring
	format audio.Format
}

func NewMalgo() *Malgo { return &Malgo{} }

func malgoFormat(f audio.Format) (malgo.FormatType, error) {
	if f.BigEndian && f.BitsPerSample > 8 {
		return malgo.FormatUnknown, fmt.Errorf("%w: malgo cannot play %s", ErrUnsupportedLineFormat, f)
	}

	switch {
	case f.Encoding == audio.PCMUnsigned && f.BitsPerSample == 8:
		return malgo.FormatU8, nil
	case f.Encoding == audio.PCMSigned && f.BitsPerSample == 16:
		return malgo.FormatS16, nil
	case f.Encoding == audio.PCMSigned && f.BitsPerSample == 24:
		return malgo.FormatS24, nil
	case f.Encoding == audio.PCMSigned && f.BitsPerSample == 32:
		return malgo.FormatS32, nil
	case f.Encoding == audio.PCMFloat && f.BitsPerSample == 32:
		return malgo.FormatF32, nil
	}
	return malgo.FormatUnknown, fmt.Errorf("%w: malgo cannot play %s", ErrUnsupportedLineFormat, f)
}

func (m *Malgo) Open(f audio.Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		if f == m.format {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrAlreadyOpen, m.format)
	}

	sf, err := malgoFormat(f)
	if err != nil {
		return err
	}
	if f.Channels < 1 || f.SampleRate <= 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedLineFormat, f)
	}

	d := m.BufferDuration
	if d <= 0 {
		d = DefaultBufferDuration
	}
	ring := NewRing(ringSize(f, d), f.FrameSize(), silence(f))

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = sf
	cfg.Playback.Channels = uint32(f.Channels)
	cfg.SampleRate = uint32(f.SampleRate)
	cfg.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			ring.Fill(out)
		},
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}

	m.ctx = ctx
	m.device = device
	m.ring = ring
	m.format = f
	return nil
}

func (m *Malgo) current() (*malgo.Device, *Ring) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.device, m.ring
}

func (m *Malgo) Start() error {
	d, _ := m.current()
	if d == nil {
		return ErrLineClosed
	}
	if d.IsStarted() {
		return nil
	}
	if err := d.Start(); err != nil {
		return fmt.Errorf("starting malgo device: %w", err)
	}
	return nil
}

func (m *Malgo) Write(p []byte) (int, error) {
	_, r := m.current()
	if r == nil {
		return 0, ErrLineClosed
	}
	return r.Write(p)
}

// Drain returns once the callback has taken every queued frame. miniaudio
// keeps one period of its own, which is not waited for.
func (m *Malgo) Drain() error {
	_, r := m.current()
	if r == nil {
		return ErrLineClosed
	}
	r.Drain()
	return nil
}

func (m *Malgo) Stop() error {
	d, r := m.current()
	if d == nil {
		return nil
	}
	r.Interrupt()
	if !d.IsStarted() {
		return nil
	}
	if err := d.Stop(); err != nil {
		return fmt.Errorf("stopping malgo device: %w", err)
	}
	return nil
}

func (m *Malgo) Flush() error {
	_, r := m.current()
	if r != nil {
		r.Flush()
	}
	return nil
}

func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return nil
	}

	m.ring.Close()
	m.device.Uninit()
	err := m.ctx.Uninit()
	m.ctx.Free()

	m.device, m.ctx, m.ring = nil, nil, nil
	if err != nil {
		return fmt.Errorf("releasing malgo context: %w", err)
	}
	return nil
}
