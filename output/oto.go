// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audclip/audio"
)

// DefaultBufferDuration sizes the ring between the pusher and the device.
const DefaultBufferDuration = 500 * time.Millisecond

// oto allows one context per process, created for one format.
var shared struct {
	sync.Mutex
	ctx    *oto.Context
	format audio.Format
	users  int
}

// Oto plays through the process-wide oto context. Every Oto line in a
// process must use the format the first one was opened with.
type Oto struct {
	// BufferDuration is the ring size in time. Zero means
	// DefaultBufferDuration.
	BufferDuration time.Duration

	mu     sync.Mutex
	player *oto.Player
	ring   *Ring
	format audio.Format
}

func NewOto() *Oto { return &Oto{} }

func otoFormat(f audio.Format) (oto.Format, error) {
	switch {
	case f.Encoding == audio.PCMSigned && f.BitsPerSample == 16 && !f.BigEndian:
		return oto.FormatSignedInt16LE, nil
	case f.Encoding == audio.PCMUnsigned && f.BitsPerSample == 8:
		return oto.FormatUnsignedInt8, nil
	case f.Encoding == audio.PCMFloat && f.BitsPerSample == 32 && !f.BigEndian:
		return oto.FormatFloat32LE, nil
	}
	return 0, fmt.Errorf("%w: oto cannot play %s", ErrUnsupportedLineFormat, f)
}

func acquireContext(f audio.Format, latency time.Duration) (*oto.Context, error) {
	shared.Lock()
	defer shared.Unlock()

	if shared.ctx != nil {
		if f != shared.format {
			return nil, fmt.Errorf("%w: oto is already running at %s", ErrUnsupportedLineFormat, shared.format)
		}
		if shared.users == 0 {
			if err := shared.ctx.Resume(); err != nil {
				return nil, fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
			}
		}
		shared.users++
		return shared.ctx, nil
	}

	sf, err := otoFormat(f)
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(f.SampleRate),
		ChannelCount: f.Channels,
		Format:       sf,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}
	<-ready

	shared.ctx = ctx
	shared.format = f
	shared.users = 1
	return ctx, nil
}

func releaseContext() {
	shared.Lock()
	defer shared.Unlock()

	shared.users--
	if shared.users == 0 {
		_ = shared.ctx.Suspend()
	}
}

func (o *Oto) Open(f audio.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		if f == o.format {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrAlreadyOpen, o.format)
	}
	if f.Channels < 1 || f.SampleRate <= 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedLineFormat, f)
	}

	d := o.BufferDuration
	if d <= 0 {
		d = DefaultBufferDuration
	}

	ctx, err := acquireContext(f, d/4)
	if err != nil {
		return err
	}

	o.ring = NewRing(ringSize(f, d), f.FrameSize(), silence(f))
	o.player = ctx.NewPlayer(ringReader{o.ring})
	o.format = f
	return nil
}

func (o *Oto) current() (*oto.Player, *Ring) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player, o.ring
}

func (o *Oto) Start() error {
	p, _ := o.current()
	if p == nil {
		return ErrLineClosed
	}
	p.Play()
	return p.Err()
}

func (o *Oto) Write(b []byte) (int, error) {
	_, r := o.current()
	if r == nil {
		return 0, ErrLineClosed
	}
	return r.Write(b)
}

// Drain waits for the ring to empty and then for the bytes oto had
// already pulled to play out.
func (o *Oto) Drain() error {
	p, r := o.current()
	if r == nil {
		return ErrLineClosed
	}
	r.Drain()
	time.Sleep(byteDuration(o.format, p.BufferedSize()))
	return p.Err()
}

func (o *Oto) Stop() error {
	p, r := o.current()
	if p == nil {
		return nil
	}
	p.Pause()
	r.Interrupt()
	return nil
}

// Flush drops queued audio in the ring and in the oto player.
func (o *Oto) Flush() error {
	p, r := o.current()
	if p == nil {
		return nil
	}
	r.Flush()
	if _, err := p.Seek(0, io.SeekCurrent); err != nil {
		return fmt.Errorf("flushing oto player: %w", err)
	}
	return nil
}

func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}

	o.player.Pause()
	o.ring.Close()
	o.player, o.ring = nil, nil
	releaseContext()
	return nil
}

// ringReader feeds the oto player. It never returns io.EOF, so the player
// keeps pulling silence while nothing is queued.
type ringReader struct{ r *Ring }

func (rr ringReader) Read(p []byte) (int, error) {
	rr.r.Fill(p)
	return len(p), nil
}

// Seek lets the player drop its own buffer on Flush.
func (ringReader) Seek(int64, int) (int64, error) { return 0, nil }

func ringSize(f audio.Format, d time.Duration) int {
	return int(float64(f.BytesPerSecond()) * d.Seconds())
}

func byteDuration(f audio.Format, n int) time.Duration {
	bps := f.BytesPerSecond()
	if bps <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bps)
}

func silence(f audio.Format) byte {
	if f.Encoding == audio.PCMUnsigned {
		return 0x80
	}
	return 0
}
