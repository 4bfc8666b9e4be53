// SPDX-License-Identifier: EPL-2.0

package audclip

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/codec"
	"github.com/ik5/audclip/playback"
)

var errNotRewindable = errors.New("clip input cannot be read again")

// DefaultClipThreshold is the clip length, in frames, from which Load
// streams instead of keeping the samples in memory.
const DefaultClipThreshold = 1 << 20

// Options configures Load. The zero value is usable.
type Options struct {
	// Registry detects and decodes the input. Nil means NewRegistry().
	Registry *audio.Registry
	// ClipThreshold bounds the decoded length, in frames, that is read
	// into memory: shorter clips are buffered, clips of this length or
	// longer and unbounded input are streamed.
	ClipThreshold int64
	Playback      playback.Config
	// Logger is used for the clip and, unless Playback.Logger is set, for
	// its pusher.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = NewRegistry()
	}
	if o.ClipThreshold <= 0 {
		o.ClipThreshold = DefaultClipThreshold
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	if o.Playback.Logger == nil {
		o.Playback.Logger = o.Logger
	}
	return o
}

// Clip is a loaded sound bound to one output line.
type Clip struct {
	kind     string
	format   audio.Format
	buffered bool
	pusher   *playback.Pusher
	log      zerolog.Logger
}

// Load decodes r, converts it to linear PCM and prepares it for playback
// on line. The line is opened by the first Play or Loop.
//
// Clips up to opts.ClipThreshold frames are read into memory. Longer clips
// keep reading r while they play, so r must stay open until the clip is
// closed; if r is an io.ReadSeeker such a clip can also be replayed and
// looped.
func Load(r io.Reader, line playback.Line, opts Options) (*Clip, error) {
	opts = opts.withDefaults()

	kind, dec, r, err := detect(opts.Registry, r)
	if err != nil {
		return nil, err
	}

	var start int64
	rs, seekable := r.(io.ReadSeeker)
	if seekable {
		if start, err = rs.Seek(0, io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("locating input: %w", err)
		}
	}

	pcm, err := decodePCM(dec, r)
	if err != nil {
		return nil, err
	}

	c := &Clip{
		kind:   kind,
		format: pcm.Format(),
		log:    opts.Logger.With().Str("format", kind).Logger(),
	}

	frameSize := int64(c.format.FrameSize())
	limit := opts.ClipThreshold * frameSize

	if n := pcm.ByteLength(); n != audio.NotSpecified && n < limit {
		data, err := io.ReadAll(pcm)
		if err != nil {
			return nil, fmt.Errorf("reading %s clip: %w", kind, err)
		}
		return c.withBuffer(data, line, opts), nil
	}

	// Unknown or long: input that ends before the limit is still buffered.
	head := new(bytes.Buffer)
	if _, err := io.Copy(head, io.LimitReader(pcm, limit)); err != nil {
		return nil, fmt.Errorf("reading %s clip: %w", kind, err)
	}
	if int64(head.Len()) < limit {
		return c.withBuffer(head.Bytes(), line, opts), nil
	}

	src := &decodedStream{r: io.MultiReader(head, pcm)}
	if seekable {
		src.reopen = func() (io.Reader, error) {
			if _, err := rs.Seek(start, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewinding input: %w", err)
			}
			s, err := decodePCM(dec, rs)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
	}

	c.pusher = playback.NewStreamPusher(line, c.format, src, opts.Playback)
	c.log.Debug().Bool("rewindable", seekable).Stringer("pcm", c.format).Msg("streaming clip")
	return c, nil
}

func decodePCM(dec audio.Decoder, r io.Reader) (*audio.Stream, error) {
	s, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	return codec.ToPCM(s)
}

func (c *Clip) withBuffer(data []byte, line playback.Line, opts Options) *Clip {
	if fs := c.format.FrameSize(); fs > 0 {
		data = data[:len(data)-len(data)%fs]
	}

	c.buffered = true
	c.pusher = playback.NewBufferedPusher(line, c.format, data, opts.Playback)
	c.log.Debug().Int("bytes", len(data)).Stringer("pcm", c.format).Msg("buffered clip")
	return c
}

// Play starts the clip from the beginning. Failures are logged, not
// returned.
func (c *Clip) Play() {
	if err := c.pusher.Start(false); err != nil {
		c.log.Warn().Err(err).Msg("play")
	}
}

// Loop plays the clip from the beginning and repeats it until Stop.
func (c *Clip) Loop() {
	if err := c.pusher.Start(true); err != nil {
		c.log.Warn().Err(err).Msg("loop")
	}
}

func (c *Clip) Stop() { c.pusher.Stop() }

// Close stops playback and releases the line. It does not close the
// reader the clip was loaded from.
func (c *Clip) Close() error { return c.pusher.Close() }

// Format is the PCM format sent to the line.
func (c *Clip) Format() audio.Format { return c.format }

// Kind is the registry key of the decoder that loaded the clip.
func (c *Clip) Kind() string { return c.kind }

// Buffered reports whether the clip is held in memory.
func (c *Clip) Buffered() bool { return c.buffered }

func (c *Clip) State() playback.State { return c.pusher.State() }

// decodedStream is a streaming clip's PCM. reopen, when set, decodes the
// input again from its first byte.
type decodedStream struct {
	r        io.Reader
	reopen   func() (io.Reader, error)
	consumed bool
}

func (d *decodedStream) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.consumed = true
	}
	return n, err
}

// Rewind implements playback.Rewinder.
func (d *decodedStream) Rewind() error {
	if !d.consumed {
		return nil
	}
	if d.reopen == nil {
		return errNotRewindable
	}

	r, err := d.reopen()
	if err != nil {
		return err
	}
	d.r = r
	d.consumed = false
	return nil
}
