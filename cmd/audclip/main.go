// SPDX-License-Identifier: EPL-2.0

// Command audclip inspects, plays and converts sampled audio files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/audclip"
	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/formats/wav"
	"github.com/ik5/audclip/output"
	"github.com/ik5/audclip/playback"
)

const usage = `usage:
  audclip info <file>
  audclip play [-loop] [-device oto|malgo] [-v] <file>
  audclip towav <input> <output.wav>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = info(os.Args[2:])
	case "play":
		err = play(os.Args[2:])
	case "towav":
		err = toWav(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "audclip:", err)
		os.Exit(1)
	}
}

func info(args []string) error {
	if len(args) != 1 {
		return errors.New("info needs one file")
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	ff, err := audclip.LoadAndAnalyze(file)
	if err != nil {
		return err
	}

	fmt.Printf("type:     %s\n", ff.Type)
	fmt.Printf("format:   %s\n", ff.Format)
	fmt.Printf("frames:   %s\n", length(ff.FrameLength))
	fmt.Printf("bytes:    %s\n", length(ff.ByteLength))
	fmt.Printf("header:   %s\n", length(ff.HeaderLength))
	if ff.FrameLength != audio.NotSpecified && ff.Format.SampleRate > 0 {
		d := time.Duration(float64(ff.FrameLength) / ff.Format.SampleRate * float64(time.Second))
		fmt.Printf("duration: %s\n", d.Round(time.Millisecond))
	}

	return nil
}

func length(n int64) string {
	if n == audio.NotSpecified {
		return "not specified"
	}
	return fmt.Sprint(n)
}

func play(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	loop := fs.Bool("loop", false, "Repeat until interrupted")
	device := fs.String("device", "malgo", "Output backend: oto or malgo")
	verbose := fs.Bool("v", false, "Log playback state changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("play needs one file")
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	var line playback.Line
	switch *device {
	case "oto":
		line = output.NewOto()
	case "malgo":
		line = output.NewMalgo()
	default:
		return fmt.Errorf("unknown device %q", *device)
	}

	file, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer file.Close()

	clip, err := audclip.Load(file, line, audclip.Options{Logger: &logger})
	if err != nil {
		return err
	}
	defer func() {
		if err := clip.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing clip")
		}
	}()

	logger.Info().Str("kind", clip.Kind()).Stringer("pcm", clip.Format()).
		Bool("buffered", clip.Buffered()).Msg("loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *loop {
		clip.Loop()
	} else {
		clip.Play()
	}

	t := time.NewTicker(50 * time.Millisecond)
	defer t.Stop()
	started := time.Now()

	for {
		select {
		case <-ctx.Done():
			clip.Stop()
			return nil
		case <-t.C:
			switch clip.State() {
			case playback.StateWaiting, playback.StateStopped:
				return nil
			case playback.StateNone:
				if time.Since(started) > time.Second {
					return errors.New("playback did not start")
				}
			}
		}
	}
}

func toWav(args []string) error {
	if len(args) != 2 {
		return errors.New("towav needs an input and an output file")
	}

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	s, err := audclip.Decode(in)
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}

	n, err := wav.Write(out, s)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d bytes to %s\n", n, args[1])
	return nil
}
