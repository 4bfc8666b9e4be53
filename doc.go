// SPDX-License-Identifier: EPL-2.0

// Package audclip loads sampled audio files and plays them as clips.
//
// A file is recognized from its first bytes by an audio.Registry (AIFF,
// AIFF-C, AU and WAVE, then FLAC, Ogg Vorbis and MP3), decoded, and
// converted to linear little-endian PCM with codec.ToPCM. Short clips are
// read into memory; long ones are decoded while they play.
//
//	file, _ := os.Open("bell.aiff")
//	defer file.Close()
//
//	clip, err := audclip.Load(file, output.NewMalgo(), audclip.Options{})
//	if err != nil {
//		return err
//	}
//	defer clip.Close()
//
//	clip.Loop()
//	time.Sleep(3 * time.Second)
//	clip.Stop()
//
// Play, Loop and Stop never fail: once a clip is loaded, device and I/O
// errors are logged through Options.Logger and playback simply ends.
//
// LoadAndAnalyze only parses the header:
//
//	ff, err := audclip.LoadAndAnalyze(file)
//	fmt.Println(ff.Type, ff.Format, ff.FrameLength)
package audclip
