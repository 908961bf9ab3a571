// Package audio is the adapter layer spec.md §6 draws the core's
// boundary at: decoding and resampling container audio into the mono
// float32 PCM buffer the fingerprint engine consumes. None of this is
// part of the core; it exists so cmd/cli, cmd/server, and tests have
// somewhere to get PCM from.
package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
)

// PCM is a decoded mono float32 buffer together with the sample rate it
// was decoded at.
type PCM struct {
	Samples    []float32
	SampleRate int
}

// Decode reads a WAV file and returns its contents as mono float32 PCM,
// downmixing stereo (or wider) input by averaging channels the way the
// teacher repo's internal float-conversion path does. Any decode failure
// — a truncated header, an unsupported bit depth, a file that isn't WAV
// at all — surfaces as ErrCannotCreatePCMBuffer.
func Decode(path string) (PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return PCM{}, fmt.Errorf("%w: opening %s: %v", fingerprint.ErrCannotCreatePCMBuffer, path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return PCM{}, fmt.Errorf("%w: %s is not a valid wav file", fingerprint.ErrCannotCreatePCMBuffer, path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("%w: reading pcm buffer: %v", fingerprint.ErrCannotCreatePCMBuffer, err)
	}

	samples := downmixToMonoFloat32(buf)

	return PCM{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
	}, nil
}

// downmixToMonoFloat32 averages all channels of buf into a single mono
// float32 stream scaled to [-1, 1], mirroring the teacher's
// convertStereoToMono/convertToMonoFloat64 arithmetic.
func downmixToMonoFloat32(buf *goaudio.IntBuffer) []float32 {
	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	maxValue := float64(int(1) << (buf.SourceBitDepth - 1))
	if maxValue == 0 {
		maxValue = 1 << 15
	}

	frameCount := len(buf.Data) / channels
	out := make([]float32, frameCount)

	for i := 0; i < frameCount; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		out[i] = float32(sum / float64(channels) / maxValue)
	}
	return out
}
