// Package visualize renders a spectrogram PNG for a single WAV file, a
// debugging aid for alignment runs. It is not part of the fingerprinting
// core; it exists so a human can eyeball why two clips did or didn't
// align, adapted from the teacher's root-level batch spectrogram
// renderer into a single-file, CLI-driven operation.
package visualize

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/eligwz/spectrogram"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Options controls the rendered image's dimensions and FFT parameters.
type Options struct {
	Width  int
	Height int
	// UseLog10 renders the magnitude on a log scale when true; the
	// teacher's own renderer disables this ("LOG10 causes the issue"),
	// so it defaults to false.
	UseLog10 bool
}

// DefaultOptions mirrors the teacher's hardcoded 2048x512 render size.
func DefaultOptions() Options {
	return Options{Width: 2048, Height: 512, UseLog10: false}
}

// RenderFile reads inputPath as a WAV file and writes a spectrogram PNG
// to outputPath.
func RenderFile(inputPath, outputPath string, opts Options) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return fmt.Errorf("%s is not a valid wav file", inputPath)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("reading samples from %s: %w", inputPath, err)
	}

	samples := normalizeToFloat64(buf)

	if opts.Width == 0 || opts.Height == 0 {
		opts = DefaultOptions()
	}

	img := spectrogram.NewImage128(image.Rect(0, 0, opts.Width, opts.Height))
	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	spectrogram.Drawfft(
		img,
		samples,
		uint32(decoder.SampleRate),
		uint32(opts.Height),
		false, // RECTANGLE: use a Hamming window
		false, // DFT: use FFT instead
		true,  // MAG: magnitude, not phase
		opts.UseLog10,
	)

	if err := spectrogram.SavePng(img, outputPath); err != nil {
		return fmt.Errorf("saving %s: %w", outputPath, err)
	}
	return nil
}

func normalizeToFloat64(buf *goaudio.IntBuffer) []float64 {
	maxVal := float64(int(1) << (uint(buf.SourceBitDepth) - 1))
	if maxVal == 0 {
		maxVal = 1 << 15
	}
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / maxVal
	}
	return samples
}
