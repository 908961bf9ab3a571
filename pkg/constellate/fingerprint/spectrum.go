package fingerprint

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// logMagnitudeFloor keeps the 20*log10(...) finite for near-silent bins;
// it is a magnitude bias, not an amplitude, per spec.md §4.3.
const logMagnitudeFloor = 1e-20

// Spectrum is the internal log-magnitude spectrogram produced by the STFT
// step. It exists only during Fingerprint construction and is discarded
// once patterns are built; nothing outside this package retains one.
type Spectrum struct {
	// Frequencies holds the Hz label for each of the W frequency bins.
	Frequencies []int32
	// Positions holds the starting sample index for each of the H frames.
	Positions []int32
	// STFT is the H x W row-major log-magnitude spectrogram, in dB.
	STFT [][]float32

	hop        int
	sampleRate int
}

// hannWindow returns a Hann window of length n, normalized so that Σw = 1.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		sum += w[i]
	}
	if sum > 0 {
		for i := range w {
			w[i] /= sum
		}
	}
	return w
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// makeSpectrum builds the Spectrum for a mono float32 PCM buffer, per
// spec.md §4.3. audio must contain exactly sampleCount samples.
func makeSpectrum(audio []float32, sampleCount, sampleRate int, cfg Configuration) (*Spectrum, error) {
	segment := cfg.STFT.Segment
	hop := cfg.STFT.Hop()

	if segment <= 16 {
		return nil, ErrSTFTSegmentTooShort
	}
	if !isPowerOfTwo(segment) {
		return nil, ErrInvalidSTFTSegment
	}
	if sampleCount <= 2*segment || sampleCount <= sampleRate {
		return nil, ErrAudioTooShort
	}
	if hop <= 0 {
		return nil, ErrCannotSetupFFT
	}

	w := hannWindow(segment)
	sumW := 0.0
	for _, v := range w {
		sumW += v
	}
	if sumW == 0 {
		return nil, ErrCannotSetupFFT
	}
	scale := 1.0 / sumW / 2.0

	width := segment / 2
	height := (sampleCount-segment)/hop + 1
	if height <= 0 {
		return nil, ErrAudioTooShort
	}

	frequencies := make([]int32, width)
	for i := 0; i < width; i++ {
		frequencies[i] = int32(math.Round(float64(i) * (float64(sampleRate) / 2.0) / float64(width)))
	}

	positions := make([]int32, height)
	stft := make([][]float32, height)

	frame := make([]float64, segment)
	for h := 0; h < height; h++ {
		start := h * hop
		for n := 0; n < segment; n++ {
			frame[n] = float64(audio[start+n]) * w[n]
		}

		spectrum := fft.FFTReal(frame)
		if len(spectrum) < width {
			return nil, ErrCannotSetupFFT
		}

		// Zero the packed-Nyquist convention's imaginary-of-bin-0 slot
		// before taking magnitudes; go-dsp's FFTReal already produces a
		// purely real DC bin for real input, so this is a no-op here but
		// documents the convention spec.md §4.3/§9 calls out.
		spectrum[0] = complex(real(spectrum[0]), 0)

		row := make([]float32, width)
		for k := 0; k < width; k++ {
			mag := cmplx.Abs(spectrum[k])
			v := mag * scale
			if v < logMagnitudeFloor {
				v = logMagnitudeFloor
			}
			row[k] = float32(20 * math.Log10(v))
		}
		stft[h] = row
		positions[h] = int32(start)
	}

	return &Spectrum{
		Frequencies: frequencies,
		Positions:   positions,
		STFT:        stft,
		hop:         hop,
		sampleRate:  sampleRate,
	}, nil
}
