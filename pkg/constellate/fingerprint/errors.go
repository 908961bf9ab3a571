package fingerprint

import "errors"

// Construction errors.
var (
	// ErrAudioTooShort is raised when the input buffer has fewer than
	// 2*segment samples or fewer than sampleRate samples (< 1s).
	ErrAudioTooShort = errors.New("constellate: audio too short to fingerprint")

	// ErrSTFTSegmentTooShort is raised when segment <= 16.
	ErrSTFTSegmentTooShort = errors.New("constellate: stft segment too short")

	// ErrInvalidSTFTSegment is raised when segment is not a power of two.
	ErrInvalidSTFTSegment = errors.New("constellate: stft segment is not a power of two")

	// ErrCannotSetupFFT is raised when the underlying FFT resource can't
	// be prepared for the configured segment size.
	ErrCannotSetupFFT = errors.New("constellate: cannot set up fft")

	// ErrNoPatternsFound is raised when the peak set yields no qualifying
	// fan-out pairs.
	ErrNoPatternsFound = errors.New("constellate: no patterns found")
)

// Alignment errors.
var (
	// ErrFingerprintConfigurationMismatch is raised when two fingerprints
	// being aligned were built with structurally different configurations.
	ErrFingerprintConfigurationMismatch = errors.New("constellate: fingerprint configuration mismatch")

	// ErrNoMatchesFound is raised when two fingerprints share no patterns.
	ErrNoMatchesFound = errors.New("constellate: no matches found")
)

// Adapter-layer errors. Not raised by this package; the audio adapter
// (pkg/constellate/audio) wraps these so callers can distinguish core
// failures from decode/convert failures. pkg/constellate/store does not
// use them.
var (
	ErrCannotCreatePCMBuffer      = errors.New("constellate: cannot create pcm buffer")
	ErrCannotCreateAudioConverter = errors.New("constellate: cannot create audio converter")
)
