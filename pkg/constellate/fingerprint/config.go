package fingerprint

// STFTConfiguration controls the windowed FFT step of the spectrum builder.
type STFTConfiguration struct {
	// Segment is the frame size in samples. Must be a power of two > 16.
	Segment int
	// Overlap is the number of samples shared between consecutive frames.
	// Must satisfy 0 <= Overlap < Segment.
	Overlap int
}

// Hop returns Segment - Overlap, the sample stride between frames.
func (c STFTConfiguration) Hop() int {
	return c.Segment - c.Overlap
}

// PeaksConfiguration controls the 2-D local-maximum peak extractor.
type PeaksConfiguration struct {
	// LocalMaximumKernelSize is the odd, positive side length of the square
	// neighborhood used for the local-max dilation.
	LocalMaximumKernelSize int
	// MaximumAmplitudeApproximatePercentile is the percentile (0..1) used
	// to estimate the loudest amplitude in a spectrum.
	MaximumAmplitudeApproximatePercentile float64
	// RelativeMinimumAmplitude is a dB offset (typically negative) applied
	// to the estimated maximum amplitude to form the peak floor.
	RelativeMinimumAmplitude float32
	// MinimumFrequency and MaximumFrequency gate peaks by frequency, in Hz.
	MinimumFrequency int32
	MaximumFrequency int32
}

// PatternsConfiguration controls the fan-out pattern generator.
type PatternsConfiguration struct {
	// Fan bounds the fan-out: each peak is paired with its next Fan-1
	// successor peaks.
	Fan int
	// MinimumSamplePositionDelta and MaximumSamplePositionDelta bound the
	// accepted Δposition between a pair's two peaks.
	MinimumSamplePositionDelta int32
	MaximumSamplePositionDelta int32
}

// Configuration is the immutable, value-like set of parameters that a
// Fingerprint is built and aligned under. Two Fingerprints can only be
// aligned against each other if their Configurations are structurally
// equal (see ErrFingerprintConfigurationMismatch).
type Configuration struct {
	SampleRate int
	STFT       STFTConfiguration
	Peaks      PeaksConfiguration
	Patterns   PatternsConfiguration
}

// FinestTimeResolution returns the lower bound on alignment precision, in
// seconds: hop / sampleRate.
func (c Configuration) FinestTimeResolution() float64 {
	return float64(c.STFT.Hop()) / float64(c.SampleRate)
}

// Option mutates a Configuration during construction, following the
// functional-options pattern.
type Option func(*Configuration)

// WithSampleRate overrides the sample rate, in Hz.
func WithSampleRate(rate int) Option {
	return func(c *Configuration) { c.SampleRate = rate }
}

// WithSTFT overrides the STFT sub-configuration.
func WithSTFT(stft STFTConfiguration) Option {
	return func(c *Configuration) { c.STFT = stft }
}

// WithPeaks overrides the peak-extraction sub-configuration.
func WithPeaks(peaks PeaksConfiguration) Option {
	return func(c *Configuration) { c.Peaks = peaks }
}

// WithPatterns overrides the pattern-generation sub-configuration.
func WithPatterns(patterns PatternsConfiguration) Option {
	return func(c *Configuration) { c.Patterns = patterns }
}

// DefaultConfiguration returns the configuration spec.md names as default
// throughout §3, with the supplied options applied on top.
func DefaultConfiguration(opts ...Option) Configuration {
	cfg := Configuration{
		SampleRate: 16000,
		STFT: STFTConfiguration{
			Segment: 1024,
			Overlap: 768,
		},
		Peaks: PeaksConfiguration{
			LocalMaximumKernelSize:                 5,
			MaximumAmplitudeApproximatePercentile: 0.999,
			RelativeMinimumAmplitude:               -35,
			MinimumFrequency:                       0,
			MaximumFrequency:                       8000,
		},
		Patterns: PatternsConfiguration{
			Fan:                        10,
			MinimumSamplePositionDelta: 0,
			MaximumSamplePositionDelta: 1 << 20,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// FittingOptions controls the two-pass histogram vote in Align.
type FittingOptions struct {
	// TimeResolution is the fine-pass histogram bin width, in seconds.
	TimeResolution float64
	// TimeResolutionCoarse is the coarse-pass histogram bin width, in seconds.
	TimeResolutionCoarse float64
	// FocusInterval is the width, in seconds, of the window around the
	// coarse bin that the fine pass re-bins.
	FocusInterval float64
}

// DefaultFittingOptions returns spec.md §3's default FittingOptions.
func DefaultFittingOptions() FittingOptions {
	return FittingOptions{
		TimeResolution:       0.001,
		TimeResolutionCoarse: 0.1,
		FocusInterval:        5,
	}
}
