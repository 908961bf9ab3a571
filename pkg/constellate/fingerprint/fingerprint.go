package fingerprint

// Fingerprint is the immutable (Configuration, Patterns) pair described
// in spec.md §3. It is constructed once by New and never mutated; it is
// safe to share by reference across goroutines.
type Fingerprint struct {
	configuration Configuration
	patterns      Patterns
}

// Configuration returns the Configuration the Fingerprint was built with.
func (f *Fingerprint) Configuration() Configuration {
	return f.configuration
}

// Patterns returns the Fingerprint's pattern table. Callers must not
// mutate the returned map; it is shared, not copied.
func (f *Fingerprint) Patterns() Patterns {
	return f.patterns
}

// FromParts reconstructs a Fingerprint from a previously serialized
// (Configuration, Patterns) pair, per the "natural format" spec.md §6
// names for persistence. Callers are responsible for the serialized
// form's integrity; FromParts does not re-validate the patterns against
// the configuration.
func FromParts(cfg Configuration, patterns Patterns) *Fingerprint {
	return &Fingerprint{configuration: cfg, patterns: patterns}
}

// New builds a Fingerprint from a mono float32 PCM buffer at the
// configuration's sample rate, composing the spectrum builder, peak
// extractor, and pattern generator (spec.md §4.3-§4.5) in sequence. The
// Spectrum and Peak slice are transient: both are released once patterns
// are built, leaving only the Patterns map and Configuration behind.
func New(audio []float32, cfg Configuration) (*Fingerprint, error) {
	spectrum, err := makeSpectrum(audio, len(audio), cfg.SampleRate, cfg)
	if err != nil {
		return nil, err
	}

	peaks := makePeaks(spectrum, cfg.Peaks)

	patterns, err := makePatterns(peaks, cfg.Patterns)
	if err != nil {
		return nil, err
	}

	return &Fingerprint{configuration: cfg, patterns: patterns}, nil
}
