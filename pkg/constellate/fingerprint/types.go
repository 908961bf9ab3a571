package fingerprint

// SamplePosition is a sample index into the original PCM buffer.
// Produced values are >= 0; differences between two positions may be
// negative.
type SamplePosition int32

// Frequency is a frequency label, in Hz.
type Frequency int32

// Amplitude is a log-magnitude value, in dB.
type Amplitude float32

// Peak is a single cell of the spectrogram that passed the local-max and
// amplitude-floor tests of the peak extractor. It never escapes this
// package — only the Patterns derived from a peak set are retained.
type Peak struct {
	Frequency Frequency
	Position  SamplePosition
}

// Pattern is the "constellation hash": a (frequencyA, frequencyB,
// positionDelta) triple, hashable and equatable by value.
type Pattern struct {
	FrequencyA    Frequency
	FrequencyB    Frequency
	PositionDelta SamplePosition
}

// Patterns maps each observed Pattern to the sample position of the
// earlier peak in the pair that produced it (the pattern's anchor
// position). See makePatterns for the last-writer-wins collision rule.
type Patterns map[Pattern]SamplePosition
