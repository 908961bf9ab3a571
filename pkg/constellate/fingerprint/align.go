package fingerprint

// Alignment is the result of aligning one Fingerprint against a
// reference Fingerprint.
type Alignment struct {
	// EstimatedTimeOffset is the estimated shift, in seconds. Positive
	// means self appears later than reference by that many seconds —
	// self must be shifted earlier by that amount to align, since
	// diff = selfPosition - referencePosition.
	EstimatedTimeOffset float64
}

// Align estimates the time offset between self and a reference
// Fingerprint via the two-pass histogram vote of spec.md §4.6. The two
// Fingerprints must share a structurally identical Configuration.
func Align(self, reference *Fingerprint, options FittingOptions) (Alignment, error) {
	if self.configuration != reference.configuration {
		return Alignment{}, ErrFingerprintConfigurationMismatch
	}

	finest := self.configuration.FinestTimeResolution()
	tr := options.TimeResolution
	if tr < finest {
		tr = finest
	}
	trc := options.TimeResolutionCoarse
	if trc < finest {
		trc = finest
	}

	sampleRate := float64(self.configuration.SampleRate)

	diffs := make([]float64, 0, len(self.patterns))
	for pattern, position := range self.patterns {
		refPosition, ok := reference.patterns[pattern]
		if !ok {
			continue
		}
		diffs = append(diffs, float64(position-refPosition)/sampleRate)
	}

	if len(diffs) == 0 {
		return Alignment{}, ErrNoMatchesFound
	}

	coarseCounts, coarseCenters := histogram(diffs, trc)
	idxC := argmaxFirstWins(coarseCounts)
	center := coarseCenters[idxC]

	lo := center - options.FocusInterval/2
	hi := center + options.FocusInterval/2

	focus := make([]float64, 0, len(diffs))
	for _, d := range diffs {
		if d >= lo && d <= hi {
			focus = append(focus, d)
		}
	}
	fineCounts, fineCenters := histogram(focus, tr)
	idxF := argmaxFirstWins(fineCounts)

	return Alignment{EstimatedTimeOffset: fineCenters[idxF]}, nil
}
