package fingerprint

// makePatterns pairs each peak with its next Fan-1 successors into Patterns, per
// spec.md §4.5. Iteration is by i ascending, then j ascending; collisions
// on the same Pattern key overwrite, so the stored anchor position is
// that of the *largest* qualifying i — preserving this is load-bearing
// for cross-run determinism, not an implementation detail to optimize
// away.
func makePatterns(peaks []Peak, cfg PatternsConfiguration) (Patterns, error) {
	n := len(peaks)
	patterns := make(Patterns)

	for i := 0; i < n; i++ {
		for j := 1; j < cfg.Fan && i+j < n; j++ {
			anchor := peaks[i]
			target := peaks[i+j]

			delta := target.Position - anchor.Position
			if delta < SamplePosition(cfg.MinimumSamplePositionDelta) || delta > SamplePosition(cfg.MaximumSamplePositionDelta) {
				continue
			}

			key := Pattern{
				FrequencyA:    anchor.Frequency,
				FrequencyB:    target.Frequency,
				PositionDelta: delta,
			}
			patterns[key] = anchor.Position
		}
	}

	if len(patterns) == 0 {
		return nil, ErrNoPatternsFound
	}
	return patterns, nil
}
