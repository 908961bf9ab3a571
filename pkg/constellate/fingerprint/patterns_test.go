package fingerprint

import "testing"

func TestMakePatternsLastWriterWins(t *testing.T) {
	// Two disjoint anchors producing the identical (freqA, freqB, Δ) key;
	// the stored anchor position must be that of the later writer (i=2).
	peaks := []Peak{
		{Frequency: 100, Position: 0},
		{Frequency: 200, Position: 5}, // Δ=5 from i=0
		{Frequency: 100, Position: 10},
		{Frequency: 200, Position: 15}, // Δ=5 from i=2, same key as above
	}

	cfg := PatternsConfiguration{Fan: 2, MinimumSamplePositionDelta: 0, MaximumSamplePositionDelta: 100}
	patterns, err := makePatterns(peaks, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := Pattern{FrequencyA: 100, FrequencyB: 200, PositionDelta: 5}
	got, ok := patterns[key]
	if !ok {
		t.Fatalf("expected key %+v to be present", key)
	}
	if got != 10 {
		t.Fatalf("expected last-writer-wins anchor position 10, got %d", got)
	}
}

func TestMakePatternsRespectsDeltaBounds(t *testing.T) {
	peaks := []Peak{
		{Frequency: 100, Position: 0},
		{Frequency: 200, Position: 3},
		{Frequency: 300, Position: 30},
		{Frequency: 400, Position: 80},
	}
	cfg := PatternsConfiguration{Fan: 3, MinimumSamplePositionDelta: 10, MaximumSamplePositionDelta: 40}

	patterns, err := makePatterns(peaks, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for p := range patterns {
		if p.PositionDelta < 10 || p.PositionDelta > 40 {
			t.Fatalf("pattern %+v violates delta bounds", p)
		}
	}
}

func TestMakePatternsFanLimitsPairing(t *testing.T) {
	peaks := make([]Peak, 5)
	for i := range peaks {
		peaks[i] = Peak{Frequency: Frequency(i), Position: SamplePosition(i * 10)}
	}
	cfg := PatternsConfiguration{Fan: 2, MinimumSamplePositionDelta: 0, MaximumSamplePositionDelta: 1000}

	patterns, err := makePatterns(peaks, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Fan=2 means each anchor pairs with only j=1 (one successor), so at
	// most len(peaks)-1 patterns can result.
	if len(patterns) > len(peaks)-1 {
		t.Fatalf("expected at most %d patterns with Fan=2, got %d", len(peaks)-1, len(patterns))
	}
}

func TestMakePatternsEmptyYieldsNoPatternsFound(t *testing.T) {
	cfg := PatternsConfiguration{Fan: 2, MinimumSamplePositionDelta: 1000, MaximumSamplePositionDelta: 2000}
	peaks := []Peak{
		{Frequency: 1, Position: 0},
		{Frequency: 2, Position: 1},
	}
	_, err := makePatterns(peaks, cfg)
	if err != ErrNoPatternsFound {
		t.Fatalf("expected ErrNoPatternsFound, got %v", err)
	}
}
