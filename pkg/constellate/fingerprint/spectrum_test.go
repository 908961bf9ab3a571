package fingerprint

import (
	"math"
	"testing"
)

func sineWave(freq float64, seconds float64, sampleRate int) []float32 {
	n := int(seconds * float64(sampleRate))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate)))
	}
	return out
}

func TestHannWindowSumsToOne(t *testing.T) {
	w := hannWindow(1024)
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("expected Σw ≈ 1, got %v", sum)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[int]bool{
		1: true, 2: true, 4: true, 1024: true,
		0: false, 3: false, 1000: false, -4: false,
	}
	for n, want := range cases {
		if got := isPowerOfTwo(n); got != want {
			t.Errorf("isPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestMakeSpectrumRejectsNonPowerOfTwoSegment(t *testing.T) {
	cfg := DefaultConfiguration(WithSTFT(STFTConfiguration{Segment: 1000, Overlap: 0}))
	audio := sineWave(440, 2, cfg.SampleRate)
	_, err := makeSpectrum(audio, len(audio), cfg.SampleRate, cfg)
	if err != ErrInvalidSTFTSegment {
		t.Fatalf("expected ErrInvalidSTFTSegment, got %v", err)
	}
}

func TestMakeSpectrumRejectsTooShortSegment(t *testing.T) {
	cfg := DefaultConfiguration(WithSTFT(STFTConfiguration{Segment: 16, Overlap: 0}))
	audio := sineWave(440, 2, cfg.SampleRate)
	_, err := makeSpectrum(audio, len(audio), cfg.SampleRate, cfg)
	if err != ErrSTFTSegmentTooShort {
		t.Fatalf("expected ErrSTFTSegmentTooShort, got %v", err)
	}
}

func TestMakeSpectrumRejectsTooShortAudio(t *testing.T) {
	cfg := DefaultConfiguration()
	audio := sineWave(440, 0.3, cfg.SampleRate)
	_, err := makeSpectrum(audio, len(audio), cfg.SampleRate, cfg)
	if err != ErrAudioTooShort {
		t.Fatalf("expected ErrAudioTooShort, got %v", err)
	}
}

func TestMakeSpectrumShapeAndAxes(t *testing.T) {
	cfg := DefaultConfiguration()
	audio := sineWave(440, 2, cfg.SampleRate)

	s, err := makeSpectrum(audio, len(audio), cfg.SampleRate, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	width := cfg.STFT.Segment / 2
	if len(s.Frequencies) != width {
		t.Fatalf("expected %d frequency bins, got %d", width, len(s.Frequencies))
	}

	hop := cfg.STFT.Hop()
	wantHeight := (len(audio)-cfg.STFT.Segment)/hop + 1
	if len(s.STFT) != wantHeight {
		t.Fatalf("expected %d frames, got %d", wantHeight, len(s.STFT))
	}
	for _, row := range s.STFT {
		if len(row) != width {
			t.Fatalf("expected row width %d, got %d", width, len(row))
		}
	}

	for i, f := range s.Frequencies {
		want := int32(math.Round(float64(i) * (float64(cfg.SampleRate) / 2.0) / float64(width)))
		if f != want {
			t.Fatalf("frequencies[%d] = %d, want %d", i, f, want)
		}
	}
	for h, p := range s.Positions {
		if int(p) != h*hop {
			t.Fatalf("positions[%d] = %d, want %d", h, p, h*hop)
		}
	}
}

func TestMakeSpectrumLogFloorKeepsValuesFinite(t *testing.T) {
	cfg := DefaultConfiguration()
	audio := make([]float32, cfg.SampleRate*2) // pure silence

	s, err := makeSpectrum(audio, len(audio), cfg.SampleRate, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range s.STFT {
		for _, v := range row {
			if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
				t.Fatalf("expected finite log-magnitude for silence, got %v", v)
			}
		}
	}
}
