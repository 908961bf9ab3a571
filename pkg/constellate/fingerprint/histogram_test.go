package fingerprint

import (
	"math"
	"testing"
)

func TestHistogramSingleValueBin(t *testing.T) {
	counts, centers := histogram([]float64{3.5, 3.5, 3.5}, 0.1)
	if len(counts) != 1 || counts[0] != 3 {
		t.Fatalf("expected single bin with count 3, got %v", counts)
	}
	if centers[0] != 3.5 {
		t.Fatalf("expected bin center 3.5, got %v", centers[0])
	}
}

func TestHistogramLaw(t *testing.T) {
	cases := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{-5, -2, 0, 0.5, 3, 7.25},
		{100, 100.01, 100.02, 99.99},
	}

	for _, values := range cases {
		counts, centers := histogram(values, 0.5)

		if len(counts) != len(centers) {
			t.Fatalf("len(counts)=%d != len(centers)=%d", len(counts), len(centers))
		}

		var total uint64
		for _, c := range counts {
			total += c
		}
		if int(total) != len(values) {
			t.Fatalf("Σcounts=%d != |values|=%d", total, len(values))
		}

		min, max := values[0], values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		for _, c := range centers {
			if c < min-1e-9 || c > max+1e-9 {
				t.Fatalf("bin center %v outside [%v, %v]", c, min, max)
			}
		}
	}
}

func TestHistogramArgmaxFirstWinsTies(t *testing.T) {
	// Two values land in bin 0 and two in bin 2, leaving bin 1 empty with
	// a tie between bins 0 and 2; first-wins means index 0 is reported.
	values := []float64{0, 0.05, 1.0, 1.05}
	counts, _ := histogram(values, 0.5)
	if argmaxFirstWins(counts) != 0 {
		t.Fatalf("expected first-wins tie-break to select index 0, got %d for counts %v", argmaxFirstWins(counts), counts)
	}
}

func TestHistogramPanicsOnEmptyValues(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty values")
		}
	}()
	histogram(nil, 0.1)
}

func TestHistogramPanicsOnNonPositiveDelta(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on delta <= 0")
		}
	}()
	histogram([]float64{1, 2, 3}, 0)
}

func TestHistogramBinWidthMath(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	delta := 1.0
	counts, _ := histogram(values, delta)

	expectedBins := int(math.Ceil((10.0 - 0.0) / delta))
	if len(counts) != expectedBins {
		t.Fatalf("expected %d bins, got %d", expectedBins, len(counts))
	}
}
