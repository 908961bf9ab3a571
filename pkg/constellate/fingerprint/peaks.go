package fingerprint

// localMaxImage computes the 2-D local-maximum (grayscale dilation) of
// stft over a ks x ks square structuring element, per spec.md §4.4. Edge
// cells take the max over the in-bounds portion of the neighborhood —
// clamped/replicated boundary handling, the common default spec.md §9
// settles on in the absence of an explicit edge policy.
func localMaxImage(stft [][]float32, ks int) [][]float32 {
	h := len(stft)
	if h == 0 {
		return nil
	}
	w := len(stft[0])
	radius := ks / 2

	out := make([][]float32, h)
	for i := range out {
		out[i] = make([]float32, w)
	}

	for y := 0; y < h; y++ {
		y0, y1 := clampRange(y-radius, y+radius, h-1)
		for x := 0; x < w; x++ {
			x0, x1 := clampRange(x-radius, x+radius, w-1)

			max := stft[y0][x0]
			for yy := y0; yy <= y1; yy++ {
				row := stft[yy]
				for xx := x0; xx <= x1; xx++ {
					if row[xx] > max {
						max = row[xx]
					}
				}
			}
			out[y][x] = max
		}
	}
	return out
}

// clampRange clamps [lo, hi] into [0, max], inclusive.
func clampRange(lo, hi, max int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > max {
		hi = max
	}
	return lo, hi
}

// makePeaks extracts peaks from a Spectrum, per spec.md §4.4. Enumeration
// order is row-major by frame (h) then by frequency bin (k) ascending —
// load-bearing for the last-writer-wins collision rule in makePatterns.
func makePeaks(spectrum *Spectrum, cfg PeaksConfiguration) []Peak {
	stft := spectrum.STFT
	h := len(stft)
	if h == 0 {
		return nil
	}
	w := len(stft[0])

	m := localMaxImage(stft, cfg.LocalMaximumKernelSize)

	flat := make([]float64, 0, h*w)
	for _, row := range stft {
		for _, v := range row {
			flat = append(flat, float64(v))
		}
	}
	maxAmp := approximatePercentile(flat, cfg.MaximumAmplitudeApproximatePercentile)
	minAmp := float32(maxAmp) + cfg.RelativeMinimumAmplitude

	peaks := make([]Peak, 0)
	for hh := 0; hh < h; hh++ {
		for kk := 0; kk < w; kk++ {
			if stft[hh][kk] != m[hh][kk] {
				continue
			}
			if stft[hh][kk] <= minAmp {
				continue
			}
			freq := Frequency(spectrum.Frequencies[kk])
			if int32(freq) < cfg.MinimumFrequency || int32(freq) > cfg.MaximumFrequency {
				continue
			}
			peaks = append(peaks, Peak{
				Frequency: freq,
				Position:  SamplePosition(spectrum.Positions[hh]),
			})
		}
	}
	return peaks
}
