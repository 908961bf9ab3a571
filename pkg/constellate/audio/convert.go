package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
)

// ConvertConfig controls Resample's target format.
type ConvertConfig struct {
	// SampleRate is the target sample rate, in Hz.
	SampleRate int
}

// Resample shells out to ffmpeg to convert inputPath to mono PCM WAV at
// cfg.SampleRate, writing the result into outputDir. This is the
// resampling/downmixing boundary spec.md §1 explicitly places outside
// the core, adapted directly from the teacher's ConvertToMonoWAV.
func Resample(ctx context.Context, inputPath, outputDir string, cfg ConvertConfig) (string, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating output dir: %v", fingerprint.ErrCannotCreateAudioConverter, err)
	}

	outputPath := filepath.Join(outputDir, filepath.Base(inputPath))
	tmpPath := outputPath + ".tmp.wav"
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-c:a", "pcm_s16le",
		tmpPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", fingerprint.ErrCannotCreateAudioConverter, ctx.Err())
		}
		return "", fmt.Errorf("%w: ffmpeg failed: %v (%s)", fingerprint.ErrCannotCreateAudioConverter, err, out)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("%w: moving converted file into place: %v", fingerprint.ErrCannotCreateAudioConverter, err)
	}

	return outputPath, nil
}

// ResampledFrameCount sizes a resampled buffer by
// ⌈frameLength·targetRate/sourceRate⌉, the exact correction spec.md §9's
// first open question calls for (the source's ⌈frameLength/sampleRate⌉
// over-allocates for non-integer durations).
func ResampledFrameCount(frameLength, sourceRate, targetRate int) int {
	return int(math.Ceil(float64(frameLength) * float64(targetRate) / float64(sourceRate)))
}
