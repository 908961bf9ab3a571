package constellate

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/soundmirror/constellate/pkg/constellate/audio"
	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
	"github.com/soundmirror/constellate/pkg/constellate/store"
)

// Service orchestrates decode -> fingerprint -> (cache) -> align, the
// way the teacher's acousticService orchestrates decode -> fingerprint
// -> storage -> query in pkg/acousticdna/service.go.
type Service struct {
	config *Config
}

// NewService builds a Service from the supplied options, opening a
// SQLite-backed cache at config.CachePath unless the caller already
// supplied one via WithCache or left CachePath empty (disabling caching
// entirely).
func NewService(opts ...Option) (*Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	if cfg.Cache == nil && cfg.CachePath != "" {
		cache, err := store.Open(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening fingerprint cache: %w", err)
		}
		cfg.Cache = cache
	}

	return &Service{config: cfg}, nil
}

// Close releases the Service's cache connection, if any.
func (s *Service) Close() error {
	if s.config.Cache == nil {
		return nil
	}
	return s.config.Cache.Close()
}

// Fingerprint decodes the file at path and builds its Fingerprint,
// serving from the cache when available and falling back to the core on
// a miss. ctx is honored by the ffmpeg resample step only; Decode and
// the core do not take it, and the core itself never blocks (spec.md §5).
func (s *Service) Fingerprint(ctx context.Context, path string) (*fingerprint.Fingerprint, error) {
	pcm, err := audio.Decode(path)
	if err != nil {
		s.config.Logger.Errorf("decoding %s: %v", path, err)
		return nil, err
	}

	if pcm.SampleRate != s.config.Configuration.SampleRate {
		resampled, err := audio.Resample(ctx, path, s.config.TempDir, audio.ConvertConfig{
			SampleRate: s.config.Configuration.SampleRate,
		})
		if err != nil {
			s.config.Logger.Errorf("resampling %s: %v", path, err)
			return nil, err
		}
		pcm, err = audio.Decode(resampled)
		if err != nil {
			s.config.Logger.Errorf("decoding resampled %s: %v", resampled, err)
			return nil, err
		}
	}

	hash := contentHash(pcm.Samples, s.config.Configuration)

	if s.config.Cache != nil {
		if fp, ok, err := s.config.Cache.Get(hash); err != nil {
			s.config.Logger.Warnf("cache lookup failed for %s: %v", path, err)
		} else if ok {
			s.config.Logger.Debugf("cache hit for %s", path)
			return fp, nil
		}
	}

	fp, err := fingerprint.New(pcm.Samples, s.config.Configuration)
	if err != nil {
		s.config.Logger.Errorf("fingerprinting %s: %v", path, err)
		return nil, err
	}

	if s.config.Cache != nil {
		if err := s.config.Cache.Put(hash, fp); err != nil {
			s.config.Logger.Warnf("caching fingerprint for %s: %v", path, err)
		}
	}

	return fp, nil
}

// Align fingerprints both files (through the cache, where configured)
// and returns the estimated offset of samplePath relative to
// referencePath.
func (s *Service) Align(ctx context.Context, referencePath, samplePath string) (fingerprint.Alignment, error) {
	reference, err := s.Fingerprint(ctx, referencePath)
	if err != nil {
		return fingerprint.Alignment{}, err
	}
	sample, err := s.Fingerprint(ctx, samplePath)
	if err != nil {
		return fingerprint.Alignment{}, err
	}

	alignment, err := fingerprint.Align(sample, reference, s.config.FittingOptions)
	if err != nil {
		s.config.Logger.Errorf("aligning %s against %s: %v", samplePath, referencePath, err)
		return fingerprint.Alignment{}, err
	}

	s.config.Logger.Infof("aligned %s against %s: offset=%.4fs", samplePath, referencePath, alignment.EstimatedTimeOffset)
	return alignment, nil
}

// contentHash derives the cache key for a decoded PCM buffer under a
// given Configuration, grounded on the teacher's sha1-based
// makeSongID idiom (refrence_scripts/download_yt.go).
func contentHash(samples []float32, cfg fingerprint.Configuration) string {
	h := sha1.New()

	var buf [4]byte
	for _, v := range samples {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		h.Write(buf[:])
	}

	cfgJSON, _ := json.Marshal(cfg)
	h.Write(cfgJSON)

	return hex.EncodeToString(h.Sum(nil))
}

// RoundOffset rounds a time offset to the nearest millisecond. Display
// surfaces (cmd/cli, cmd/server) apply this to EstimatedTimeOffset
// before printing or encoding it, rather than exposing the core's full
// float64 precision — the alignment core itself works in samples and
// has no notion of a display unit.
func RoundOffset(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}
