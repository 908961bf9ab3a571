// Package constellate is the facade that wires the adapter layer, the
// fingerprint core, and the optional cache together, the way the
// teacher's pkg/acousticdna wires audio/storage/fingerprint for its
// service layer.
package constellate

import "github.com/soundmirror/constellate/pkg/constellate/fingerprint"

// Config controls the facade's behavior. It follows the teacher's
// functional-options pattern (pkg/acousticdna/config.go).
type Config struct {
	CachePath      string
	TempDir        string
	Configuration  fingerprint.Configuration
	FittingOptions fingerprint.FittingOptions
	Logger         Logger
	Cache          Cache
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithCachePath sets the SQLite cache file path. An empty path disables
// caching entirely (the facade recomputes fingerprints every call).
func WithCachePath(path string) Option {
	return func(c *Config) { c.CachePath = path }
}

// WithTempDir sets the scratch directory used for resampling.
func WithTempDir(dir string) Option {
	return func(c *Config) { c.TempDir = dir }
}

// WithConfiguration overrides the fingerprint engine's Configuration.
func WithConfiguration(cfg fingerprint.Configuration) Option {
	return func(c *Config) { c.Configuration = cfg }
}

// WithFittingOptions overrides the aligner's FittingOptions.
func WithFittingOptions(opts fingerprint.FittingOptions) Option {
	return func(c *Config) { c.FittingOptions = opts }
}

// WithLogger overrides the facade's logger.
func WithLogger(log Logger) Option {
	return func(c *Config) { c.Logger = log }
}

// WithCache overrides the facade's Cache implementation directly,
// bypassing CachePath — useful for tests that want an in-memory fake.
func WithCache(cache Cache) Option {
	return func(c *Config) { c.Cache = cache }
}

func defaultConfig() *Config {
	return &Config{
		CachePath:      "",
		TempDir:        "/tmp",
		Configuration:  fingerprint.DefaultConfiguration(),
		FittingOptions: fingerprint.DefaultFittingOptions(),
	}
}
