package constellate

import "github.com/soundmirror/constellate/pkg/constellate/fingerprint"

// Cache mirrors pkg/constellate/store.Cache, kept as a separate
// interface here so callers can depend on the facade without importing
// the store package directly (the teacher's Storage interface in
// pkg/acousticdna/interfaces.go plays the same decoupling role).
type Cache interface {
	Get(contentHash string) (*fingerprint.Fingerprint, bool, error)
	Put(contentHash string, fp *fingerprint.Fingerprint) error
	Close() error
}

// Logger mirrors pkg/acousticdna's Logger interface.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// noopLogger discards everything; used when no Logger is configured so
// the facade never needs a nil check at call sites.
type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
func (noopLogger) Debugf(string, ...any) {}
