//go:build !js && !wasm

// Package store memoizes Fingerprint construction by content hash. It is
// not the database-of-fingerprints identification workflow spec.md's
// Non-goals exclude: it never ranks or searches across entries, it only
// ever returns the single cached row for an exact hash — a pure
// memoization of the core's own (Configuration, Patterns) output, per
// SPEC_FULL.md §6.3.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
)

// Cache is the interface the facade depends on, grounded on the
// teacher's pkg/acousticdna.Storage interface but narrowed to exact-hash
// memoization instead of multi-song CRUD.
type Cache interface {
	Get(contentHash string) (*fingerprint.Fingerprint, bool, error)
	Put(contentHash string, fp *fingerprint.Fingerprint) error
	Close() error
}

const errCacheClientNil = "cache client is nil"

// cachedFingerprint is the GORM model for the (Configuration, Patterns)
// row keyed by content hash, mirroring the teacher's Song model's
// idempotent-upsert shape but for a single fingerprint instead of a song.
type cachedFingerprint struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	ContentHash     string `gorm:"uniqueIndex:idx_cache_hash" json:"content_hash"`
	ConfigurationJSON string `json:"configuration_json"`
	CreatedAt       time.Time
}

// cachedPattern is one (Pattern, SamplePosition) row, foreign-keyed to
// its cachedFingerprint, mirroring the teacher's Fingerprint model's
// per-hash row shape.
type cachedPattern struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	FingerprintID string `gorm:"type:varchar(36);index:idx_cache_fp" json:"fingerprint_id"`
	FrequencyA    int32  `json:"frequency_a"`
	FrequencyB    int32  `json:"frequency_b"`
	PositionDelta int32  `json:"position_delta"`
	AnchorPosition int32 `json:"anchor_position"`
}

// SQLiteCache is a Cache backed by a GORM/SQLite database, adapted from
// the teacher's storage.DBClient.
type SQLiteCache struct {
	db *gorm.DB
}

// DefaultCachePath is the default SQLite file used when no path is
// configured, mirroring the teacher's DefaultDBFile naming.
const DefaultCachePath = "constellate-cache.sqlite3"

// Open opens (creating if necessary) a SQLite-backed cache at path.
func Open(path string) (*SQLiteCache, error) {
	if path == "" {
		path = DefaultCachePath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if err := db.AutoMigrate(&cachedFingerprint{}, &cachedPattern{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrapping cache db: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return &SQLiteCache{db: db}, nil
}

// Close releases the underlying SQLite connection.
func (c *SQLiteCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the cached Fingerprint for contentHash, if present. A miss
// is (nil, false, nil) — never an error; callers always fall back to
// recomputing the fingerprint.
func (c *SQLiteCache) Get(contentHash string) (*fingerprint.Fingerprint, bool, error) {
	if c == nil || c.db == nil {
		return nil, false, errors.New(errCacheClientNil)
	}

	var row cachedFingerprint
	err := c.db.Where("content_hash = ?", contentHash).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	var cfg fingerprint.Configuration
	if err := json.Unmarshal([]byte(row.ConfigurationJSON), &cfg); err != nil {
		return nil, false, fmt.Errorf("decoding cached configuration: %w", err)
	}

	var patternRows []cachedPattern
	if err := c.db.Where("fingerprint_id = ?", row.ID).Find(&patternRows).Error; err != nil {
		return nil, false, fmt.Errorf("querying cached patterns: %w", err)
	}

	patterns := make(fingerprint.Patterns, len(patternRows))
	for _, pr := range patternRows {
		key := fingerprint.Pattern{
			FrequencyA:    fingerprint.Frequency(pr.FrequencyA),
			FrequencyB:    fingerprint.Frequency(pr.FrequencyB),
			PositionDelta: fingerprint.SamplePosition(pr.PositionDelta),
		}
		patterns[key] = fingerprint.SamplePosition(pr.AnchorPosition)
	}

	return fingerprint.FromParts(cfg, patterns), true, nil
}

// Put stores fp under contentHash, replacing any prior entry for the
// same hash.
func (c *SQLiteCache) Put(contentHash string, fp *fingerprint.Fingerprint) error {
	if c == nil || c.db == nil {
		return errors.New(errCacheClientNil)
	}

	cfgJSON, err := json.Marshal(fp.Configuration())
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	return c.db.Transaction(func(tx *gorm.DB) error {
		var existing cachedFingerprint
		err := tx.Where("content_hash = ?", contentHash).First(&existing).Error
		switch {
		case err == nil:
			if delErr := tx.Where("fingerprint_id = ?", existing.ID).Delete(&cachedPattern{}).Error; delErr != nil {
				return delErr
			}
			existing.ConfigurationJSON = string(cfgJSON)
			if saveErr := tx.Save(&existing).Error; saveErr != nil {
				return saveErr
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = cachedFingerprint{
				ID:                uuid.NewString(),
				ContentHash:       contentHash,
				ConfigurationJSON: string(cfgJSON),
			}
			if createErr := tx.Create(&existing).Error; createErr != nil {
				return createErr
			}
		default:
			return fmt.Errorf("looking up existing cache entry: %w", err)
		}

		patterns := fp.Patterns()
		rows := make([]cachedPattern, 0, len(patterns))
		for pattern, position := range patterns {
			rows = append(rows, cachedPattern{
				FingerprintID:  existing.ID,
				FrequencyA:     int32(pattern.FrequencyA),
				FrequencyB:     int32(pattern.FrequencyB),
				PositionDelta:  int32(pattern.PositionDelta),
				AnchorPosition: int32(position),
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}
