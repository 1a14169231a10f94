// Package buildcache implements the whole-program recompilation cache:
// one row per (source hash, target backend) pair, storing the emitted
// artifact text so a later identical build can skip straight to
// re-emitting it. Uses gorm.io/gorm over glebarez/sqlite, a pure-Go
// SQLite driver, so the cache needs no cgo toolchain.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Artifact is one cached build result, keyed by (SourceHash, Target).
type Artifact struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	SourceHash string `gorm:"type:varchar(64);uniqueIndex:idx_hash_target"`
	Target     string `gorm:"type:varchar(8);uniqueIndex:idx_hash_target"`
	Text       string `gorm:"type:text"`
	DurationMs int64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Cache wraps the underlying database handle.
type Cache struct {
	db *gorm.DB
}

// Open connects to (creating if absent) the SQLite database at path and
// runs the schema migration.
func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть кэш сборки %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Artifact{}); err != nil {
		return nil, fmt.Errorf("не удалось создать схему кэша сборки: %w", err)
	}
	return &Cache{db: db}, nil
}

// Hash returns the cache key for a source file's content.
func Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached artifact text for (hash, target), and
// whether it was found.
func (c *Cache) Lookup(hash, target string) (*Artifact, bool) {
	var a Artifact
	if err := c.db.Where("source_hash = ? AND target = ?", hash, target).First(&a).Error; err != nil {
		return nil, false
	}
	return &a, true
}

// Store records a freshly compiled artifact, replacing any prior entry
// for the same (hash, target) pair.
func (c *Cache) Store(hash, target, text string, duration time.Duration) (*Artifact, error) {
	c.db.Where("source_hash = ? AND target = ?", hash, target).Delete(&Artifact{})
	a := &Artifact{
		ID:         uuid.NewString(),
		SourceHash: hash,
		Target:     target,
		Text:       text,
		DurationMs: duration.Milliseconds(),
	}
	if err := c.db.Create(a).Error; err != nil {
		return nil, fmt.Errorf("не удалось сохранить результат в кэш: %w", err)
	}
	return a, nil
}
