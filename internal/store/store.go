// Package store persists one document per user: the imported evidence and the
// latest analysis. Writes merge the provided fields onto the stored document.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/career-navigator/internal/analysis"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// ErrNotFound is returned by Load when the user has no document.
var ErrNotFound = errors.New("document not found")

// Document is everything stored for one user.
type Document struct {
	UserID              string                `json:"userId"`
	TargetRole          string                `json:"targetRole,omitempty"`
	ImportedProfileText string                `json:"importedProfileText,omitempty"`
	ResumeText          string                `json:"resumeText,omitempty"`
	RepoSummary         *analysis.RepoSummary `json:"repoSummary,omitempty"`
	Analysis            *analysis.Result      `json:"analysis,omitempty"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// Evidence returns the stored evidence bundle.
func (d *Document) Evidence() analysis.Evidence {
	return analysis.Evidence{
		ImportedProfileText: d.ImportedProfileText,
		ResumeText:          d.ResumeText,
		RepoSummary:         d.RepoSummary,
	}
}

// Patch lists the fields to overwrite. Nil fields leave the stored value as is;
// there is no way to delete a field.
type Patch struct {
	TargetRole          *string
	ImportedProfileText *string
	ResumeText          *string
	RepoSummary         *analysis.RepoSummary
	Analysis            *analysis.Result
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.TargetRole == nil && p.ImportedProfileText == nil && p.ResumeText == nil &&
		p.RepoSummary == nil && p.Analysis == nil
}

// Apply merges p onto doc.
func (p Patch) Apply(doc *Document, now time.Time) {
	if p.TargetRole != nil {
		doc.TargetRole = *p.TargetRole
	}
	if p.ImportedProfileText != nil {
		doc.ImportedProfileText = *p.ImportedProfileText
	}
	if p.ResumeText != nil {
		doc.ResumeText = *p.ResumeText
	}
	if p.RepoSummary != nil {
		summary := *p.RepoSummary
		doc.RepoSummary = &summary
	}
	if p.Analysis != nil {
		result := *p.Analysis
		doc.Analysis = &result
	}
	doc.UpdatedAt = now.UTC()
}

// Store is a durable key-value document store keyed by user id.
type Store interface {
	Load(ctx context.Context, userID string) (*Document, error)
	Merge(ctx context.Context, userID string, patch Patch) (*Document, error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver string       `mapstructure:"driver"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key-prefix"`
	Channel   string `mapstructure:"channel"`
}

// Open returns the backend named by cfg.Driver. An empty driver means sqlite.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLite.Path)
	case DriverRedis:
		return OpenRedis(ctx, cfg.Redis)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func validUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	return nil
}
