// Package index builds the searchable dork corpus from content sources and
// answers bounded full-text queries against it.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafacas/dorkhub/internal/models"
	"gorm.io/gorm"
)

// MaxResults caps every search at a fixed number of records.
const MaxResults = 200

// ErrQuerySyntax reports a malformed full-text query. Callers must treat it as
// a handled condition, distinct from a query that matched nothing.
var ErrQuerySyntax = errors.New("malformed search query")

// Store is the corpus storage contract. Replace must be atomic with respect to
// concurrent Search calls: readers see the pre- or post-replace corpus, never
// a partial one.
type Store interface {
	// Init creates the corpus schema if it does not exist.
	Init(ctx context.Context) error
	// Replace swaps the entire corpus for recs in a single transaction.
	Replace(ctx context.Context, recs []models.Record) error
	// Search returns up to MaxResults records whose text matches the
	// full-text query q, optionally restricted to an exact source name.
	// Ordering is deterministic for an unchanged corpus.
	Search(ctx context.Context, q, source string) ([]models.Record, error)
	// Count returns the number of records in the corpus.
	Count(ctx context.Context) (int64, error)
}

// NewStore picks the corpus store matching the database driver.
func NewStore(db *gorm.DB) (Store, error) {
	switch name := db.Dialector.Name(); name {
	case "sqlite", "sqlite3":
		return &sqliteStore{db: db}, nil
	case "postgres":
		return &postgresStore{db: db}, nil
	default:
		return nil, fmt.Errorf("no corpus store for driver %q", name)
	}
}

// insertBatched inserts records in chunks inside the given transaction.
func insertBatched(tx *gorm.DB, table string, recs []models.Record) error {
	const chunk = 100
	for start := 0; start < len(recs); start += chunk {
		end := min(start+chunk, len(recs))
		sql := "INSERT INTO " + table + " (source, origin, key, text) VALUES "
		args := make([]any, 0, (end-start)*4)
		for i, r := range recs[start:end] {
			if i > 0 {
				sql += ", "
			}
			sql += "(?, ?, ?, ?)"
			args = append(args, r.Source, r.Origin, r.Key, r.Text)
		}
		if err := tx.Exec(sql, args...).Error; err != nil {
			return err
		}
	}
	return nil
}
