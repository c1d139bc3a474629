package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafacas/dorkhub/internal/models"
	"gorm.io/gorm"
)

// sqliteStore keeps the corpus in an FTS5 virtual table. The unicode61
// tokenizer gives case-insensitive, unicode-aware token matching.
type sqliteStore struct {
	db *gorm.DB
}

func (s *sqliteStore) Init(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS dorks_fts USING fts5(
			source,
			origin,
			key,
			text,
			tokenize='unicode61'
		)`).Error
}

func (s *sqliteStore) Replace(ctx context.Context, recs []models.Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM dorks_fts`).Error; err != nil {
			return err
		}
		return insertBatched(tx, "dorks_fts", recs)
	})
}

func (s *sqliteStore) Search(ctx context.Context, q, source string) ([]models.Record, error) {
	// Scope the match to the text column so tokens from origin paths or keys
	// never satisfy a query.
	match := "text : (" + q + ")"

	query := s.db.WithContext(ctx).
		Table("dorks_fts").
		Select("source, origin, key, text").
		Where("dorks_fts MATCH ?", match)
	if source != "" {
		query = query.Where("source = ?", source)
	}

	var out []models.Record
	err := query.Order("rowid").Limit(MaxResults).Scan(&out).Error
	if err != nil {
		if isFTSSyntaxError(err) {
			return nil, fmt.Errorf("%w: %v", ErrQuerySyntax, err)
		}
		return nil, err
	}
	return out, nil
}

func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table("dorks_fts").Count(&n).Error
	return n, err
}

// isFTSSyntaxError recognises the errors FTS5 raises for queries it cannot
// parse, including column filters naming columns that do not exist.
func isFTSSyntaxError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "fts5") ||
		strings.Contains(msg, "syntax error") ||
		strings.Contains(msg, "unterminated string") ||
		strings.Contains(msg, "unknown special query") ||
		strings.Contains(msg, "no such column")
}
