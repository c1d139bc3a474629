package index

import (
	"context"

	"github.com/rafacas/dorkhub/internal/models"
	"gorm.io/gorm"
)

// postgresStore keeps the corpus in a plain table with a stored tsvector
// column over text and a GIN index. websearch_to_tsquery tolerates arbitrary
// user input, so malformed-query errors do not occur on this backend.
type postgresStore struct {
	db *gorm.DB
}

func (s *postgresStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dork_records (
			id bigserial PRIMARY KEY,
			source text NOT NULL,
			origin text NOT NULL,
			key text NOT NULL,
			text text NOT NULL,
			tsv tsvector GENERATED ALWAYS AS (to_tsvector('simple', text)) STORED
		)`,
		`CREATE INDEX IF NOT EXISTS dork_records_tsv_idx ON dork_records USING gin (tsv)`,
		`CREATE INDEX IF NOT EXISTS dork_records_source_idx ON dork_records (source)`,
	}
	for _, stmt := range stmts {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *postgresStore) Replace(ctx context.Context, recs []models.Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM dork_records`).Error; err != nil {
			return err
		}
		return insertBatched(tx, "dork_records", recs)
	})
}

func (s *postgresStore) Search(ctx context.Context, q, source string) ([]models.Record, error) {
	query := s.db.WithContext(ctx).
		Table("dork_records").
		Select("source, origin, key, text").
		Where("tsv @@ websearch_to_tsquery('simple', ?)", q)
	if source != "" {
		query = query.Where("source = ?", source)
	}

	var out []models.Record
	if err := query.Order("id").Limit(MaxResults).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *postgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table("dork_records").Count(&n).Error
	return n, err
}
