package index

import (
	"context"
	"strings"

	"github.com/rafacas/dorkhub/internal/models"
)

// Engine answers full-text queries against the corpus.
type Engine struct {
	store Store
}

// NewEngine returns an Engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Search runs a full-text query, optionally restricted to records whose
// source equals sourceFilter exactly. A query that is empty after trimming
// short-circuits to an empty result without touching the corpus. Results are
// capped at MaxResults. A malformed query yields ErrQuerySyntax.
func (e *Engine) Search(ctx context.Context, query, sourceFilter string) ([]models.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return e.store.Search(ctx, query, strings.TrimSpace(sourceFilter))
}

// Count reports the current corpus size. The startup path uses it to decide
// whether an initial rebuild is needed.
func (e *Engine) Count(ctx context.Context) (int64, error) {
	return e.store.Count(ctx)
}
