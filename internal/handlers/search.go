package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/rafacas/dorkhub/internal/httpx"
	"github.com/rafacas/dorkhub/internal/index"
	"github.com/rafacas/dorkhub/internal/models"
	"github.com/rafacas/dorkhub/internal/policy"
	"github.com/rafacas/dorkhub/internal/view"
)

const msgBadQuery = "Could not parse that query. Quote special characters or simplify it."

type SearchHandler struct {
	engine *index.Engine
	// sources, in configured order, for the filter dropdown
	sources []string
}

func NewSearchHandler(engine *index.Engine, sources []string) *SearchHandler {
	return &SearchHandler{engine: engine, sources: sources}
}

// Home renders the empty search page.
func (h *SearchHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "", "", nil, "")
}

// Search runs the query and renders the results.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	source := r.URL.Query().Get("source")

	hits, err := h.engine.Search(r.Context(), q, source)
	if err != nil {
		if errors.Is(err, index.ErrQuerySyntax) {
			h.render(w, r, q, source, nil, msgBadQuery)
			return
		}
		log.Printf("search: %v", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	h.render(w, r, q, source, hits, "")
}

// SearchAPI is the JSON counterpart used by the frontend script.
func (h *SearchHandler) SearchAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	source := r.URL.Query().Get("source")

	hits, err := h.engine.Search(r.Context(), q, source)
	if err != nil {
		if errors.Is(err, index.ErrQuerySyntax) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_query", nil)
			return
		}
		log.Printf("search: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}
	if hits == nil {
		hits = []models.Record{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"hits": hits})
}

func (h *SearchHandler) Help(w http.ResponseWriter, r *http.Request) {
	p := policy.FromContext(r.Context())
	view.Render(w, "help.html", map[string]any{"User": p.User})
}

func (h *SearchHandler) HelpWizard(w http.ResponseWriter, r *http.Request) {
	p := policy.FromContext(r.Context())
	view.Render(w, "help_wizard.html", map[string]any{"User": p.User})
}

func (h *SearchHandler) render(w http.ResponseWriter, r *http.Request, q, source string, hits []models.Record, errMsg string) {
	p := policy.FromContext(r.Context())
	err := view.Render(w, "search.html", map[string]any{
		"User":    p.User,
		"Query":   q,
		"Source":  source,
		"Sources": h.sources,
		"Hits":    hits,
		"Error":   errMsg,
	})
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
