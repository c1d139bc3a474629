package main

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/rafacas/dorkhub/internal/auth"
	"github.com/rafacas/dorkhub/internal/handlers"
	"github.com/rafacas/dorkhub/internal/index"
	"github.com/rafacas/dorkhub/internal/policy"
	"gorm.io/gorm"
)

//go:embed static
var staticFiles embed.FS

// App is the main application handler that sets up all routes.
type App struct {
	mux  *http.ServeMux
	gate *policy.Gate
}

// NewApp wires the handlers to the route table.
func NewApp(db *gorm.DB, codec *auth.Codec, engine *index.Engine, indexer *index.Indexer, sources []string) *App {
	app := &App{
		mux:  http.NewServeMux(),
		gate: policy.NewGate(db, codec),
	}

	ah := handlers.NewAuthHandler(db, codec, app.gate)
	sh := handlers.NewSearchHandler(engine, sources)
	adm := handlers.NewAdminHandler(db, indexer)
	lh := handlers.NewLaunchHandler()

	// Public routes
	app.mux.HandleFunc("GET /login", ah.Login)
	app.mux.HandleFunc("POST /login", ah.Login)
	app.mux.HandleFunc("POST /logout", ah.Logout)

	// Authenticated routes
	app.mux.Handle("GET /{$}", app.requireUser(http.HandlerFunc(sh.Home)))
	app.mux.Handle("GET /search", app.requireUser(http.HandlerFunc(sh.Search)))
	app.mux.Handle("GET /api/search", app.requireUser(http.HandlerFunc(sh.SearchAPI)))
	app.mux.Handle("GET /help", app.requireUser(http.HandlerFunc(sh.Help)))
	app.mux.Handle("GET /help/wizard", app.requireUser(http.HandlerFunc(sh.HelpWizard)))
	app.mux.Handle("GET /dorks/open", app.requireUser(http.HandlerFunc(lh.Open)))

	// Admin routes
	app.mux.Handle("GET /admin/users", app.requireAdmin(http.HandlerFunc(adm.List)))
	app.mux.Handle("POST /admin/users/create", app.requireAdmin(http.HandlerFunc(adm.Create)))
	app.mux.Handle("POST /admin/users/{id}/toggle", app.requireAdmin(http.HandlerFunc(adm.Toggle)))
	app.mux.Handle("POST /admin/users/{id}/reset", app.requireAdmin(http.HandlerFunc(adm.Reset)))
	app.mux.Handle("POST /admin/reindex", app.requireAdmin(http.HandlerFunc(adm.Reindex)))

	// Static files
	staticFS, _ := fs.Sub(staticFiles, "static")
	app.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *App) requireUser(next http.Handler) http.Handler {
	return a.gate.RequireUser(next)
}

func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.gate.RequireAdmin(next)
}
