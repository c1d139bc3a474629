package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rafacas/dorkhub/internal/auth"
	"github.com/rafacas/dorkhub/internal/config"
	"github.com/rafacas/dorkhub/internal/db"
	"github.com/rafacas/dorkhub/internal/index"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := db.EnsureAdmin(dbConn, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		// Documented policy: an unconfigured secret is regenerated per start,
		// which invalidates every outstanding session on restart.
		secret = auth.RandomSecret()
		log.Println("SESSION_SECRET not set; generated a random secret, all sessions will reset on restart")
	}
	codec := auth.NewCodec(secret)

	store, err := index.NewStore(dbConn)
	if err != nil {
		log.Fatalf("Corpus store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		log.Fatalf("Corpus schema: %v", err)
	}

	indexer := index.NewIndexer(store, cfg.Index)
	engine := index.NewEngine(store)

	// Build the corpus on first start; a failed build keeps whatever corpus
	// is already there.
	if n, err := engine.Count(context.Background()); err != nil {
		log.Fatalf("Corpus count: %v", err)
	} else if n == 0 {
		log.Println("Corpus empty, building index...")
		if err := indexer.Rebuild(context.Background()); err != nil {
			log.Printf("Initial index build failed: %v", err)
		}
	}

	sources := make([]string, 0, len(cfg.Index.Sources)+1)
	for _, s := range cfg.Index.Sources {
		sources = append(sources, s.Name)
	}
	sources = append(sources, index.DictionarySource)

	appHandler := NewApp(dbConn, codec, engine, indexer, sources)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
