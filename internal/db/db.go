// Package db opens the application database and owns schema migration and the
// startup admin bootstrap.
package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rafacas/dorkhub/internal/config"
	"github.com/rafacas/dorkhub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by the DSN. A postgres URL or key=value
// DSN selects the postgres driver (with a short retry loop so the server can
// come up alongside the database); anything else is a sqlite file path whose
// parent directory is created on demand.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("DB_DEBUG") == "1" {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if isPostgresDSN(cfg.DSN) {
		var db *gorm.DB
		var err error
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
			if err == nil {
				return db, nil
			}
			log.Printf("db: connection attempt %d/5 failed, retrying", i+1)
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if dir := filepath.Dir(cfg.DSN); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}

// Migrate applies the user directory schema. The corpus schema is owned by
// the index stores, which need DDL GORM cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("automigrate users: %w", err)
	}
	return nil
}
