// Package config provides application configuration loaded from environment variables.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	Index    IndexConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the connection string. A postgres:// URL selects the
// postgres driver; anything else is treated as a sqlite file path.
type DatabaseConfig struct {
	DSN string
}

// SessionConfig holds the cookie signing secret. An empty Secret means the
// server generates a random one at startup, which logs out every session on
// restart.
type SessionConfig struct {
	Secret string
}

// AdminConfig holds the optional bootstrap account. When both values are set,
// startup promotes a matching user to admin+active or creates one.
type AdminConfig struct {
	Username string
	Password string
}

// Source names one content root the indexer walks.
type Source struct {
	Name string
	Path string
}

// IndexConfig holds the content roots and the dictionary resource.
type IndexConfig struct {
	ContentDir     string
	Sources        []Source
	DictionaryPath string
}

// Load reads configuration from environment variables with local-dev defaults.
func Load() *Config {
	contentDir := getEnv("CONTENT_DIR", ".")
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", filepath.Join("data", "app.db")),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Index: IndexConfig{
			ContentDir:     contentDir,
			Sources:        parseSources(getEnv("DORK_SOURCES", "google-dork=google-dork,lists=lists"), contentDir),
			DictionaryPath: resolve(contentDir, getEnv("DICTIONARY_PATH", filepath.Join("tools", "lists", "dorks.json"))),
		},
	}
}

// parseSources parses an ordered "name=path,name=path" list. Relative paths
// are resolved against contentDir. Malformed entries are skipped with a log
// line rather than failing startup.
func parseSources(raw, contentDir string) []Source {
	var out []Source
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, path, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		path = strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			log.Printf("config: skipping malformed source entry %q", entry)
			continue
		}
		out = append(out, Source{Name: name, Path: resolve(contentDir, path)})
	}
	return out
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}
