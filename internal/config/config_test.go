package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if len(cfg.Index.Sources) != 2 {
		t.Fatalf("default sources = %d, want 2", len(cfg.Index.Sources))
	}
	if cfg.Index.Sources[0].Name != "google-dork" || cfg.Index.Sources[1].Name != "lists" {
		t.Errorf("unexpected default source order: %+v", cfg.Index.Sources)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CONTENT_DIR", "/srv/dorks")
	t.Setenv("DORK_SOURCES", "primary=lists/a, extra=/abs/b ,broken,=missing")
	t.Setenv("DICTIONARY_PATH", "dict.json")
	t.Setenv("SESSION_SECRET", "topsecret")

	cfg := Load()
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %s, want 9000", cfg.Server.Port)
	}
	if cfg.Session.Secret != "topsecret" {
		t.Errorf("secret = %s", cfg.Session.Secret)
	}
	if got := cfg.Index.DictionaryPath; got != filepath.Join("/srv/dorks", "dict.json") {
		t.Errorf("dictionary path = %s", got)
	}

	want := []Source{
		{Name: "primary", Path: filepath.Join("/srv/dorks", "lists/a")},
		{Name: "extra", Path: "/abs/b"},
	}
	if len(cfg.Index.Sources) != len(want) {
		t.Fatalf("sources = %+v, want %+v", cfg.Index.Sources, want)
	}
	for i := range want {
		if cfg.Index.Sources[i] != want[i] {
			t.Errorf("source[%d] = %+v, want %+v", i, cfg.Index.Sources[i], want[i])
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "notanumber")
	cfg := Load()
	if cfg.Server.ReadTimeout != 15 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.Server.ReadTimeout)
	}
}
