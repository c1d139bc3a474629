package index

import (
	"bufio"
	"context"
	"encoding/json"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rafacas/dorkhub/internal/config"
	"github.com/rafacas/dorkhub/internal/models"
)

// DictionarySource is the source tag of records loaded from the dictionary
// resource, mirroring the resource's file name.
const DictionarySource = "dorks.json"

// Indexer walks the configured content sources and replaces the corpus
// wholesale. Rebuilds are serialised; readers keep seeing the previous corpus
// until the replacing transaction commits.
type Indexer struct {
	store Store
	cfg   config.IndexConfig

	mu sync.Mutex
}

// NewIndexer returns an Indexer over the given store and content config.
func NewIndexer(store Store, cfg config.IndexConfig) *Indexer {
	return &Indexer{store: store, cfg: cfg}
}

// Rebuild regenerates the entire corpus from the content sources and the
// dictionary resource. Individual unreadable files are skipped; only a storage
// failure aborts the run, and an aborted run leaves the previous corpus
// intact because all records are collected before the store swap.
func (ix *Indexer) Rebuild(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var recs []models.Record
	for _, src := range ix.cfg.Sources {
		recs = append(recs, ix.collectSource(src)...)
	}
	recs = append(recs, ix.collectDictionary()...)

	return ix.store.Replace(ctx, recs)
}

// collectSource walks one source root and turns every surviving line of every
// text-like file into a record. A missing root is not an error.
func (ix *Indexer) collectSource(src config.Source) []models.Record {
	var recs []models.Record
	err := filepath.WalkDir(src.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == src.Path {
				return filepath.SkipAll
			}
			log.Printf("index: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !allowedExt(path) {
			return nil
		}

		lines, err := readLines(path)
		if err != nil {
			log.Printf("index: skipping %s: %v", path, err)
			return nil
		}
		origin := ix.origin(path)
		for i, line := range lines {
			recs = append(recs, models.Record{
				Source: src.Name,
				Origin: origin,
				Key:    strconv.Itoa(i + 1),
				Text:   line,
			})
		}
		return nil
	})
	if err != nil {
		log.Printf("index: walking %s: %v", src.Path, err)
	}
	return recs
}

// collectDictionary loads the flat string-to-string dictionary resource, if
// present. Keys are sorted so rebuilds produce a stable record order.
func (ix *Indexer) collectDictionary() []models.Record {
	path := ix.cfg.DictionaryPath
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("index: skipping dictionary %s: %v", path, err)
		}
		return nil
	}
	var dict map[string]string
	if err := json.Unmarshal(raw, &dict); err != nil {
		log.Printf("index: skipping dictionary %s: %v", path, err)
		return nil
	}

	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	origin := ix.origin(path)
	recs := make([]models.Record, 0, len(keys))
	for _, k := range keys {
		recs = append(recs, models.Record{
			Source: DictionarySource,
			Origin: origin,
			Key:    k,
			Text:   dict[k],
		})
	}
	return recs
}

// origin is the record origin tag: the path relative to the content root,
// slash-separated regardless of platform.
func (ix *Indexer) origin(path string) string {
	if rel, err := filepath.Rel(ix.cfg.ContentDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// allowedExt reports whether the file looks like dork content: plain text,
// the .dorks convention, or no extension at all.
func allowedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".dorks", "":
		return true
	}
	return false
}

// readLines returns the searchable lines of a file: trimmed, non-blank, and
// not comments. Bytes that are not valid UTF-8 are dropped rather than
// failing the file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), ""))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
