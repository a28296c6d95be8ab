package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Video is one known episode in the catalog.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
	Published string `json:"published"`
}

// Catalog persists the ordered list of known videos as a JSON file. It is the
// system of record for which episodes exist; the sync orchestrator rewrites
// the full list on every successful run.
type Catalog struct {
	path   string
	logger *slog.Logger
}

// NewCatalog creates a catalog backed by the given JSON file.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	return &Catalog{path: path, logger: logger}
}

// Path returns the catalog file location.
func (c *Catalog) Path() string {
	return c.path
}

// Load reads the catalog. A missing or unparseable file yields an empty list;
// corruption is logged but never aborts the caller.
func (c *Catalog) Load() []Video {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Error("reading catalog", "path", c.path, "error", err)
		}
		return nil
	}

	var videos []Video
	if err := json.Unmarshal(data, &videos); err != nil {
		c.logger.Error("catalog file is corrupt, treating as empty", "path", c.path, "error", err)
		return nil
	}
	return videos
}

// Save writes the full video list, replacing the previous catalog atomically
// so readers never observe a partially written file.
func (c *Catalog) Save(videos []Video) error {
	if videos == nil {
		videos = []Video{}
	}
	if err := writeJSONAtomic(c.path, videos); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// writeJSONAtomic marshals v and replaces path via a temp file and rename.
func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
