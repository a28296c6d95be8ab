package internal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"
)

// Entry is one searchable record derived from a transcript file. Filename is
// the unique key; re-indexing a filename replaces its entry.
type Entry struct {
	Filename  string
	Title     string
	Content   string
	URL       string
	Published string
}

// SearchResult is one ranked match with a highlighted excerpt.
type SearchResult struct {
	Filename  string
	Title     string
	URL       string
	Published string
	Snippet   string
	Rank      float64
}

const (
	snippetTokens    = 64
	highlightOpen    = "<b>"
	highlightClose   = "</b>"
	snippetEllipsis  = "..."
	defaultLimit     = 5
	createSearchDDL  = `
		CREATE VIRTUAL TABLE IF NOT EXISTS transcripts_search USING fts5(
			filename,
			title,
			content,
			url,
			published,
			tokenize='porter'
		)`
)

// Index is the persistent full-text index over transcripts, backed by a
// SQLite FTS5 table. Opened in WAL mode so the sync writer and concurrent
// readers in other processes never corrupt each other's view.
type Index struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(path string, logger *slog.Logger) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(createSearchDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating search table: %w", err)
	}

	return &Index{db: db, path: path, logger: logger}, nil
}

// Path returns the index database location.
func (ix *Index) Path() string {
	return ix.path
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Upsert replaces any existing entry for e.Filename with e. Delete and insert
// run in one transaction so concurrent readers never observe a half-replaced
// entry and a crash mid-call cannot lose the old entry without the new one.
func (ix *Index) Upsert(ctx context.Context, e Entry) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM transcripts_search WHERE filename = ?", e.Filename); err != nil {
		return fmt.Errorf("removing old index entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transcripts_search (filename, title, content, url, published)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Filename, e.Title, e.Content, e.URL, e.Published); err != nil {
		return fmt.Errorf("inserting index entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index transaction: %w", err)
	}
	return nil
}

// Search runs a ranked relevance query and returns up to limit results, best
// match first. Each result carries a bounded excerpt with highlight markers
// around matched terms. An empty or malformed query yields an empty slice,
// never an error.
func (ix *Index) Search(ctx context.Context, query string, limit int) []SearchResult {
	match := buildMatchExpr(query)
	if match == "" {
		return nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := ix.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			filename,
			title,
			url,
			published,
			snippet(transcripts_search, 2, '%s', '%s', '%s', %d),
			rank
		FROM transcripts_search
		WHERE transcripts_search MATCH ?
		ORDER BY rank
		LIMIT ?`, highlightOpen, highlightClose, snippetEllipsis, snippetTokens),
		match, limit)
	if err != nil {
		ix.logger.Error("search query failed", "query", query, "error", err)
		return nil
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Filename, &r.Title, &r.URL, &r.Published, &r.Snippet, &r.Rank); err != nil {
			ix.logger.Error("scanning search result", "error", err)
			return results
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		ix.logger.Error("iterating search results", "error", err)
	}
	return results
}

// buildMatchExpr turns free-form user input into a safe FTS5 MATCH
// expression. Each token is quoted so user punctuation cannot inject query
// syntax; tokens without any letter or digit are dropped. An empty result
// means there is nothing to search for.
func buildMatchExpr(query string) string {
	var quoted []string
	for _, token := range strings.Fields(query) {
		if !strings.ContainsFunc(token, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(token, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
