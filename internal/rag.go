package internal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// NoGeneratorMessage is returned when no API credential is configured.
	// Missing credentials are a configuration state, not an error.
	NoGeneratorMessage = "The assistant is not configured: no API key is set, so questions cannot be answered right now."

	// GenerationFailedMessage is returned when the generation collaborator
	// fails; the underlying error is logged, never surfaced to the caller.
	GenerationFailedMessage = "Sorry, something went wrong while answering your question. Please try again."
)

// Answer is a generated response together with the transcript excerpts that
// grounded it.
type Answer struct {
	Text    string
	Sources []SearchResult
}

// RAG answers questions about episodes by combining ranked transcript
// snippets with the full catalog listing and delegating to the generation
// collaborator. Snippet search finds what was said; the catalog listing lets
// the model answer enumeration, ordering and counting questions that snippet
// search alone cannot.
type RAG struct {
	index     *Index
	catalog   *Catalog
	generator Generator
	prompts   *PromptManager
	limit     int
	logger    *slog.Logger
}

// NewRAG creates the query service. generator may be nil when no credential
// is configured; Answer then degrades to a deterministic message.
func NewRAG(index *Index, catalog *Catalog, generator Generator, prompts *PromptManager, limit int, logger *slog.Logger) *RAG {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &RAG{
		index:     index,
		catalog:   catalog,
		generator: generator,
		prompts:   prompts,
		limit:     limit,
		logger:    logger,
	}
}

// Answer responds to a free-form question. It never returns an error: every
// failure mode degrades to a fixed message, with the matched sources still
// attached so callers can show what was found.
func (r *RAG) Answer(ctx context.Context, query string) Answer {
	results := r.index.Search(ctx, query, r.limit)

	if r.generator == nil {
		return Answer{Text: NoGeneratorMessage, Sources: results}
	}

	prompt, err := r.prompts.BuildPrompt(PromptData{
		Query:    query,
		Episodes: r.episodeListing(),
		Snippets: formatSnippets(results),
	})
	if err != nil {
		r.logger.Error("building answer prompt", "error", err)
		return Answer{Text: GenerationFailedMessage, Sources: results}
	}

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.logger.Error("generating answer", "error", err)
		return Answer{Text: GenerationFailedMessage, Sources: results}
	}

	return Answer{Text: text, Sources: results}
}

// episodeListing renders the catalog as a compact listing, one line per
// episode.
func (r *RAG) episodeListing() string {
	videos := r.catalog.Load()
	if len(videos) == 0 {
		return "(no episodes recorded yet)"
	}

	var sb strings.Builder
	for i, v := range videos {
		published := v.Published
		if published == "" {
			published = "N/A"
		}
		fmt.Fprintf(&sb, "- ID: %s | Title: %s | Published: %s", v.ID, v.Title, published)
		if i < len(videos)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatSnippets renders the matched excerpts as prompt context.
func formatSnippets(results []SearchResult) string {
	if len(results) == 0 {
		return "(no matching transcript fragments)"
	}

	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, fmt.Sprintf("Relevant fragment (%s): ...%s...", res.Title, res.Snippet))
	}
	return strings.Join(parts, "\n\n")
}
