package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRAG(t *testing.T, generator Generator) *RAG {
	t.Helper()
	dir := t.TempDir()

	ix, err := OpenIndex(filepath.Join(dir, "search.db"), newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })

	require.NoError(t, ix.Upsert(context.Background(), Entry{
		Filename:  "Episode 1.txt",
		Title:     "Episode 1",
		Content:   "a long conversation about compilers and optimization",
		URL:       "https://www.youtube.com/watch?v=abc123",
		Published: "2024-01-15",
	}))

	catalog := NewCatalog(filepath.Join(dir, "videos.json"), newTestLogger())
	require.NoError(t, catalog.Save([]Video{
		{ID: "abc123", Title: "Episode 1", Published: "2024-01-15"},
		{ID: "def456", Title: "Episode 2"},
	}))

	prompts := NewPromptManager(filepath.Join(dir, "no-config"), "")
	return NewRAG(ix, catalog, generator, prompts, 5, newTestLogger())
}

func TestRAGWithoutGenerator(t *testing.T) {
	rag := newTestRAG(t, nil)

	answer := rag.Answer(context.Background(), "what about compilers?")
	assert.Equal(t, NoGeneratorMessage, answer.Text)
	require.Len(t, answer.Sources, 1, "sources are returned even without a generator")
	assert.Equal(t, "Episode 1", answer.Sources[0].Title)
}

func TestRAGPromptContainsContext(t *testing.T) {
	gen := &fakeGenerator{reply: "They discussed compilers in Episode 1."}
	rag := newTestRAG(t, gen)

	answer := rag.Answer(context.Background(), "what about compilers?")
	assert.Equal(t, "They discussed compilers in Episode 1.", answer.Text)
	require.Len(t, answer.Sources, 1)

	// The prompt carries the question, the full episode list and the
	// matched fragment.
	assert.Contains(t, gen.lastPrompt, "what about compilers?")
	assert.Contains(t, gen.lastPrompt, "ID: abc123 | Title: Episode 1 | Published: 2024-01-15")
	assert.Contains(t, gen.lastPrompt, "ID: def456 | Title: Episode 2 | Published: N/A")
	assert.Contains(t, gen.lastPrompt, "Relevant fragment (Episode 1)")
}

func TestRAGNoMatchesStillAnswers(t *testing.T) {
	gen := &fakeGenerator{reply: "Nothing on that topic yet."}
	rag := newTestRAG(t, gen)

	answer := rag.Answer(context.Background(), "quantum knitting")
	assert.Equal(t, "Nothing on that topic yet.", answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, gen.lastPrompt, "(no matching transcript fragments)")
}

func TestRAGGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	rag := newTestRAG(t, gen)

	answer := rag.Answer(context.Background(), "what about compilers?")
	assert.Equal(t, GenerationFailedMessage, answer.Text)
	require.Len(t, answer.Sources, 1, "sources survive a generation failure")
}
