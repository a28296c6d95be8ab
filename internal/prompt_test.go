package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptEmbeddedDefault(t *testing.T) {
	pm := NewPromptManager(filepath.Join(t.TempDir(), "no-config"), "")

	prompt, err := pm.BuildPrompt(PromptData{
		Query:    "what about compilers?",
		Episodes: "- ID: abc123 | Title: Episode 1 | Published: 2024-01-15",
		Snippets: "Relevant fragment (Episode 1): ...compilers...",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "what about compilers?")
	assert.Contains(t, prompt, "Episode 1")
	assert.Contains(t, prompt, "compilers")
}

func TestBuildPromptInlineString(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "Q: {{.Query}} Context: {{.Snippets}}")

	prompt, err := pm.BuildPrompt(PromptData{Query: "why?", Snippets: "because"})
	require.NoError(t, err)
	assert.Equal(t, "Q: why? Context: because", prompt)
}

func TestBuildPromptFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.txt")
	require.NoError(t, os.WriteFile(path, []byte("custom template: {{.Query}}"), 0644))

	pm := NewPromptManager(dir, path)
	prompt, err := pm.BuildPrompt(PromptData{Query: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "custom template: hello", prompt)
}

func TestBuildPromptConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte("from config dir: {{.Query}}"), 0644))

	pm := NewPromptManager(dir, "")
	prompt, err := pm.BuildPrompt(PromptData{Query: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from config dir: hi", prompt)
}

func TestBuildPromptInvalidTemplate(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "{{.Query")
	_, err := pm.BuildPrompt(PromptData{Query: "x"})
	assert.Error(t, err)
}

func TestIsLikelyFilePath(t *testing.T) {
	assert.True(t, IsLikelyFilePath("/etc/prompt.txt"))
	assert.True(t, IsLikelyFilePath("prompt.txt"))
	assert.True(t, IsLikelyFilePath("templates/answer.tmpl"))
	assert.False(t, IsLikelyFilePath("Answer the question: {{.Query}}"))
	assert.False(t, IsLikelyFilePath("multi word prompt"))
}
