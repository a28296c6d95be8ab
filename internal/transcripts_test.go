package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"clean", "Episode 12", "Episode 12"},
		{"slashes", `AC/DC: the "best" of?`, "ACDC the best of"},
		{"all unsafe chars", `a\b/c*d?e:f"g<h>i|j`, "abcdefghij"},
		{"surrounding space", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTitle(tt.title))
		})
	}
}

func TestTranscriptFilename(t *testing.T) {
	assert.Equal(t, "Episode 1 intro.txt", TranscriptFilename("Episode 1: intro?"))
}

func TestTranscriptStoreSaveReadExists(t *testing.T) {
	store := NewTranscriptStore(filepath.Join(t.TempDir(), "transcripts"))

	filename := TranscriptFilename("Some Episode")
	assert.False(t, store.Exists(filename))

	require.NoError(t, store.Save(filename, "hello world"))
	assert.True(t, store.Exists(filename))

	content, err := store.Read(filename)
	require.NoError(t, err)
	assert.Equal(t, "hello world", content)
}

func TestTranscriptStoreReadMissing(t *testing.T) {
	store := NewTranscriptStore(t.TempDir())
	_, err := store.Read("nope.txt")
	assert.Error(t, err)
}

func TestFindArtifact(t *testing.T) {
	dir := t.TempDir()
	store := NewTranscriptStore(dir)

	_, ok := store.FindArtifact("Episode 3")
	assert.False(t, ok)

	artifact := filepath.Join(dir, "Episode 3.es.srt")
	require.NoError(t, os.WriteFile(artifact, []byte(sampleSRT), 0644))

	found, ok := store.FindArtifact("Episode 3")
	require.True(t, ok)
	assert.Equal(t, artifact, found)
}

func TestFindArtifactIgnoresOtherStems(t *testing.T) {
	dir := t.TempDir()
	store := NewTranscriptStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Other Episode.en.vtt"), []byte("x"), 0644))

	_, ok := store.FindArtifact("Episode 3")
	assert.False(t, ok)
}
