package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// unsafeFilenameChars removes characters that are invalid or troublesome in
// filenames on common filesystems. Titles are used as filenames, so the same
// sanitization must be applied everywhere a transcript is referenced.
var unsafeFilenameChars = strings.NewReplacer(
	"\\", "",
	"/", "",
	"*", "",
	"?", "",
	":", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeTitle strips filesystem-unsafe characters from a video title.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(unsafeFilenameChars.Replace(title))
}

// TranscriptFilename derives the transcript filename for a video title.
// The filename is the transcript's identity: its presence marks the video as
// already fetched, and it keys the entry in the search index.
func TranscriptFilename(title string) string {
	return SanitizeTitle(title) + ".txt"
}

// TranscriptStore keeps one normalized plain-text file per episode under a
// dedicated directory.
type TranscriptStore struct {
	dir string
}

// NewTranscriptStore creates a store rooted at dir.
func NewTranscriptStore(dir string) *TranscriptStore {
	return &TranscriptStore{dir: dir}
}

// Dir returns the transcript directory.
func (s *TranscriptStore) Dir() string {
	return s.dir
}

// StemPath returns the directory-qualified filename stem for a title, used as
// the output template for subtitle downloads.
func (s *TranscriptStore) StemPath(title string) string {
	return filepath.Join(s.dir, SanitizeTitle(title))
}

// Exists reports whether a transcript file is already present.
func (s *TranscriptStore) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil
}

// Save writes a transcript file.
func (s *TranscriptStore) Save(filename, text string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating transcripts directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), []byte(text), 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// Read returns the content of a transcript file.
func (s *TranscriptStore) Read(filename string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}

// FindArtifact locates an intermediate subtitle file produced for the given
// title, e.g. "<title>.es.srt". Returns false when the download produced
// nothing, which is an expected outcome for videos without captions.
func (s *TranscriptStore) FindArtifact(title string) (string, bool) {
	stem := SanitizeTitle(title)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, stem) {
			continue
		}
		if strings.HasSuffix(name, ".srt") || strings.HasSuffix(name, ".vtt") {
			return filepath.Join(s.dir, name), true
		}
	}
	return "", false
}
