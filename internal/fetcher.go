package internal

import (
	"context"
	"log/slog"
	"os"
)

// Outcome reports the result of a transcript fetch attempt.
type Outcome int

const (
	// Skipped means the transcript already exists; no network call was made.
	Skipped Outcome = iota
	// Fetched means a new transcript was downloaded, normalized and saved.
	Fetched
	// Failed means the download did not produce a transcript. This covers
	// timeouts, tool errors and videos that simply have no captions; all are
	// expected, non-fatal and retried naturally on the next sync.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Fetched:
		return "fetched"
	default:
		return "failed"
	}
}

// Fetcher downloads and normalizes the transcript for a single video.
type Fetcher struct {
	platform Platform
	store    *TranscriptStore
	logger   *slog.Logger
}

// NewFetcher creates a transcript fetcher.
func NewFetcher(platform Platform, store *TranscriptStore, logger *slog.Logger) *Fetcher {
	return &Fetcher{platform: platform, store: store, logger: logger}
}

// Fetch retrieves the transcript for one video. It never returns an error:
// every failure mode is logged and reported as Failed so one bad video cannot
// abort a batch. Calling it again after a Fetched result is cheap and yields
// Skipped.
func (f *Fetcher) Fetch(ctx context.Context, video Video) Outcome {
	filename := TranscriptFilename(video.Title)
	if f.store.Exists(filename) {
		return Skipped
	}

	if err := os.MkdirAll(f.store.Dir(), 0755); err != nil {
		f.logger.Error("creating transcripts directory", "error", err)
		return Failed
	}

	f.logger.Info("downloading transcript", "video", video.ID, "title", video.Title)
	if err := f.platform.FetchSubtitles(ctx, video.ID, f.store.StemPath(video.Title)); err != nil {
		f.logger.Error("subtitle download failed", "video", video.ID, "title", video.Title, "error", err)
		return Failed
	}

	artifact, ok := f.store.FindArtifact(video.Title)
	if !ok {
		f.logger.Warn("no subtitles available", "video", video.ID, "title", video.Title)
		return Failed
	}

	raw, err := os.ReadFile(artifact)
	if err != nil {
		f.logger.Error("reading subtitle file", "path", artifact, "error", err)
		return Failed
	}

	if err := f.store.Save(filename, Normalize(string(raw))); err != nil {
		f.logger.Error("saving transcript", "file", filename, "error", err)
		return Failed
	}

	if err := os.Remove(artifact); err != nil {
		f.logger.Warn("removing subtitle artifact", "path", artifact, "error", err)
	}

	f.logger.Info("transcript saved", "file", filename)
	return Fetched
}
