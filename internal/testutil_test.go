package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a config rooted in a temp directory so every test run is
// isolated and self-cleaning.
func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		PlaylistURL:    "https://www.youtube.com/playlist?list=PLtest",
		SubLangs:       "es,en",
		ListTimeout:    10 * time.Second,
		FetchTimeout:   10 * time.Second,
		AnswerTimeout:  10 * time.Second,
		SearchLimit:    5,
		ConfigDir:      filepath.Join(dir, "config"),
		DataDir:        filepath.Join(dir, "data"),
		CacheDir:       filepath.Join(dir, "cache"),
		TranscriptsDir: filepath.Join(dir, "data", "transcripts"),
		CatalogPath:    filepath.Join(dir, "data", "videos.json"),
		RunRecordPath:  filepath.Join(dir, "data", "sync_log.json"),
		IndexPath:      filepath.Join(dir, "data", "search.db"),
		LockPath:       filepath.Join(dir, "data", "sync.lock"),
	}
}

// fakePlatform is an in-memory Platform. Subtitles are keyed by video ID;
// a listed video without an entry simulates a video that has no captions.
type fakePlatform struct {
	videos  []Video
	listErr error

	subs     map[string]string
	fetchErr error

	listCalls  int
	fetchCalls int
}

func (p *fakePlatform) ListVideos(ctx context.Context, playlistURL string) ([]Video, error) {
	p.listCalls++
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.videos, nil
}

func (p *fakePlatform) FetchSubtitles(ctx context.Context, videoID, outputStem string) error {
	p.fetchCalls++
	if p.fetchErr != nil {
		return p.fetchErr
	}
	raw, ok := p.subs[videoID]
	if !ok {
		// The tool ran fine but the video has no captions, so no file
		// appears. Callers detect this by the missing artifact.
		return nil
	}
	return os.WriteFile(outputStem+".es.srt", []byte(raw), 0644)
}

// fakeGenerator records the prompt it received and returns a canned reply.
type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

const sampleSRT = `1
00:00:01,000 --> 00:00:04,000
welcome back to the show

2
00:00:04,000 --> 00:00:08,000
today we talk about compilers
`
