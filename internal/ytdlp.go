package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// Platform lists channel videos and retrieves subtitle files. The production
// implementation shells out to yt-dlp; tests inject fakes to exercise failure
// paths without network access.
type Platform interface {
	// ListVideos returns the current videos of a playlist, newest first as
	// reported by the platform. Shorts and private/deleted entries are
	// filtered out.
	ListVideos(ctx context.Context, playlistURL string) ([]Video, error)

	// FetchSubtitles downloads the best available subtitle track for a video
	// as "<outputStem>.<lang>.srt", skipping the media itself. It is not an
	// error for a video to have no subtitles; in that case no file appears.
	FetchSubtitles(ctx context.Context, videoID, outputStem string) error
}

// EnsureYTDLP makes sure the yt-dlp binary is available, downloading it if
// necessary. Commands that never touch the platform skip this.
func EnsureYTDLP(ctx context.Context) {
	ytdlp.MustInstall(ctx, nil)
}

// maxPlaylistPage bounds how many playlist entries a single listing fetch
// may return.
const maxPlaylistPage = 1000

// YTDLP implements Platform using the yt-dlp command line tool.
type YTDLP struct {
	subLangs     string
	listTimeout  time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewYTDLP creates the yt-dlp backed platform client. subLangs is a comma
// separated preference list such as "es,en".
func NewYTDLP(subLangs string, listTimeout, fetchTimeout time.Duration, logger *slog.Logger) *YTDLP {
	return &YTDLP{
		subLangs:     subLangs,
		listTimeout:  listTimeout,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// playlistEntry is the subset of yt-dlp's flat playlist JSON we consume.
type playlistEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	WebpageURL string `json:"webpage_url"`
}

// ListVideos fetches the playlist as one JSON record per line via
// "--dump-json --flat-playlist" and converts entries into catalog videos.
func (p *YTDLP) ListVideos(ctx context.Context, playlistURL string) ([]Video, error) {
	ctx, cancel := context.WithTimeout(ctx, p.listTimeout)
	defer cancel()

	dl := ytdlp.New().
		DumpJSON().
		FlatPlaylist().
		PlaylistEnd(maxPlaylistPage).
		SkipDownload()

	result, err := dl.Run(ctx, playlistURL)
	if err != nil {
		if result != nil && result.Stderr != "" {
			return nil, fmt.Errorf("listing playlist: %w: %s", err, result.Stderr)
		}
		return nil, fmt.Errorf("listing playlist: %w", err)
	}

	var videos []Video
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry playlistEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// Flat playlist output occasionally interleaves non-JSON noise.
			continue
		}
		if entry.ID == "" {
			continue
		}

		url := entry.URL
		if url == "" {
			url = entry.WebpageURL
		}
		if skipListing(url, entry.Title) {
			continue
		}

		videos = append(videos, Video{
			ID:        entry.ID,
			Title:     entry.Title,
			Link:      watchURL(entry.ID),
			Thumbnail: fmt.Sprintf("https://i.ytimg.com/vi/%s/mqdefault.jpg", entry.ID),
		})
	}

	p.logger.Info("playlist listed", "videos", len(videos))
	return videos, nil
}

// FetchSubtitles requests manual and auto-generated subtitles in the
// configured language order, converted to SRT, without downloading media.
func (p *YTDLP) FetchSubtitles(ctx context.Context, videoID, outputStem string) error {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	dl := ytdlp.New().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(p.subLangs).
		ConvertSubs("srt").
		SkipDownload().
		Output(outputStem)

	result, err := dl.Run(ctx, watchURL(videoID))
	if err != nil {
		if result != nil && result.Stderr != "" {
			return fmt.Errorf("downloading subtitles for %s: %w: %s", videoID, err, result.Stderr)
		}
		return fmt.Errorf("downloading subtitles for %s: %w", videoID, err)
	}
	return nil
}

// skipListing reports whether a playlist entry should be excluded from the
// catalog: Shorts (by URL shape) and private or deleted videos (by the
// placeholder titles the platform substitutes).
func skipListing(url, title string) bool {
	if strings.Contains(url, "/shorts/") {
		return true
	}
	if strings.Contains(title, "[Private video]") || strings.Contains(title, "[Deleted video]") {
		return true
	}
	return false
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
