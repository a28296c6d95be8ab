package internal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedEnricher fills missing published dates from the channel's RSS feed.
// Flat playlist listing does not carry publish dates, so without enrichment
// the field stays empty until set by hand.
type FeedEnricher struct {
	url    string
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewFeedEnricher creates an enricher for the given feed URL.
func NewFeedEnricher(url string, logger *slog.Logger) *FeedEnricher {
	return &FeedEnricher{
		url:    url,
		parser: gofeed.NewParser(),
		logger: logger,
	}
}

// Enrich sets Published on videos that lack one, for entries present in the
// feed. The feed only covers the newest uploads; older videos keep whatever
// the previous catalog recorded. Feed failures are logged and non-fatal.
func (f *FeedEnricher) Enrich(ctx context.Context, videos []Video) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		f.logger.Warn("fetching channel feed failed", "url", f.url, "error", err)
		return
	}

	published := make(map[string]string, len(feed.Items))
	for _, item := range feed.Items {
		// YouTube feed GUIDs have the form "yt:video:<id>".
		if !strings.HasPrefix(item.GUID, "yt:video:") {
			continue
		}
		id := strings.TrimPrefix(item.GUID, "yt:video:")
		if id == "" {
			continue
		}
		if item.PublishedParsed != nil {
			published[id] = item.PublishedParsed.Format("2006-01-02")
		} else if item.Published != "" {
			published[id] = item.Published
		}
	}

	filled := 0
	for i := range videos {
		if videos[i].Published != "" {
			continue
		}
		if date, ok := published[videos[i].ID]; ok {
			videos[i].Published = date
			filled++
		}
	}
	if filled > 0 {
		f.logger.Info("publish dates filled from feed", "videos", filled)
	}
}
