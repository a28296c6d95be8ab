package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrSyncInProgress reports that another sync run holds the lock. The
	// caller performed no work and made no state changes.
	ErrSyncInProgress = errors.New("another sync is already running")

	// ErrEmptyListing reports that the platform returned no videos, which is
	// treated as a transient outage: the run aborts without touching the
	// catalog or the index.
	ErrEmptyListing = errors.New("platform returned no videos")
)

// SyncRun is the latest-run snapshot, overwritten on every run.
type SyncRun struct {
	LastSync              time.Time `json:"last_sync"`
	TotalVideos           int       `json:"total_videos"`
	NewVideosFound        int       `json:"new_videos_found"`
	MissingTranscripts    int       `json:"missing_transcripts"`
	TranscriptsDownloaded int       `json:"transcripts_downloaded"`
}

// LoadSyncRun reads the persisted run record.
func LoadSyncRun(path string) (SyncRun, error) {
	var run SyncRun
	data, err := os.ReadFile(path)
	if err != nil {
		return run, fmt.Errorf("reading sync record: %w", err)
	}
	if err := json.Unmarshal(data, &run); err != nil {
		return run, fmt.Errorf("parsing sync record: %w", err)
	}
	return run, nil
}

// ProgressFunc receives fetch progress during a sync run.
type ProgressFunc func(done, total int)

// Syncer coordinates catalog refresh, gap detection, transcript download and
// indexing. At most one run executes system-wide at a time, enforced with an
// exclusive advisory file lock shared by every process using the same paths.
type Syncer struct {
	platform Platform
	catalog  *Catalog
	store    *TranscriptStore
	fetcher  *Fetcher
	index    *Index
	enricher *FeedEnricher
	logger   *slog.Logger

	playlistURL string
	runPath     string
	lock        *flock.Flock

	// OnProgress, when set, is called as missing transcripts are processed.
	OnProgress ProgressFunc
}

// NewSyncer wires a sync orchestrator from configuration. The platform and
// index are passed in so tests can substitute fakes and commands can share
// one open index.
func NewSyncer(cfg *Config, platform Platform, index *Index, logger *slog.Logger) *Syncer {
	store := NewTranscriptStore(cfg.TranscriptsDir)
	var enricher *FeedEnricher
	if cfg.FeedURL != "" {
		enricher = NewFeedEnricher(cfg.FeedURL, logger)
	}
	return &Syncer{
		platform:    platform,
		catalog:     NewCatalog(cfg.CatalogPath, logger),
		store:       store,
		fetcher:     NewFetcher(platform, store, logger),
		index:       index,
		enricher:    enricher,
		logger:      logger,
		playlistURL: cfg.PlaylistURL,
		runPath:     cfg.RunRecordPath,
		lock:        flock.New(cfg.LockPath),
	}
}

// Run executes one full sync cycle and returns its run record. It is
// idempotent and safe to invoke repeatedly or on a timer. The only errors it
// returns are the no-op sentinels ErrSyncInProgress and ErrEmptyListing;
// per-video failures are independent, logged, counted and retried naturally
// on the next run because the transcript file still won't exist.
func (s *Syncer) Run(ctx context.Context) (SyncRun, error) {
	locked, err := s.lock.TryLock()
	if err != nil {
		s.logger.Error("acquiring sync lock", "path", s.lock.Path(), "error", err)
		return SyncRun{}, ErrSyncInProgress
	}
	if !locked {
		s.logger.Warn("sync already in progress, exiting", "lock", s.lock.Path())
		return SyncRun{}, ErrSyncInProgress
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("releasing sync lock", "error", err)
		}
	}()

	s.logger.Info("sync started", "playlist", s.playlistURL)

	current, err := s.platform.ListVideos(ctx, s.playlistURL)
	if err != nil {
		s.logger.Error("video listing failed", "error", err)
		return SyncRun{}, ErrEmptyListing
	}
	if len(current) == 0 {
		s.logger.Warn("platform returned no videos, keeping previous state")
		return SyncRun{}, ErrEmptyListing
	}

	existing := s.catalog.Load()
	newCount := countNew(current, existing)
	mergePublished(current, existing)
	if s.enricher != nil {
		s.enricher.Enrich(ctx, current)
	}
	s.logger.Info("catalog compared", "existing", len(existing), "current", len(current), "new", newCount)

	// Walk the full listing: re-index what we already have (upsert is
	// dedup-safe) and collect the gaps.
	var missing []Video
	for _, video := range current {
		filename := TranscriptFilename(video.Title)
		if !s.store.Exists(filename) {
			missing = append(missing, video)
			continue
		}
		s.indexTranscript(ctx, video, filename)
	}
	s.logger.Info("missing transcripts detected", "count", len(missing))

	downloaded := 0
	for i, video := range missing {
		if s.OnProgress != nil {
			s.OnProgress(i, len(missing))
		}
		if ctx.Err() != nil {
			s.logger.Warn("sync interrupted", "remaining", len(missing)-i)
			break
		}
		if s.fetcher.Fetch(ctx, video) == Fetched {
			downloaded++
			s.indexTranscript(ctx, video, TranscriptFilename(video.Title))
		}
	}
	if s.OnProgress != nil {
		s.OnProgress(len(missing), len(missing))
	}

	if err := s.catalog.Save(current); err != nil {
		s.logger.Error("saving catalog", "error", err)
	}

	run := SyncRun{
		LastSync:              time.Now(),
		TotalVideos:           len(current),
		NewVideosFound:        newCount,
		MissingTranscripts:    len(missing),
		TranscriptsDownloaded: downloaded,
	}
	if err := writeJSONAtomic(s.runPath, run); err != nil {
		s.logger.Error("saving sync record", "error", err)
	}

	s.logger.Info("sync complete",
		"total", run.TotalVideos,
		"new", run.NewVideosFound,
		"missing", run.MissingTranscripts,
		"downloaded", run.TranscriptsDownloaded)
	return run, nil
}

// indexTranscript reads a transcript file and upserts it into the search
// index. Failures are logged; the entry heals on the next run.
func (s *Syncer) indexTranscript(ctx context.Context, video Video, filename string) {
	content, err := s.store.Read(filename)
	if err != nil {
		s.logger.Error("reading transcript for indexing", "file", filename, "error", err)
		return
	}
	err = s.index.Upsert(ctx, Entry{
		Filename:  filename,
		Title:     video.Title,
		Content:   content,
		URL:       video.Link,
		Published: video.Published,
	})
	if err != nil {
		s.logger.Error("indexing transcript", "file", filename, "error", err)
	}
}

// countNew counts videos present in current but not in existing, by ID.
func countNew(current, existing []Video) int {
	known := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		known[v.ID] = struct{}{}
	}
	count := 0
	for _, v := range current {
		if _, ok := known[v.ID]; !ok {
			count++
		}
	}
	return count
}

// mergePublished carries publish dates forward from the previous catalog so
// a known date never regresses to empty when the listing omits it.
func mergePublished(current, existing []Video) {
	dates := make(map[string]string, len(existing))
	for _, v := range existing {
		if v.Published != "" {
			dates[v.ID] = v.Published
		}
	}
	for i := range current {
		if current[i].Published == "" {
			current[i].Published = dates[current[i].ID]
		}
	}
}
