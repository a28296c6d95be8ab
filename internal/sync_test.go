package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSyncer(t *testing.T, cfg *Config, platform Platform) (*Syncer, *Index) {
	t.Helper()
	ix, err := OpenIndex(cfg.IndexPath, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return NewSyncer(cfg, platform, ix, newTestLogger()), ix
}

func TestSyncFirstRun(t *testing.T) {
	cfg := testConfig(t)
	platform := &fakePlatform{
		videos: []Video{
			{ID: "abc123", Title: "Episode 1", Link: "https://www.youtube.com/watch?v=abc123"},
			{ID: "def456", Title: "Episode 2", Link: "https://www.youtube.com/watch?v=def456"},
		},
		subs: map[string]string{
			"abc123": sampleSRT,
			"def456": "1\n00:00:01,000 --> 00:00:02,000\ndiscussing databases tonight\n",
		},
	}

	syncer, ix := newTestSyncer(t, cfg, platform)
	run, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, run.TotalVideos)
	assert.Equal(t, 2, run.NewVideosFound)
	assert.Equal(t, 2, run.MissingTranscripts)
	assert.Equal(t, 2, run.TranscriptsDownloaded)
	assert.False(t, run.LastSync.IsZero())

	// Catalog and run record are persisted.
	catalog := NewCatalog(cfg.CatalogPath, newTestLogger())
	assert.Len(t, catalog.Load(), 2)
	persisted, err := LoadSyncRun(cfg.RunRecordPath)
	require.NoError(t, err)
	assert.Equal(t, run.TotalVideos, persisted.TotalVideos)

	// Transcripts are searchable right away.
	results := ix.Search(context.Background(), "databases", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "Episode 2", results[0].Title)
}

func TestSyncIncrementalRun(t *testing.T) {
	cfg := testConfig(t)
	platform := &fakePlatform{
		videos: []Video{
			{ID: "abc123", Title: "Episode 1"},
			{ID: "def456", Title: "Episode 2"},
		},
		subs: map[string]string{"abc123": sampleSRT, "def456": sampleSRT},
	}

	syncer, _ := newTestSyncer(t, cfg, platform)
	_, err := syncer.Run(context.Background())
	require.NoError(t, err)
	firstFetchCalls := platform.fetchCalls

	// Second run: nothing new, nothing missing, no downloads.
	run, err := syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, run.TotalVideos)
	assert.Equal(t, 0, run.NewVideosFound)
	assert.Equal(t, 0, run.MissingTranscripts)
	assert.Equal(t, 0, run.TranscriptsDownloaded)
	assert.Equal(t, firstFetchCalls, platform.fetchCalls, "existing transcripts are never re-downloaded")
}

func TestSyncOnlyFetchesGaps(t *testing.T) {
	cfg := testConfig(t)
	platform := &fakePlatform{
		videos: []Video{
			{ID: "abc123", Title: "Episode 1"},
			{ID: "def456", Title: "Episode 2"},
		},
		subs: map[string]string{"abc123": sampleSRT, "def456": sampleSRT},
	}

	store := NewTranscriptStore(cfg.TranscriptsDir)
	require.NoError(t, store.Save(TranscriptFilename("Episode 1"), "already synced"))

	syncer, _ := newTestSyncer(t, cfg, platform)
	run, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, run.MissingTranscripts)
	assert.Equal(t, 1, run.TranscriptsDownloaded)
	assert.Equal(t, 1, platform.fetchCalls)
}

func TestSyncFailedVideoDoesNotAbortRun(t *testing.T) {
	cfg := testConfig(t)
	platform := &fakePlatform{
		videos: []Video{
			{ID: "nocaps", Title: "Silent Episode"},
			{ID: "abc123", Title: "Episode 1"},
		},
		subs: map[string]string{"abc123": sampleSRT},
	}

	syncer, _ := newTestSyncer(t, cfg, platform)
	run, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, run.MissingTranscripts)
	assert.Equal(t, 1, run.TranscriptsDownloaded)

	// The gap persists, so the next run retries it.
	run, err = syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.MissingTranscripts)
}

func TestSyncLockContention(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, EnsureDirs(cfg.DataDir))

	other := flock.New(cfg.LockPath)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	platform := &fakePlatform{videos: []Video{{ID: "abc123", Title: "Episode 1"}}}
	syncer, _ := newTestSyncer(t, cfg, platform)

	_, err = syncer.Run(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.Zero(t, platform.listCalls, "a contended run does no work")
	assert.False(t, FileExists(cfg.CatalogPath))
	assert.False(t, FileExists(cfg.RunRecordPath))
}

func TestSyncEmptyListingKeepsState(t *testing.T) {
	cfg := testConfig(t)

	catalog := NewCatalog(cfg.CatalogPath, newTestLogger())
	previous := []Video{{ID: "abc123", Title: "Episode 1", Published: "2024-01-15"}}
	require.NoError(t, catalog.Save(previous))

	platform := &fakePlatform{videos: nil}
	syncer, _ := newTestSyncer(t, cfg, platform)

	_, err := syncer.Run(context.Background())
	assert.ErrorIs(t, err, ErrEmptyListing)
	assert.Equal(t, previous, catalog.Load(), "an empty listing must not clobber the catalog")
	assert.False(t, FileExists(cfg.RunRecordPath))
}

func TestSyncListErrorKeepsState(t *testing.T) {
	cfg := testConfig(t)
	platform := &fakePlatform{listErr: errors.New("network down")}
	syncer, _ := newTestSyncer(t, cfg, platform)

	_, err := syncer.Run(context.Background())
	assert.ErrorIs(t, err, ErrEmptyListing)
	assert.False(t, FileExists(cfg.CatalogPath))
}

func TestSyncReportsProgress(t *testing.T) {
	cfg := testConfig(t)
	platform := &fakePlatform{
		videos: []Video{{ID: "abc123", Title: "Episode 1"}},
		subs:   map[string]string{"abc123": sampleSRT},
	}

	syncer, _ := newTestSyncer(t, cfg, platform)
	var calls [][2]int
	syncer.OnProgress = func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}

	_, err := syncer.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, calls)
	assert.Equal(t, [2]int{1, 1}, calls[len(calls)-1], "progress ends at total")
}

func TestCountNew(t *testing.T) {
	existing := []Video{{ID: "a"}, {ID: "b"}}
	current := []Video{{ID: "b"}, {ID: "c"}, {ID: "d"}}
	assert.Equal(t, 2, countNew(current, existing))
	assert.Equal(t, 3, countNew(current, nil))
	assert.Equal(t, 0, countNew(nil, existing))
}

func TestMergePublished(t *testing.T) {
	existing := []Video{
		{ID: "a", Published: "2024-01-15"},
		{ID: "b", Published: ""},
	}
	current := []Video{
		{ID: "a"},
		{ID: "b"},
		{ID: "a2", Published: "2024-03-01"},
	}
	mergePublished(current, existing)

	assert.Equal(t, "2024-01-15", current[0].Published, "known dates carry forward")
	assert.Empty(t, current[1].Published)
	assert.Equal(t, "2024-03-01", current[2].Published, "fresh dates are kept")
}
