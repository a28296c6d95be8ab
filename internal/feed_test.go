package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:yt="http://www.youtube.com/xml/schemas/2015">
  <title>Test Channel</title>
  <entry>
    <id>yt:video:abc123</id>
    <title>Episode 1</title>
    <published>2024-01-15T10:00:00+00:00</published>
  </entry>
  <entry>
    <id>yt:video:def456</id>
    <title>Episode 2</title>
    <published>2024-02-20T10:00:00+00:00</published>
  </entry>
</feed>`

func TestFeedEnricherFillsMissingDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleFeedXML))
	}))
	defer srv.Close()

	videos := []Video{
		{ID: "abc123", Title: "Episode 1"},
		{ID: "def456", Title: "Episode 2", Published: "2020-01-01"},
		{ID: "zzz999", Title: "Not in feed"},
	}

	enricher := NewFeedEnricher(srv.URL, newTestLogger())
	enricher.Enrich(context.Background(), videos)

	assert.Equal(t, "2024-01-15", videos[0].Published)
	assert.Equal(t, "2020-01-01", videos[1].Published, "existing dates are never overwritten")
	assert.Empty(t, videos[2].Published)
}

func TestFeedEnricherFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	videos := []Video{{ID: "abc123", Title: "Episode 1"}}
	enricher := NewFeedEnricher(srv.URL, newTestLogger())
	enricher.Enrich(context.Background(), videos)

	assert.Empty(t, videos[0].Published)
}
