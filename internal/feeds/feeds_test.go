package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zirnhelt/curated-podcast-generator/internal/retry"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Cariboo Tribune</title>
    <item>
      <title>City approves broadband grant</title>
      <link>https://tribune.example/broadband</link>
      <description>Council approved the grant on Tuesday.</description>
    </item>
    <item>
      <title>Mill curtailment extended</title>
      <link>https://tribune.example/mill</link>
    </item>
  </channel>
</rss>`

func testRetry() retry.Config {
	return retry.Config{MaxAttempts: 1, Delay: time.Millisecond}
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := "feeds:\n  - https://example.com/a.xml\n  - https://example.com/b.xml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	urls, err := LoadSources(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.xml", "https://example.com/b.xml"}, urls)
}

func TestLoadSources_MissingFile(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFetchCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, testRetry())
	candidates := f.FetchCandidates(context.Background(), []string{srv.URL}, 0)

	require.Len(t, candidates, 2)
	assert.Equal(t, "https://tribune.example/broadband", candidates[0].URL)
	assert.Equal(t, "City approves broadband grant", candidates[0].Title)
	assert.Equal(t, "Cariboo Tribune", candidates[0].Source)
}

func TestFetchCandidates_FailingSourceSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := NewFetcher(5*time.Second, testRetry())
	candidates := f.FetchCandidates(context.Background(), []string{bad.URL, srv.URL}, 0)

	assert.Len(t, candidates, 2)
}

func TestFetchCandidates_MaxCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, testRetry())
	candidates := f.FetchCandidates(context.Background(), []string{srv.URL}, 1)

	assert.Len(t, candidates, 1)
}
