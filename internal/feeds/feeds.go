package feeds

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/zirnhelt/curated-podcast-generator/internal/dedup"
	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
	"github.com/zirnhelt/curated-podcast-generator/internal/retry"
)

// SourcesConfig is the YAML config structure
// feeds:
//   - https://...
type SourcesConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadSources reads the candidate source list from a YAML file.
func LoadSources(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// Fetcher pulls candidate items from configured feed sources.
type Fetcher struct {
	parser *gofeed.Parser
	retry  retry.Config
}

func NewFetcher(timeout time.Duration, retryCfg retry.Config) *Fetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	return &Fetcher{parser: p, retry: retryCfg}
}

// FetchCandidates downloads and parses all sources into dedup candidates.
// A failing source is logged and skipped; the rest of the batch proceeds.
func (f *Fetcher) FetchCandidates(ctx context.Context, urls []string, max int) []dedup.Candidate {
	var candidates []dedup.Candidate
	okCount := 0

	for _, url := range urls {
		var feed *gofeed.Feed
		err := retry.WithRetry(ctx, f.retry, func() error {
			var ferr error
			feed, ferr = f.parser.ParseURLWithContext(url, ctx)
			return ferr
		})
		if err != nil {
			logger.Warn("failed to fetch source, skipping", "url", url, "error", err)
			continue
		}
		okCount++

		for _, item := range feed.Items {
			if max > 0 && len(candidates) >= max {
				break
			}
			c := dedup.Candidate{
				URL:     item.Link,
				Title:   item.Title,
				Summary: item.Description,
				Source:  feed.Title,
			}
			if item.PublishedParsed != nil {
				c.Published = *item.PublishedParsed
			}
			candidates = append(candidates, c)
		}

		logger.Debug("fetched source", "url", url, "items", len(feed.Items))
	}

	logger.Info("candidate fetch done",
		"sources_ok", okCount, "sources_total", len(urls), "candidates", len(candidates))
	return candidates
}
