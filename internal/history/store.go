package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
)

const dateLayout = "2006-01-02"

// CoverageRecord is one article already presented to the audience.
// Records are immutable; they age out of scope by falling outside the
// trailing window on the next load.
type CoverageRecord struct {
	URL         string
	Title       string
	EpisodeDate string // ISO date of the episode that covered it
	Segment     string
}

// ArticleRef is the persisted {url, title} reference inside an episode file.
type ArticleRef struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// episodeFile mirrors the citations_<date>_<theme>.json layout.
type episodeFile struct {
	Episode struct {
		Date  string `json:"date"`
		Theme string `json:"theme,omitempty"`
	} `json:"episode"`
	Segments map[string]struct {
		Articles []ArticleRef `json:"articles"`
	} `json:"segments"`
}

// Store reads and writes per-episode citation records in a directory.
// Filenames encode the episode date (citations_2026-01-24_theme.json) so
// old episodes can be skipped without opening them.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadRecent returns all articles covered in episodes from the last
// windowDays days, flattened across segments. Unreadable or malformed
// files are skipped with a warning; partial history beats no history.
// No records is a normal empty result, not an error.
func (s *Store) LoadRecent(today time.Time, windowDays int) []CoverageRecord {
	matches, err := filepath.Glob(filepath.Join(s.dir, "citations_*.json"))
	if err != nil {
		logger.Warn("citations glob failed", "dir", s.dir, "error", err)
		return nil
	}

	cutoff := truncateToDay(today).AddDate(0, 0, -windowDays)

	var records []CoverageRecord
	for _, path := range matches {
		fileDate, ok := episodeDateFromFilename(filepath.Base(path))
		if !ok {
			logger.Warn("skipping citations file with unrecognized name", "file", path)
			continue
		}
		if fileDate.Before(cutoff) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable citations file", "file", path, "error", err)
			continue
		}

		var ep episodeFile
		if err := json.Unmarshal(data, &ep); err != nil {
			logger.Warn("skipping malformed citations file", "file", path, "error", err)
			continue
		}

		// Sort segment names so history order is stable across loads.
		segments := make([]string, 0, len(ep.Segments))
		for name := range ep.Segments {
			segments = append(segments, name)
		}
		sort.Strings(segments)

		for _, name := range segments {
			for _, a := range ep.Segments[name].Articles {
				records = append(records, CoverageRecord{
					URL:         a.URL,
					Title:       a.Title,
					EpisodeDate: ep.Episode.Date,
					Segment:     name,
				})
			}
		}
	}

	logger.Info("loaded coverage history", "records", len(records), "window_days", windowDays)
	return records
}

// episodeDateFromFilename parses the date out of
// "citations_2026-01-24_theme.json". Files without a theme suffix are not
// episode records and are rejected.
func episodeDateFromFilename(name string) (time.Time, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "citations_"), ".json")
	parts := strings.SplitN(trimmed, "_", 2)
	if len(parts) < 2 {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, parts[0])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
