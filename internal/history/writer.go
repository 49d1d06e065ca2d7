package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteEpisode persists the citation record for a finalized episode, in the
// same layout LoadRecent reads back. The write is atomic (temp file plus
// rename) so a crashed run never leaves a half-written record behind.
// Returns the path of the written file.
func (s *Store) WriteEpisode(date time.Time, theme string, segments map[string][]ArticleRef) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create citations dir: %w", err)
	}

	var ep episodeFile
	ep.Episode.Date = date.Format(dateLayout)
	ep.Episode.Theme = theme
	ep.Segments = make(map[string]struct {
		Articles []ArticleRef `json:"articles"`
	}, len(segments))
	for name, articles := range segments {
		ep.Segments[name] = struct {
			Articles []ArticleRef `json:"articles"`
		}{Articles: articles}
	}

	data, err := json.MarshalIndent(ep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal episode record: %w", err)
	}

	name := fmt.Sprintf("citations_%s_%s.json", ep.Episode.Date, slugify(theme))
	path := filepath.Join(s.dir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write episode record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize episode record: %w", err)
	}
	return path, nil
}

// slugify makes a theme name safe for use inside a filename.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	out := b.String()
	if out == "" {
		out = "episode"
	}
	return out
}
