package dedup

import (
	"time"

	"github.com/zirnhelt/curated-podcast-generator/internal/history"
	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
)

// DefaultThreshold is the inclusive similarity ratio at which a candidate
// counts as an update to earlier coverage.
const DefaultThreshold = 0.70

// Candidate is one freshly fetched item under consideration for an episode.
type Candidate struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Source    string    `json:"source,omitempty"`
	Published time.Time `json:"published,omitempty"`
}

// EvolvingMatch annotates a kept candidate as a follow-up to earlier coverage:
// similar title, different URL.
type EvolvingMatch struct {
	Candidate     Candidate `json:"candidate"`
	OriginalDate  string    `json:"original_date"`
	OriginalTitle string    `json:"original_title"`
	Similarity    float64   `json:"similarity"`
}

// Deduplicator partitions candidates into fresh, exact-duplicate (dropped)
// and evolving (kept, annotated) against recent coverage history.
type Deduplicator struct {
	Threshold float64
}

func New(threshold float64) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Deduplicator{Threshold: threshold}
}

// Dedupe checks candidates against coverage history. Exact URL matches are
// dropped; everything else is kept in input order. A kept candidate whose
// title clears the threshold against some record with a different URL is
// additionally reported as evolving. The history scan stops at the first
// record clearing the threshold, not the best one.
//
// Duplicates are only ever detected against history, never between
// candidates in the same batch.
func (d *Deduplicator) Dedupe(candidates []Candidate, records []history.CoverageRecord) (kept []Candidate, evolving []EvolvingMatch) {
	if len(records) == 0 {
		logger.Debug("no coverage history, nothing to deduplicate against")
		return candidates, nil
	}

	covered := make(map[string]struct{}, len(records))
	for _, r := range records {
		covered[r.URL] = struct{}{}
	}

	dropped := 0
	for _, c := range candidates {
		if _, dup := covered[c.URL]; dup {
			dropped++
			logger.Debug("dropping exact duplicate", "url", c.URL)
			continue
		}

		for _, r := range records {
			score := TitleSimilarity(c.Title, r.Title)
			if score >= d.Threshold && r.URL != c.URL {
				evolving = append(evolving, EvolvingMatch{
					Candidate:     c,
					OriginalDate:  r.EpisodeDate,
					OriginalTitle: r.Title,
					Similarity:    score,
				})
				break
			}
		}

		kept = append(kept, c)
	}

	logger.Info("deduplication done",
		"kept", len(kept),
		"evolving", len(evolving),
		"dropped", dropped,
	)
	return kept, evolving
}
