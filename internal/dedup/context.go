package dedup

import (
	"fmt"
	"strings"
)

// FormatEvolvingContext renders evolving stories as a continuity block for
// downstream prompt assembly. Returns "" when there is nothing to report.
func FormatEvolvingContext(evolving []EvolvingMatch) string {
	if len(evolving) == 0 {
		return ""
	}

	lines := []string{"\n**EVOLVING STORIES - Updates to Previous Coverage:**"}
	for _, m := range evolving {
		lines = append(lines, fmt.Sprintf(
			"- %q is an update to coverage from %s",
			m.Candidate.Title, m.OriginalDate,
		))
	}
	return strings.Join(lines, "\n")
}
