package rotation

import (
	"strconv"
	"time"

	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
)

// DefaultMinDays is the cooldown: how many days an org waits after airing
// before it is eligible for rotation again.
const DefaultMinDays = 7

// SelectRotation picks the next organization for a weekday's roster by
// cooldown-aware round robin and records the pick in the state.
//
// The walk starts one past the weekday's last selected index and takes the
// first org whose last air date is absent or at least minDays old (exactly
// minDays ago is eligible again). If the whole roster is cooling down, the
// least recently aired org wins, ties broken by roster order, so a
// selection is always made. An empty roster means no selection, which is
// not an error.
//
// The caller persists the state; callers on an event-override path must not
// call this at all.
func SelectRotation(weekday int, roster []Organization, st *State, today time.Time, minDays int) (Organization, bool) {
	if len(roster) == 0 {
		return Organization{}, false
	}

	today = truncateToDay(today)
	key := strconv.Itoa(weekday)

	last, ok := st.Rotation[key]
	if !ok {
		last = -1
	}
	start := (last + 1) % len(roster)

	for i := 0; i < len(roster); i++ {
		idx := (start + i) % len(roster)
		org := roster[idx]

		aired, hasAired := st.LastAiredDate(org.ID)
		if hasAired && daysBetween(aired, today) < minDays {
			logger.Debug("org within cooldown, skipping",
				"org", org.ID, "last_aired", aired.Format(dateLayout))
			continue
		}

		record(st, key, idx, org.ID, today)
		return org, true
	}

	// Everyone is cooling down; take the least recently aired. Orgs with no
	// recorded air date sort oldest, and ties keep the earliest roster slot.
	oldestIdx := 0
	var oldest time.Time
	for i, org := range roster {
		aired, _ := st.LastAiredDate(org.ID)
		if i == 0 || aired.Before(oldest) {
			oldest = aired
			oldestIdx = i
		}
	}

	org := roster[oldestIdx]
	logger.Info("all orgs within cooldown, falling back to least recently aired",
		"org", org.ID)
	record(st, key, oldestIdx, org.ID, today)
	return org, true
}

func record(st *State, weekdayKey string, idx int, orgID string, today time.Time) {
	st.Rotation[weekdayKey] = idx
	st.LastAired[orgID] = today.Format(dateLayout)
}
