package logic

import (
	"fmt"
	"sort"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// MergeRecent combines histories into one most-recent-first slice, dropping
// matches seen in more than one of them. Records without a timestamp sort last
// and keep their relative order.
func MergeRecent(histories ...[]models.MatchRecord) []models.MatchRecord {
	total := 0
	for _, h := range histories {
		total += len(h)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]models.MatchRecord, 0, total)
	for _, h := range histories {
		for _, m := range h {
			key := matchKey(m)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, m)
		}
	}

	SortRecent(merged)
	return merged
}

// SortRecent orders matches most recent first in place, stable for equal timestamps
func SortRecent(matches []models.MatchRecord) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})
}

func matchKey(m models.MatchRecord) string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("%s|%s|%s|%d|%d-%d|%d-%d", m.League, m.HomePlayer, m.AwayPlayer,
		m.Timestamp.UnixMilli(), m.HomeGoals, m.AwayGoals, m.HTHomeGoals, m.HTAwayGoals)
}
