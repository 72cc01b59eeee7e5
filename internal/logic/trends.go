package logic

import (
	"fmt"
	"sort"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// TrendWindow is the fixed number of recent matches the pattern scan reads.
// The streak patterns index into it directly, so it is not configurable.
const TrendWindow = 5

// matchSide is one recent match seen from the player's side
type matchSide struct {
	ftFor, ftAgainst int
	htFor, htAgainst int
	total            int
	btts             bool
}

// DetectPlayerTrend scans the player's five most recent matches for known
// patterns. It returns nil with fewer than five matches or when nothing fires.
func DetectPlayerTrend(matches []models.MatchRecord, player string) *models.PlayerTrend {
	recent := firstN(matches, TrendWindow, func(m models.MatchRecord) bool {
		return m.Involves(player)
	})
	if len(recent) < TrendWindow {
		return nil
	}

	sides := make([]matchSide, len(recent))
	for i, m := range recent {
		s := matchSide{total: m.TotalGoals, btts: m.BTTS}
		s.ftFor, s.ftAgainst, s.htFor, s.htAgainst = m.SideGoals(player)
		sides[i] = s
	}

	var trends []models.TrendEntry
	if t, ok := streakBreakerActive(sides); ok {
		trends = append(trends, t)
	}
	if t, ok := streakJustBroken(sides); ok {
		trends = append(trends, t)
	}
	if t, ok := htWinFTFail(sides); ok {
		trends = append(trends, t)
	}
	if t, ok := over25Streak(sides); ok {
		trends = append(trends, t)
	}
	if t, ok := bttsStreak(sides); ok {
		trends = append(trends, t)
	}
	if len(trends) == 0 {
		return nil
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Confidence > trends[j].Confidence
	})
	return &models.PlayerTrend{
		Player:        player,
		League:        recent[0].League,
		RecentMatches: recent,
		Trends:        trends,
	}
}

// DetectTrends runs the scan for each player and keeps only players with a pattern
func DetectTrends(matches []models.MatchRecord, players []string) []models.PlayerTrend {
	out := make([]models.PlayerTrend, 0, len(players))
	for _, p := range players {
		if t := DetectPlayerTrend(matches, p); t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// DetectLeagueTrends scans every player seen in the league's matches,
// most recently active first, using only that league's matches.
func DetectLeagueTrends(matches []models.MatchRecord, league string) []models.PlayerTrend {
	leagueMatches := make([]models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.League == league {
			leagueMatches = append(leagueMatches, m)
		}
	}
	return DetectTrends(leagueMatches, PlayersOf(leagueMatches))
}

// PlayersOf lists distinct player names in order of first appearance
func PlayersOf(matches []models.MatchRecord) []string {
	seen := make(map[string]struct{})
	var players []string
	for _, m := range matches {
		for _, p := range [2]string{m.HomePlayer, m.AwayPlayer} {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			players = append(players, p)
		}
	}
	return players
}

// streakBreakerActive: first-half goals in the four latest matches while the
// oldest of the five had none before the break but a goal after it.
func streakBreakerActive(s []matchSide) (models.TrendEntry, bool) {
	for i := 0; i <= 3; i++ {
		if s[i].htFor == 0 {
			return models.TrendEntry{}, false
		}
	}
	if s[4].htFor != 0 || s[4].ftFor == 0 {
		return models.TrendEntry{}, false
	}
	return models.TrendEntry{
		Type:        models.TrendStreakBreakerActive,
		Confidence:  95,
		Description: "Scored before half-time in each of the last 4 matches after a match where the goal only came in the second half",
		Stats: []models.StatPair{
			{Label: "HT scoring run", Value: "4/4"},
			{Label: "Oldest match HT/FT goals", Value: fmt.Sprintf("%d/%d", s[4].htFor, s[4].ftFor)},
		},
	}, true
}

// streakJustBroken: first-half goals in matches 1–4 but the latest match
// had none before the break and a goal after it.
func streakJustBroken(s []matchSide) (models.TrendEntry, bool) {
	for i := 1; i <= 4; i++ {
		if s[i].htFor == 0 {
			return models.TrendEntry{}, false
		}
	}
	if s[0].htFor != 0 || s[0].ftFor == 0 {
		return models.TrendEntry{}, false
	}
	return models.TrendEntry{
		Type:        models.TrendStreakJustBroken,
		Confidence:  90,
		Description: "First-half scoring run of 4 broken in the latest match, goal only after the break",
		Stats: []models.StatPair{
			{Label: "Previous HT scoring run", Value: "4/4"},
			{Label: "Latest match HT/FT goals", Value: fmt.Sprintf("%d/%d", s[0].htFor, s[0].ftFor)},
		},
	}, true
}

func htWinFTFail(s []matchSide) (models.TrendEntry, bool) {
	count := 0
	for _, m := range s {
		if m.htFor > m.htAgainst && m.ftFor <= m.ftAgainst {
			count++
		}
	}
	if count < 2 {
		return models.TrendEntry{}, false
	}
	confidence := 60
	if count >= 3 {
		confidence = 85
	}
	return models.TrendEntry{
		Type:        models.TrendHTWinFTFail,
		Confidence:  confidence,
		Description: fmt.Sprintf("Led at half-time but did not win in %d of the last %d matches", count, len(s)),
		Stats: []models.StatPair{
			{Label: "HT leads not converted", Value: fmt.Sprintf("%d/%d", count, len(s))},
		},
	}, true
}

func over25Streak(s []matchSide) (models.TrendEntry, bool) {
	count, goals := 0, 0
	for _, m := range s {
		if m.total > 2 {
			count++
		}
		goals += m.total
	}
	if count < 4 {
		return models.TrendEntry{}, false
	}
	return models.TrendEntry{
		Type:        models.TrendOver25Streak,
		Confidence:  runConfidence(count, len(s)),
		Description: fmt.Sprintf("Over 2.5 goals in %d of the last %d matches", count, len(s)),
		Stats: []models.StatPair{
			{Label: "Over 2.5 FT", Value: fmt.Sprintf("%d/%d", count, len(s))},
			{Label: "Avg goals", Value: fmt.Sprintf("%.1f", float64(goals)/float64(len(s)))},
		},
	}, true
}

func bttsStreak(s []matchSide) (models.TrendEntry, bool) {
	count := 0
	for _, m := range s {
		if m.btts {
			count++
		}
	}
	if count < 4 {
		return models.TrendEntry{}, false
	}
	return models.TrendEntry{
		Type:        models.TrendBTTSStreak,
		Confidence:  runConfidence(count, len(s)),
		Description: fmt.Sprintf("Both players scored in %d of the last %d matches", count, len(s)),
		Stats: []models.StatPair{
			{Label: "BTTS FT", Value: fmt.Sprintf("%d/%d", count, len(s))},
		},
	}, true
}

func runConfidence(count, n int) int {
	if count == n {
		return 90
	}
	return 75
}
