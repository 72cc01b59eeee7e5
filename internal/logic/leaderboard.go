package logic

import (
	"sort"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// LeagueLeaderboard computes window metrics for every player seen in the
// league and ranks them by full-time over 2.5%, then sample size, then name.
// Metrics are computed over the league's matches only.
func LeagueLeaderboard(matches []models.MatchRecord, league string, window int) []models.PlayerMetrics {
	leagueMatches := make([]models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.League == league {
			leagueMatches = append(leagueMatches, m)
		}
	}

	board := make([]models.PlayerMetrics, 0)
	for _, p := range PlayersOf(leagueMatches) {
		if pm := ComputePlayerMetrics(leagueMatches, p, window); pm != nil {
			board = append(board, *pm)
		}
	}

	sort.SliceStable(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if a.FullTime.Over25Pct != b.FullTime.Over25Pct {
			return a.FullTime.Over25Pct > b.FullTime.Over25Pct
		}
		if a.SampleSize != b.SampleSize {
			return a.SampleSize > b.SampleSize
		}
		return a.Player < b.Player
	})
	return board
}
