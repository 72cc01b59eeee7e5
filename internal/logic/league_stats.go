package logic

import "github.com/esoccer-insights/stats-api/internal/models"

// ComputeLeagueStats aggregates the league's last window matches, nil when none
func ComputeLeagueStats(matches []models.MatchRecord, league string, window int) *models.LeagueStats {
	recent := firstN(matches, window, func(m models.MatchRecord) bool {
		return m.League == league
	})
	n := len(recent)
	if n == 0 {
		return nil
	}

	var ht, ft periodFold
	for _, m := range recent {
		ht.add(m.HTTotalGoals, m.HTBTTS)
		ft.add(m.TotalGoals, m.BTTS)
	}

	return &models.LeagueStats{
		League:      league,
		SampleSize:  n,
		AvgHTGoals:  average(ht.goals, n),
		AvgFTGoals:  average(ft.goals, n),
		HTOver05Pct: percent(ht.over05, n),
		HTBTTSPct:   percent(ht.btts, n),
		BTTSPct:     percent(ft.btts, n),
		FTOver25Pct: percent(ft.over25, n),
	}
}
