package logic

import "github.com/esoccer-insights/stats-api/internal/models"

// ComputePlayerMetrics aggregates the player's last window matches across all
// leagues; League labels the most recent one.
// matches must already be ordered most-recent-first; the order is never changed.
// It returns nil when the player has no match in the window.
func ComputePlayerMetrics(matches []models.MatchRecord, player string, window int) *models.PlayerMetrics {
	recent := firstN(matches, window, func(m models.MatchRecord) bool {
		return m.Involves(player)
	})
	n := len(recent)
	if n == 0 {
		return nil
	}

	var (
		ht, ft              periodFold
		scored, conceded    int
		wins, draws, losses int
	)
	for _, m := range recent {
		ht.add(m.HTTotalGoals, m.HTBTTS)
		ft.add(m.TotalGoals, m.BTTS)

		ftFor, ftAgainst, _, _ := m.SideGoals(player)
		scored += ftFor
		conceded += ftAgainst
		switch {
		case ftFor > ftAgainst:
			wins++
		case ftFor == ftAgainst:
			draws++
		default:
			losses++
		}
	}

	pm := &models.PlayerMetrics{
		Player:           player,
		League:           recent[0].League,
		Window:           window,
		SampleSize:       n,
		HalfTime:         ht.result(n),
		FullTime:         ft.result(n),
		AvgGoalsScored:   average(scored, n),
		AvgGoalsConceded: average(conceded, n),
		Wins:             wins,
		Draws:            draws,
		Losses:           losses,
		WinPct:           percent(wins, n),
	}
	pm.Verdict = Verdict(pm)
	return pm
}

// Verdict assigns exactly one profile label, evaluated in precedence order.
// Missing metrics are neutral.
func Verdict(pm *models.PlayerMetrics) models.Verdict {
	if pm == nil {
		return models.VerdictNeutral
	}
	ft := pm.FullTime
	switch {
	case ft.Over25Pct >= 80 && ft.BTTSPct >= 75 && ft.AvgGoals >= 3.0:
		return models.VerdictSniper
	case ft.AvgGoals <= 2.2 || ft.Over25Pct <= 40:
		return models.VerdictWall
	case pm.HalfTime.Over05Pct <= 60 && ft.Over25Pct >= 70:
		return models.VerdictTroll
	default:
		return models.VerdictNeutral
	}
}
