package logic

import "github.com/esoccer-insights/stats-api/internal/models"

// ComputeHeadToHead compares player1 and player2 over their direct meetings,
// the most recent window of them (window <= 0 keeps every meeting).
// With no meeting it returns an all-zero record rather than nil.
func ComputeHeadToHead(matches []models.MatchRecord, player1, player2 string, window int) *models.H2HStats {
	limit := window
	if limit <= 0 {
		limit = len(matches)
	}
	meetings := firstN(matches, limit, func(m models.MatchRecord) bool {
		return m.IsBetween(player1, player2)
	})
	n := len(meetings)

	h2h := &models.H2HStats{Player1: player1, Player2: player2, Total: n}

	var ht, ft periodFold
	for _, m := range meetings {
		ht.add(m.HTTotalGoals, m.HTBTTS)
		ft.add(m.TotalGoals, m.BTTS)

		p1Goals, p2Goals, _, _ := m.SideGoals(player1)
		switch {
		case p1Goals > p2Goals:
			h2h.Player1Wins++
		case p2Goals > p1Goals:
			h2h.Player2Wins++
		default:
			h2h.Draws++
		}
	}

	h2h.Player1WinPct = percent(h2h.Player1Wins, n)
	h2h.Player2WinPct = percent(h2h.Player2Wins, n)
	h2h.DrawPct = percent(h2h.Draws, n)
	h2h.HalfTime = ht.result(n)
	h2h.FullTime = ft.result(n)
	h2h.AvgHTGoals = h2h.HalfTime.AvgGoals
	h2h.AvgFTGoals = h2h.FullTime.AvgGoals
	return h2h
}
