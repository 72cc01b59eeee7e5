package logic

import "github.com/esoccer-insights/stats-api/internal/models"

// AnalyzeFixture derives every signal for an upcoming pairing from one
// most-recent-first collection. The league is the one of player1's latest
// match, falling back to player2's. It returns nil when neither player has
// any match in the collection.
func AnalyzeFixture(matches []models.MatchRecord, player1, player2 string, window int) *models.FixtureAnalysis {
	p1 := ComputePlayerMetrics(matches, player1, window)
	p2 := ComputePlayerMetrics(matches, player2, window)
	if p1 == nil && p2 == nil {
		return nil
	}

	var league *models.LeagueStats
	switch {
	case p1 != nil:
		league = ComputeLeagueStats(matches, p1.League, window)
	case p2 != nil:
		league = ComputeLeagueStats(matches, p2.League, window)
	}
	h2h := ComputeHeadToHead(matches, player1, player2, window)

	return &models.FixtureAnalysis{
		Player1:    p1,
		Player2:    p2,
		League:     league,
		HeadToHead: h2h,
		Potential:  AnalyzeMatchPotential(p1, p2),
		Projections: GenerateProjections(ProjectionInput{
			Player1:    p1,
			Player2:    p2,
			League:     league,
			HeadToHead: h2h,
		}),
		Trends: DetectTrends(matches, []string{player1, player2}),
	}
}
