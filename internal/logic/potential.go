package logic

import "github.com/esoccer-insights/stats-api/internal/models"

// AnalyzeMatchPotential classifies a pairing from both players' form.
// Tiers are evaluated strongest first and the 100% criteria are exact.
// Every criterion is symmetric in the pair.
func AnalyzeMatchPotential(p1, p2 *models.PlayerMetrics) models.MatchPotential {
	if p1 == nil || p2 == nil {
		return models.PotentialNone
	}
	h1, h2 := p1.HalfTime, p2.HalfTime
	f1, f2 := p1.FullTime, p2.FullTime

	switch {
	case h1.Over05Pct == 100 && h2.Over05Pct == 100 &&
		pairAverage(h1.Over15Pct, h2.Over15Pct) >= 95 &&
		f1.BTTSPct == 100 && f2.BTTSPct == 100 &&
		f1.Over15Pct == 100 && f2.Over15Pct == 100 &&
		pairAverage(f1.Over25Pct, f2.Over25Pct) >= 95 &&
		f1.AvgGoals >= 2.7 && f2.AvgGoals >= 2.7:
		return models.PotentialTopClash

	case allHundred(h1.Over05Pct, h1.Over15Pct, h1.Over25Pct, h1.BTTSPct,
		h2.Over05Pct, h2.Over15Pct, h2.Over25Pct, h2.BTTSPct):
		return models.PotentialTopHT

	case allHundred(f1.Over15Pct, f1.Over25Pct, f1.BTTSPct,
		f2.Over15Pct, f2.Over25Pct, f2.BTTSPct):
		return models.PotentialTopFT
	}
	return models.PotentialNone
}

func pairAverage(a, b int) float64 {
	return float64(a+b) / 2
}

func allHundred(pcts ...int) bool {
	for _, p := range pcts {
		if p != 100 {
			return false
		}
	}
	return true
}
