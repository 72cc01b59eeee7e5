package logic

import (
	"math"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// periodFold accumulates threshold crossings for one period over a slice
type periodFold struct {
	over05, over15, over25, over35, btts int
	goals                                int
}

func (f *periodFold) add(total int, btts bool) {
	if total > 0 {
		f.over05++
	}
	if total > 1 {
		f.over15++
	}
	if total > 2 {
		f.over25++
	}
	if total > 3 {
		f.over35++
	}
	if btts {
		f.btts++
	}
	f.goals += total
}

// result converts the fold into counts and percentages of n. n must be > 0
// for non-zero percentages; n == 0 yields an all-zero block.
func (f periodFold) result(n int) models.PeriodStats {
	return models.PeriodStats{
		Over05Count: f.over05,
		Over15Count: f.over15,
		Over25Count: f.over25,
		Over35Count: f.over35,
		BTTSCount:   f.btts,
		Over05Pct:   percent(f.over05, n),
		Over15Pct:   percent(f.over15, n),
		Over25Pct:   percent(f.over25, n),
		Over35Pct:   percent(f.over35, n),
		BTTSPct:     percent(f.btts, n),
		AvgGoals:    average(f.goals, n),
	}
}

// percent returns count/n as a rounded percentage, 0 when n == 0
func percent(count, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(n)))
}

// average returns sum/n rounded to two decimals, 0 when n == 0
func average(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*100) / 100
}

// firstN keeps the first n matches satisfying keep, in input order
func firstN(matches []models.MatchRecord, n int, keep func(models.MatchRecord) bool) []models.MatchRecord {
	if n <= 0 {
		return nil
	}
	out := make([]models.MatchRecord, 0, min(n, len(matches)))
	for _, m := range matches {
		if len(out) == n {
			break
		}
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
