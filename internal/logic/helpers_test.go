package logic

import (
	"fmt"
	"time"

	"github.com/esoccer-insights/stats-api/internal/models"
)

const testLeague = "Battle 8 min"

var baseTime = time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

// seq hands out decreasing timestamps so fixtures read most-recent-first
type seq struct{ n int }

func (s *seq) next() time.Time {
	s.n++
	return baseTime.Add(-time.Duration(s.n) * 10 * time.Minute)
}

// game builds a record in testLeague with full-time and half-time scores
func game(s *seq, home, away string, hg, ag, hth, hta int) models.MatchRecord {
	ts := s.next()
	return models.NewMatchRecord(fmt.Sprintf("m%d", s.n), home, away, testLeague, ts, hg, ag, hth, hta)
}

// sided builds a match seen from player's side: home on even indexes, away on odd ones
func sided(s *seq, i int, player string, htFor, htAgainst, ftFor, ftAgainst int) models.MatchRecord {
	opp := fmt.Sprintf("Opp%d", i)
	if i%2 == 0 {
		return game(s, player, opp, ftFor, ftAgainst, htFor, htAgainst)
	}
	return game(s, opp, player, ftAgainst, ftFor, htAgainst, htFor)
}

func assertPeriodBounds(p models.PeriodStats) bool {
	for _, v := range []int{p.Over05Pct, p.Over15Pct, p.Over25Pct, p.Over35Pct, p.BTTSPct} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}
