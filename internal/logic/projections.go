package logic

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// Projection thresholds
const (
	minProjectionProbability = 65
	highConfidenceFrom       = 80
	h2hCitationFrom          = 80
	playerCitationFrom       = 75
	riskPlayerAbove          = 70
	riskLeagueBelow          = 55
	favourableLeagueFrom     = 70
)

// Blend weights, kept exact so that x.5 results round the same way every time
var (
	weightH2H           = decimal.New(4, -1)
	weightFormWithH2H   = decimal.New(4, -1)
	weightLeagueWithH2H = decimal.New(2, -1)
	weightFormOnly      = decimal.New(7, -1)
	weightLeagueOnly    = decimal.New(3, -1)
	two                 = decimal.NewFromInt(2)
)

// ProjectionInput carries the already computed signals of a fixture
type ProjectionInput struct {
	Player1    *models.PlayerMetrics
	Player2    *models.PlayerMetrics
	League     *models.LeagueStats
	HeadToHead *models.H2HStats
}

type projectionMarket struct {
	name   string
	player func(*models.PlayerMetrics) int
	league func(*models.LeagueStats) int
	h2h    func(*models.H2HStats) int
}

var projectionMarkets = []projectionMarket{
	{
		name:   "Over 0.5 HT",
		player: func(p *models.PlayerMetrics) int { return p.HalfTime.Over05Pct },
		league: func(l *models.LeagueStats) int { return l.HTOver05Pct },
		h2h:    func(h *models.H2HStats) int { return h.HalfTime.Over05Pct },
	},
	{
		name:   "BTTS HT",
		player: func(p *models.PlayerMetrics) int { return p.HalfTime.BTTSPct },
		league: func(l *models.LeagueStats) int { return l.HTBTTSPct },
		h2h:    func(h *models.H2HStats) int { return h.HalfTime.BTTSPct },
	},
	{
		name:   "Over 2.5 FT",
		player: func(p *models.PlayerMetrics) int { return p.FullTime.Over25Pct },
		league: func(l *models.LeagueStats) int { return l.FTOver25Pct },
		h2h:    func(h *models.H2HStats) int { return h.FullTime.Over25Pct },
	},
	{
		name:   "BTTS FT",
		player: func(p *models.PlayerMetrics) int { return p.FullTime.BTTSPct },
		league: func(l *models.LeagueStats) int { return l.BTTSPct },
		h2h:    func(h *models.H2HStats) int { return h.FullTime.BTTSPct },
	},
}

// GenerateProjections blends head-to-head, individual form and league
// baselines per market and returns the markets worth showing, most likely first.
// Without both players there is nothing to project. A missing league falls
// back to the players' own average as baseline.
func GenerateProjections(in ProjectionInput) []models.Projection {
	if in.Player1 == nil || in.Player2 == nil {
		return nil
	}
	hasH2H := in.HeadToHead != nil && in.HeadToHead.Total > 0
	hasLeague := in.League != nil

	projections := make([]models.Projection, 0, len(projectionMarkets))
	for _, mk := range projectionMarkets {
		p1 := mk.player(in.Player1)
		p2 := mk.player(in.Player2)
		form := decimal.NewFromInt(int64(p1 + p2)).Div(two)

		leagueBase := form
		leaguePct := 0
		if hasLeague {
			leaguePct = mk.league(in.League)
			leagueBase = decimal.NewFromInt(int64(leaguePct))
		}

		var blended decimal.Decimal
		h2hPct := 0
		if hasH2H {
			h2hPct = mk.h2h(in.HeadToHead)
			blended = decimal.NewFromInt(int64(h2hPct)).Mul(weightH2H).
				Add(form.Mul(weightFormWithH2H)).
				Add(leagueBase.Mul(weightLeagueWithH2H))
		} else {
			blended = form.Mul(weightFormOnly).Add(leagueBase.Mul(weightLeagueOnly))
		}
		probability := int(blended.Round(0).IntPart())
		if probability < minProjectionProbability {
			continue
		}

		proj := models.Projection{
			Market:      mk.name,
			Probability: probability,
			Confidence:  models.ConfidenceMedium,
			Reasoning:   []string{},
			Risk:        hasLeague && p1 > riskPlayerAbove && p2 > riskPlayerAbove && leaguePct < riskLeagueBelow,
		}
		if probability >= highConfidenceFrom {
			proj.Confidence = models.ConfidenceHigh
		}

		if hasH2H && h2hPct >= h2hCitationFrom {
			proj.Reasoning = append(proj.Reasoning,
				fmt.Sprintf("H2H: %d%% of the last %d meetings hit %s", h2hPct, in.HeadToHead.Total, mk.name))
		}
		for _, pl := range []struct {
			metrics *models.PlayerMetrics
			pct     int
		}{{in.Player1, p1}, {in.Player2, p2}} {
			if pl.pct >= playerCitationFrom {
				proj.Reasoning = append(proj.Reasoning,
					fmt.Sprintf("%s: %d%% in the last %d matches", pl.metrics.Player, pl.pct, pl.metrics.SampleSize))
			}
		}
		switch {
		case proj.Risk:
			proj.Reasoning = append(proj.Reasoning,
				fmt.Sprintf("Warning: both players above %d%% but the league baseline is only %d%%", riskPlayerAbove, leaguePct))
		case hasLeague && leaguePct >= favourableLeagueFrom:
			proj.Reasoning = append(proj.Reasoning,
				fmt.Sprintf("Favourable league: %s hits %d%%", in.League.League, leaguePct))
		}

		projections = append(projections, proj)
	}

	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].Probability > projections[j].Probability
	})
	return projections
}
