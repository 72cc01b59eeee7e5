package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esoccer-insights/stats-api/internal/models"
)

func projectionPlayers() (*models.PlayerMetrics, *models.PlayerMetrics) {
	p1 := &models.PlayerMetrics{
		Player:     "Kray",
		SampleSize: 10,
		HalfTime:   models.PeriodStats{Over05Pct: 90, BTTSPct: 40},
		FullTime:   models.PeriodStats{Over25Pct: 80, BTTSPct: 76},
	}
	p2 := &models.PlayerMetrics{
		Player:     "Boulevard",
		SampleSize: 10,
		HalfTime:   models.PeriodStats{Over05Pct: 100, BTTSPct: 30},
		FullTime:   models.PeriodStats{Over25Pct: 90, BTTSPct: 74},
	}
	return p1, p2
}

func projectionLeague() *models.LeagueStats {
	return &models.LeagueStats{
		League:      "Battle 8 min",
		SampleSize:  50,
		HTOver05Pct: 80,
		HTBTTSPct:   20,
		FTOver25Pct: 60,
		BTTSPct:     50,
	}
}

func markets(projections []models.Projection) []string {
	out := make([]string, len(projections))
	for i, p := range projections {
		out[i] = p.Market
	}
	return out
}

func TestGenerateProjections_FormAndLeague(t *testing.T) {
	p1, p2 := projectionPlayers()

	got := GenerateProjections(ProjectionInput{Player1: p1, Player2: p2, League: projectionLeague()})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Over 0.5 HT", "Over 2.5 FT", "BTTS FT"}, markets(got))

	// 0.7*95 + 0.3*80
	assert.Equal(t, models.Projection{
		Market:      "Over 0.5 HT",
		Probability: 91,
		Confidence:  models.ConfidenceHigh,
		Reasoning: []string{
			"Kray: 90% in the last 10 matches",
			"Boulevard: 100% in the last 10 matches",
			"Favourable league: Battle 8 min hits 80%",
		},
	}, got[0])

	// 0.7*85 + 0.3*60 = 77.5 rounds up
	assert.Equal(t, 78, got[1].Probability)
	assert.Equal(t, models.ConfidenceMedium, got[1].Confidence)
	assert.False(t, got[1].Risk)
	assert.Len(t, got[1].Reasoning, 2)

	// 0.7*75 + 0.3*50 = 67.5, both players above 70 in a weak league
	assert.Equal(t, 68, got[2].Probability)
	assert.True(t, got[2].Risk)
	assert.Equal(t, []string{
		"Kray: 76% in the last 10 matches",
		"Warning: both players above 70% but the league baseline is only 50%",
	}, got[2].Reasoning)
}

func TestGenerateProjections_WithHeadToHead(t *testing.T) {
	p1, p2 := projectionPlayers()
	h2h := &models.H2HStats{
		Player1:  "Kray",
		Player2:  "Boulevard",
		Total:    6,
		HalfTime: models.PeriodStats{Over05Pct: 100, BTTSPct: 50},
		FullTime: models.PeriodStats{Over25Pct: 50, BTTSPct: 83},
	}

	got := GenerateProjections(ProjectionInput{Player1: p1, Player2: p2, League: projectionLeague(), HeadToHead: h2h})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Over 0.5 HT", "BTTS FT", "Over 2.5 FT"}, markets(got))

	assert.Equal(t, 94, got[0].Probability)
	assert.Equal(t, "H2H: 100% of the last 6 meetings hit Over 0.5 HT", got[0].Reasoning[0])
	assert.Len(t, got[0].Reasoning, 4)

	// 0.4*83 + 0.4*75 + 0.2*50
	assert.Equal(t, 73, got[1].Probability)
	assert.True(t, got[1].Risk)
	assert.Equal(t, "H2H: 83% of the last 6 meetings hit BTTS FT", got[1].Reasoning[0])

	assert.Equal(t, 66, got[2].Probability)
	assert.Equal(t, models.ConfidenceMedium, got[2].Confidence)
}

func TestGenerateProjections_EmptyHeadToHeadIgnored(t *testing.T) {
	p1, p2 := projectionPlayers()
	league := projectionLeague()

	without := GenerateProjections(ProjectionInput{Player1: p1, Player2: p2, League: league})
	withEmpty := GenerateProjections(ProjectionInput{
		Player1: p1, Player2: p2, League: league,
		HeadToHead: &models.H2HStats{Player1: "Kray", Player2: "Boulevard"},
	})
	assert.Equal(t, without, withEmpty)
}

func TestGenerateProjections_NoLeague(t *testing.T) {
	p1, p2 := projectionPlayers()

	got := GenerateProjections(ProjectionInput{Player1: p1, Player2: p2})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.False(t, p.Risk, p.Market)
		assert.GreaterOrEqual(t, p.Probability, 65)
	}
	// league baseline falls back to the form average of 95
	assert.Equal(t, "Over 0.5 HT", got[0].Market)
	assert.Equal(t, 95, got[0].Probability)
}

func TestGenerateProjections_MissingPlayer(t *testing.T) {
	p1, _ := projectionPlayers()
	assert.Nil(t, GenerateProjections(ProjectionInput{Player1: p1, League: projectionLeague()}))
	assert.Nil(t, GenerateProjections(ProjectionInput{}))
}
