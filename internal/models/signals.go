package models

import "time"

// MatchPotential classifies how strongly two players' form points at goals
type MatchPotential string

const (
	PotentialTopClash MatchPotential = "top_clash"
	PotentialTopHT    MatchPotential = "top_ht"
	PotentialTopFT    MatchPotential = "top_ft"
	PotentialNone     MatchPotential = "none"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Projection is a ranked market estimate for an upcoming fixture
type Projection struct {
	Market      string     `json:"market"`
	Probability int        `json:"probability"`
	Confidence  Confidence `json:"confidence"`
	Reasoning   []string   `json:"reasoning"`
	Risk        bool       `json:"risk"`
}

// TrendType tags a detected recent-form pattern
type TrendType string

const (
	TrendStreakBreakerActive TrendType = "STREAK_BREAKER_ACTIVE"
	TrendStreakJustBroken    TrendType = "STREAK_JUST_BROKEN"
	TrendHTWinFTFail         TrendType = "HT_WIN_FT_FAIL"
	TrendOver25Streak        TrendType = "OVER_25_STREAK"
	TrendBTTSStreak          TrendType = "BTTS_STREAK"
)

type StatPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type TrendEntry struct {
	Type        TrendType  `json:"type"`
	Confidence  int        `json:"confidence"`
	Description string     `json:"description"`
	Stats       []StatPair `json:"stats"`
}

// PlayerTrend lists the patterns found in a player's last five matches
type PlayerTrend struct {
	Player        string        `json:"player"`
	League        string        `json:"league"`
	RecentMatches []MatchRecord `json:"recent_matches"`
	Trends        []TrendEntry  `json:"trends"`
}

// FixtureAnalysis bundles every signal for an upcoming pairing
type FixtureAnalysis struct {
	Player1     *PlayerMetrics `json:"player1"`
	Player2     *PlayerMetrics `json:"player2"`
	League      *LeagueStats   `json:"league"`
	HeadToHead  *H2HStats      `json:"head_to_head"`
	Potential   MatchPotential `json:"potential"`
	Projections []Projection   `json:"projections"`
	Trends      []PlayerTrend  `json:"trends"`
}

// LeagueSnapshot is the periodic live view of one league
type LeagueSnapshot struct {
	CycleID     string          `json:"cycle_id"`
	League      string          `json:"league"`
	Stats       *LeagueStats    `json:"stats"`
	Leaderboard []PlayerMetrics `json:"leaderboard"`
	Trends      []PlayerTrend   `json:"trends"`
	GeneratedAt time.Time       `json:"generated_at"`
}
