package models

// PeriodStats holds threshold crossings for one period (half-time or full-time).
// Counts are raw, percentages are rounded to the nearest integer of the sample.
type PeriodStats struct {
	Over05Count int `json:"over_05_count"`
	Over15Count int `json:"over_15_count"`
	Over25Count int `json:"over_25_count"`
	Over35Count int `json:"over_35_count"`
	BTTSCount   int `json:"btts_count"`

	Over05Pct int `json:"over_05_pct"`
	Over15Pct int `json:"over_15_pct"`
	Over25Pct int `json:"over_25_pct"`
	Over35Pct int `json:"over_35_pct"`
	BTTSPct   int `json:"btts_pct"`

	AvgGoals float64 `json:"avg_goals"`
}

// Verdict labels a player's recent scoring profile
type Verdict string

const (
	VerdictSniper  Verdict = "sniper"
	VerdictWall    Verdict = "wall"
	VerdictTroll   Verdict = "troll"
	VerdictNeutral Verdict = "neutral"
)

// PlayerMetrics is the rolling-window form of one player
type PlayerMetrics struct {
	Player     string `json:"player"`
	League     string `json:"league"`
	Window     int    `json:"window"`
	SampleSize int    `json:"sample_size"`

	HalfTime PeriodStats `json:"half_time"`
	FullTime PeriodStats `json:"full_time"`

	AvgGoalsScored   float64 `json:"avg_goals_scored"`
	AvgGoalsConceded float64 `json:"avg_goals_conceded"`

	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
	WinPct  int     `json:"win_pct"`
	Verdict Verdict `json:"verdict"`
}

// LeagueStats is the rolling-window baseline of a league
type LeagueStats struct {
	League      string  `json:"league"`
	SampleSize  int     `json:"sample_size"`
	AvgHTGoals  float64 `json:"avg_ht_goals"`
	AvgFTGoals  float64 `json:"avg_ft_goals"`
	HTOver05Pct int     `json:"ht_over_05_pct"`
	HTBTTSPct   int     `json:"ht_btts_pct"`
	BTTSPct     int     `json:"btts_pct"`
	FTOver25Pct int     `json:"ft_over_25_pct"`
}

// H2HStats compares two players over their direct meetings
type H2HStats struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Total   int    `json:"total"`

	Player1Wins   int `json:"player1_wins"`
	Player2Wins   int `json:"player2_wins"`
	Draws         int `json:"draws"`
	Player1WinPct int `json:"player1_win_percentage"`
	Player2WinPct int `json:"player2_win_percentage"`
	DrawPct       int `json:"draw_percentage"`

	AvgHTGoals float64     `json:"avg_ht_goals"`
	AvgFTGoals float64     `json:"avg_ft_goals"`
	HalfTime   PeriodStats `json:"half_time"`
	FullTime   PeriodStats `json:"full_time"`
}
