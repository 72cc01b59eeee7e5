package models

import "time"

// Placeholder identities used when an upstream record omits them
const (
	UnknownPlayer = "Desconhecido"
	UnknownLeague = "Liga Desconhecida"
)

// RawMatch is one upstream match payload of unknown shape
type RawMatch map[string]any

// MatchRecord is the canonical, immutable form of a finished match.
// JSON tags follow the snake_case feed schema so an encoded record can be
// fed back through the normalizer unchanged.
type MatchRecord struct {
	ID          string    `json:"id,omitempty"`
	HomePlayer  string    `json:"home_player"`
	AwayPlayer  string    `json:"away_player"`
	League      string    `json:"league"`
	Timestamp   time.Time `json:"timestamp"`
	HomeGoals   int       `json:"score_home"`
	AwayGoals   int       `json:"score_away"`
	HTHomeGoals int       `json:"ht_score_home"`
	HTAwayGoals int       `json:"ht_score_away"`

	// Derived in NewMatchRecord
	TotalGoals   int  `json:"total_goals"`
	HTTotalGoals int  `json:"ht_total_goals"`
	BTTS         bool `json:"btts"`
	HTBTTS       bool `json:"ht_btts"`
}

// NewMatchRecord builds a record and computes its derived fields once.
// Half-time goals above full-time goals are kept as given.
func NewMatchRecord(id, home, away, league string, ts time.Time, homeGoals, awayGoals, htHome, htAway int) MatchRecord {
	return MatchRecord{
		ID:           id,
		HomePlayer:   home,
		AwayPlayer:   away,
		League:       league,
		Timestamp:    ts,
		HomeGoals:    homeGoals,
		AwayGoals:    awayGoals,
		HTHomeGoals:  htHome,
		HTAwayGoals:  htAway,
		TotalGoals:   homeGoals + awayGoals,
		HTTotalGoals: htHome + htAway,
		BTTS:         homeGoals > 0 && awayGoals > 0,
		HTBTTS:       htHome > 0 && htAway > 0,
	}
}

// Involves reports whether player took part on either side
func (m MatchRecord) Involves(player string) bool {
	return m.HomePlayer == player || m.AwayPlayer == player
}

// IsBetween reports whether the match was played between a and b in either orientation
func (m MatchRecord) IsBetween(a, b string) bool {
	return (m.HomePlayer == a && m.AwayPlayer == b) || (m.HomePlayer == b && m.AwayPlayer == a)
}

// SideGoals returns full-time and half-time goals for the player's side and
// the opponent's side. The home side is used when player sits on both.
func (m MatchRecord) SideGoals(player string) (ftFor, ftAgainst, htFor, htAgainst int) {
	if m.HomePlayer == player {
		return m.HomeGoals, m.AwayGoals, m.HTHomeGoals, m.HTAwayGoals
	}
	return m.AwayGoals, m.HomeGoals, m.HTAwayGoals, m.HTHomeGoals
}

// Opponent returns the other side's player name
func (m MatchRecord) Opponent(player string) string {
	if m.HomePlayer == player {
		return m.AwayPlayer
	}
	return m.HomePlayer
}

// ArchivedMatch is a normalized record as written to the match archive,
// with the payload it was normalized from.
type ArchivedMatch struct {
	Record     MatchRecord
	RawJSON    string
	IngestedAt time.Time
}
