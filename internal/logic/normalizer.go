package logic

import (
	"strings"
	"time"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// Alias lists per canonical attribute, in priority order. The first alias
// present with a usable value wins. Dotted entries walk nested objects.
// Snake_case names come from the live feed, camelCase and HomePlayer-prefixed
// names from the history API.
var (
	idAliases = []string{"id", "match_id", "matchId", "MatchId", "event_id"}

	homePlayerAliases = []string{
		"home_player", "homePlayer", "HomePlayer", "HomePlayerName",
		"home.name", "home.player", "player_home", "home",
	}
	awayPlayerAliases = []string{
		"away_player", "awayPlayer", "AwayPlayer", "AwayPlayerName",
		"away.name", "away.player", "player_away", "away",
	}
	leagueAliases = []string{
		"league.name", "league", "league_name", "leagueName", "League", "LeagueName",
		"competition", "tournament",
	}
	timestampAliases = []string{
		"timestamp", "time", "date", "start_time", "startTime", "StartTime",
		"match_time", "created_at",
	}

	homeGoalsAliases = []string{
		"score_home", "scoreHome", "HomePlayerScore", "HomePlayerGoals",
		"home_score", "homeScore", "score.home", "ft.home", "home.score", "home.goals",
	}
	awayGoalsAliases = []string{
		"score_away", "scoreAway", "AwayPlayerScore", "AwayPlayerGoals",
		"away_score", "awayScore", "score.away", "ft.away", "away.score", "away.goals",
	}
	htHomeGoalsAliases = []string{
		"ht_score_home", "htScoreHome", "HomePlayerHTScore", "HomePlayerScoreHT",
		"home_ht_score", "homeHtScore", "score_ht.home", "ht.home", "score.ht_home", "home.ht_score",
	}
	htAwayGoalsAliases = []string{
		"ht_score_away", "htScoreAway", "AwayPlayerHTScore", "AwayPlayerScoreHT",
		"away_ht_score", "awayHtScore", "score_ht.away", "ht.away", "score.ht_away", "away.ht_score",
	}
)

// NormalizeMatch maps one upstream payload into a canonical record.
// It returns false only when the payload carries none of the known fields.
func NormalizeMatch(raw models.RawMatch) (models.MatchRecord, bool) {
	if len(raw) == 0 {
		return models.MatchRecord{}, false
	}

	found := false
	str := func(aliases []string, fallback string) string {
		for _, alias := range aliases {
			if s, ok := models.FlexString(lookup(raw, alias)); ok {
				found = true
				return s
			}
		}
		return fallback
	}
	num := func(aliases []string) int {
		for _, alias := range aliases {
			if n, ok := models.FlexInt(lookup(raw, alias)); ok {
				found = true
				return n
			}
		}
		return 0
	}

	id := str(idAliases, "")
	home := str(homePlayerAliases, models.UnknownPlayer)
	away := str(awayPlayerAliases, models.UnknownPlayer)
	league := str(leagueAliases, models.UnknownLeague)

	var ts time.Time
	for _, alias := range timestampAliases {
		if t, ok := models.FlexTime(lookup(raw, alias)); ok {
			found = true
			if !t.IsZero() {
				ts = t
			}
			break
		}
	}

	homeGoals := num(homeGoalsAliases)
	awayGoals := num(awayGoalsAliases)
	htHome := num(htHomeGoalsAliases)
	htAway := num(htAwayGoalsAliases)

	if !found {
		return models.MatchRecord{}, false
	}
	return models.NewMatchRecord(id, home, away, league, ts, homeGoals, awayGoals, htHome, htAway), true
}

// NormalizeMatches normalizes a batch, dropping discarded payloads and keeping order
func NormalizeMatches(raws []models.RawMatch) []models.MatchRecord {
	out := make([]models.MatchRecord, 0, len(raws))
	for _, raw := range raws {
		if rec, ok := NormalizeMatch(raw); ok {
			out = append(out, rec)
		}
	}
	return out
}

// lookup resolves a plain or dotted alias against the payload
func lookup(raw map[string]any, alias string) any {
	if !strings.Contains(alias, ".") {
		return raw[alias]
	}
	var cur any = raw
	for _, part := range strings.Split(alias, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			// nested objects may arrive already typed as RawMatch
			rm, isRaw := cur.(models.RawMatch)
			if !isRaw {
				return nil
			}
			obj = rm
		}
		cur = obj[part]
	}
	return cur
}
