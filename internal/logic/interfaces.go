package logic

import (
	"context"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// MatchSource returns a player's or a league's recent history, most recent first
type MatchSource interface {
	PlayerMatches(ctx context.Context, player string, limit int) ([]models.MatchRecord, error)
	LeagueMatches(ctx context.Context, league string, limit int) ([]models.MatchRecord, error)
}

// AnalysisService answers analysis queries against a MatchSource.
// Methods return ErrNoData when the source has nothing for the request.
type AnalysisService interface {
	PlayerMetrics(ctx context.Context, player string, window int) (*models.PlayerMetrics, error)
	PlayerTrend(ctx context.Context, player string) (*models.PlayerTrend, error)
	LeagueStats(ctx context.Context, league string, window int) (*models.LeagueStats, error)
	LeagueLeaderboard(ctx context.Context, league string, window int) ([]models.PlayerMetrics, error)
	LeagueTrends(ctx context.Context, league string) ([]models.PlayerTrend, error)
	HeadToHead(ctx context.Context, player1, player2 string, window int) (*models.H2HStats, error)
	FixtureAnalysis(ctx context.Context, player1, player2 string, window int) (*models.FixtureAnalysis, error)
	LeagueSnapshot(ctx context.Context, league string, window int) (*models.LeagueSnapshot, error)
}
