package handlers

import (
	"context"
	"sync"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// MockAnalysisService implements logic.AnalysisService with overridable funcs
type MockAnalysisService struct {
	PlayerMetricsFunc     func(ctx context.Context, player string, window int) (*models.PlayerMetrics, error)
	PlayerTrendFunc       func(ctx context.Context, player string) (*models.PlayerTrend, error)
	LeagueStatsFunc       func(ctx context.Context, league string, window int) (*models.LeagueStats, error)
	LeagueLeaderboardFunc func(ctx context.Context, league string, window int) ([]models.PlayerMetrics, error)
	LeagueTrendsFunc      func(ctx context.Context, league string) ([]models.PlayerTrend, error)
	HeadToHeadFunc        func(ctx context.Context, player1, player2 string, window int) (*models.H2HStats, error)
	FixtureAnalysisFunc   func(ctx context.Context, player1, player2 string, window int) (*models.FixtureAnalysis, error)
	LeagueSnapshotFunc    func(ctx context.Context, league string, window int) (*models.LeagueSnapshot, error)
}

func (m *MockAnalysisService) PlayerMetrics(ctx context.Context, player string, window int) (*models.PlayerMetrics, error) {
	if m.PlayerMetricsFunc != nil {
		return m.PlayerMetricsFunc(ctx, player, window)
	}
	return &models.PlayerMetrics{Player: player, Window: window}, nil
}

func (m *MockAnalysisService) PlayerTrend(ctx context.Context, player string) (*models.PlayerTrend, error) {
	if m.PlayerTrendFunc != nil {
		return m.PlayerTrendFunc(ctx, player)
	}
	return &models.PlayerTrend{Player: player, Trends: []models.TrendEntry{}}, nil
}

func (m *MockAnalysisService) LeagueStats(ctx context.Context, league string, window int) (*models.LeagueStats, error) {
	if m.LeagueStatsFunc != nil {
		return m.LeagueStatsFunc(ctx, league, window)
	}
	return &models.LeagueStats{League: league}, nil
}

func (m *MockAnalysisService) LeagueLeaderboard(ctx context.Context, league string, window int) ([]models.PlayerMetrics, error) {
	if m.LeagueLeaderboardFunc != nil {
		return m.LeagueLeaderboardFunc(ctx, league, window)
	}
	return []models.PlayerMetrics{}, nil
}

func (m *MockAnalysisService) LeagueTrends(ctx context.Context, league string) ([]models.PlayerTrend, error) {
	if m.LeagueTrendsFunc != nil {
		return m.LeagueTrendsFunc(ctx, league)
	}
	return nil, nil
}

func (m *MockAnalysisService) HeadToHead(ctx context.Context, player1, player2 string, window int) (*models.H2HStats, error) {
	if m.HeadToHeadFunc != nil {
		return m.HeadToHeadFunc(ctx, player1, player2, window)
	}
	return &models.H2HStats{Player1: player1, Player2: player2}, nil
}

func (m *MockAnalysisService) FixtureAnalysis(ctx context.Context, player1, player2 string, window int) (*models.FixtureAnalysis, error) {
	if m.FixtureAnalysisFunc != nil {
		return m.FixtureAnalysisFunc(ctx, player1, player2, window)
	}
	return &models.FixtureAnalysis{Potential: models.PotentialNone}, nil
}

func (m *MockAnalysisService) LeagueSnapshot(ctx context.Context, league string, window int) (*models.LeagueSnapshot, error) {
	if m.LeagueSnapshotFunc != nil {
		return m.LeagueSnapshotFunc(ctx, league, window)
	}
	return &models.LeagueSnapshot{League: league}, nil
}

// MockIngestQueue implements IngestQueue for testing
type MockIngestQueue struct {
	EnqueueFunc func(record models.MatchRecord, rawJSON string) bool

	mu       sync.Mutex
	Records  []models.MatchRecord
	RawJSONs []string
}

func (m *MockIngestQueue) Enqueue(record models.MatchRecord, rawJSON string) bool {
	if m.EnqueueFunc != nil && !m.EnqueueFunc(record, rawJSON) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, record)
	m.RawJSONs = append(m.RawJSONs, rawJSON)
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return 0 }
