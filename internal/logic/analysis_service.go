package logic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/esoccer-insights/stats-api/internal/cache"
	"github.com/esoccer-insights/stats-api/internal/models"
)

var (
	// ErrNoData means the source holds nothing for the requested player, pair or league
	ErrNoData = errors.New("no data")

	// ErrSourceUnavailable wraps failures of the underlying MatchSource
	ErrSourceUnavailable = errors.New("match source unavailable")
)

// AnalysisConfig configures the analysis service
type AnalysisConfig struct {
	Source           MatchSource
	Cache            cache.Store
	CacheTTL         time.Duration
	HistoryDepth     int
	FetchConcurrency int
	Logger           *zap.Logger
}

type analysisService struct {
	source      MatchSource
	cache       cache.Store
	ttl         time.Duration
	depth       int
	concurrency int
	logger      *zap.SugaredLogger
}

func NewAnalysisService(cfg AnalysisConfig) AnalysisService {
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = 200
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &analysisService{
		source:      cfg.Source,
		cache:       cfg.Cache,
		ttl:         cfg.CacheTTL,
		depth:       cfg.HistoryDepth,
		concurrency: cfg.FetchConcurrency,
		logger:      cfg.Logger.Sugar(),
	}
}

func (s *analysisService) PlayerMetrics(ctx context.Context, player string, window int) (*models.PlayerMetrics, error) {
	return cached(ctx, s, "player-metrics", []string{player, strconv.Itoa(window)},
		func(ctx context.Context) (*models.PlayerMetrics, error) {
			history, err := s.playerHistory(ctx, player)
			if err != nil {
				return nil, err
			}
			pm := ComputePlayerMetrics(history, player, window)
			if pm == nil {
				return nil, ErrNoData
			}
			return pm, nil
		})
}

// PlayerTrend returns the detected patterns. A player with history but no
// pattern gets an empty trend list rather than ErrNoData.
func (s *analysisService) PlayerTrend(ctx context.Context, player string) (*models.PlayerTrend, error) {
	return cached(ctx, s, "player-trend", []string{player},
		func(ctx context.Context) (*models.PlayerTrend, error) {
			history, err := s.playerHistory(ctx, player)
			if err != nil {
				return nil, err
			}
			recent := firstN(history, TrendWindow, func(m models.MatchRecord) bool {
				return m.Involves(player)
			})
			if len(recent) == 0 {
				return nil, ErrNoData
			}
			if t := DetectPlayerTrend(history, player); t != nil {
				return t, nil
			}
			return &models.PlayerTrend{
				Player:        player,
				League:        recent[0].League,
				RecentMatches: recent,
				Trends:        []models.TrendEntry{},
			}, nil
		})
}

func (s *analysisService) LeagueStats(ctx context.Context, league string, window int) (*models.LeagueStats, error) {
	return cached(ctx, s, "league-stats", []string{league, strconv.Itoa(window)},
		func(ctx context.Context) (*models.LeagueStats, error) {
			history, err := s.leagueHistory(ctx, league)
			if err != nil {
				return nil, err
			}
			ls := ComputeLeagueStats(history, league, window)
			if ls == nil {
				return nil, ErrNoData
			}
			return ls, nil
		})
}

func (s *analysisService) LeagueLeaderboard(ctx context.Context, league string, window int) ([]models.PlayerMetrics, error) {
	return cached(ctx, s, "league-leaderboard", []string{league, strconv.Itoa(window)},
		func(ctx context.Context) ([]models.PlayerMetrics, error) {
			history, err := s.leagueHistory(ctx, league)
			if err != nil {
				return nil, err
			}
			board := LeagueLeaderboard(history, league, window)
			if len(board) == 0 {
				return nil, ErrNoData
			}
			return board, nil
		})
}

func (s *analysisService) LeagueTrends(ctx context.Context, league string) ([]models.PlayerTrend, error) {
	return cached(ctx, s, "league-trends", []string{league},
		func(ctx context.Context) ([]models.PlayerTrend, error) {
			history, err := s.leagueHistory(ctx, league)
			if err != nil {
				return nil, err
			}
			if len(history) == 0 {
				return nil, ErrNoData
			}
			return DetectLeagueTrends(history, league), nil
		})
}

func (s *analysisService) HeadToHead(ctx context.Context, player1, player2 string, window int) (*models.H2HStats, error) {
	return cached(ctx, s, "h2h", []string{player1, player2, strconv.Itoa(window)},
		func(ctx context.Context) (*models.H2HStats, error) {
			histories, err := s.playerHistories(ctx, player1, player2)
			if err != nil {
				return nil, err
			}
			if len(histories[0]) == 0 && len(histories[1]) == 0 {
				return nil, ErrNoData
			}
			return ComputeHeadToHead(MergeRecent(histories...), player1, player2, window), nil
		})
}

// FixtureAnalysis fetches both histories in parallel, then the league of the
// most recent match of player1 (or player2), and analyses the union.
func (s *analysisService) FixtureAnalysis(ctx context.Context, player1, player2 string, window int) (*models.FixtureAnalysis, error) {
	return cached(ctx, s, "fixture", []string{player1, player2, strconv.Itoa(window)},
		func(ctx context.Context) (*models.FixtureAnalysis, error) {
			histories, err := s.playerHistories(ctx, player1, player2)
			if err != nil {
				return nil, err
			}
			merged := MergeRecent(histories...)

			league := ""
			for _, p := range []string{player1, player2} {
				if recent := firstN(merged, 1, func(m models.MatchRecord) bool { return m.Involves(p) }); len(recent) > 0 {
					league = recent[0].League
					break
				}
			}
			if league == "" {
				return nil, ErrNoData
			}

			leagueMatches, err := s.leagueHistory(ctx, league)
			if err != nil {
				return nil, err
			}

			fa := AnalyzeFixture(MergeRecent(merged, leagueMatches), player1, player2, window)
			if fa == nil {
				return nil, ErrNoData
			}
			return fa, nil
		})
}

// LeagueSnapshot is never cached: it is the refresh itself
func (s *analysisService) LeagueSnapshot(ctx context.Context, league string, window int) (*models.LeagueSnapshot, error) {
	history, err := s.leagueHistory(ctx, league)
	if err != nil {
		return nil, err
	}
	stats := ComputeLeagueStats(history, league, window)
	if stats == nil {
		return nil, ErrNoData
	}
	return &models.LeagueSnapshot{
		League:      league,
		Stats:       stats,
		Leaderboard: LeagueLeaderboard(history, league, window),
		Trends:      DetectLeagueTrends(history, league),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *analysisService) playerHistory(ctx context.Context, player string) ([]models.MatchRecord, error) {
	matches, err := s.source.PlayerMatches(ctx, player, s.depth)
	if err != nil {
		return nil, fmt.Errorf("%w: player %q: %w", ErrSourceUnavailable, player, err)
	}
	SortRecent(matches)
	return matches, nil
}

func (s *analysisService) leagueHistory(ctx context.Context, league string) ([]models.MatchRecord, error) {
	matches, err := s.source.LeagueMatches(ctx, league, s.depth)
	if err != nil {
		return nil, fmt.Errorf("%w: league %q: %w", ErrSourceUnavailable, league, err)
	}
	SortRecent(matches)
	return matches, nil
}

// playerHistories fetches each player's history with bounded parallelism
func (s *analysisService) playerHistories(ctx context.Context, players ...string) ([][]models.MatchRecord, error) {
	out := make([][]models.MatchRecord, len(players))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range players {
		i, p := i, p
		g.Go(func() error {
			matches, err := s.playerHistory(ctx, p)
			if err != nil {
				return err
			}
			out[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// cached serves kind/parts from the cache or computes and stores it.
// Cache failures are logged and fall through to compute.
func cached[T any](ctx context.Context, s *analysisService, kind string, parts []string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return compute(ctx)
	}

	key := cache.Key(kind, parts...)
	var hit T
	entry, ok, err := cache.Load(ctx, s.cache, kind, key, &hit)
	switch {
	case err != nil:
		s.logger.Warnw("Cache read failed", "kind", kind, "error", err)
	case ok:
		s.logger.Debugw("Served from cache", "kind", kind, "age", time.Since(entry.StoredAt))
		return hit, nil
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if s.ttl > 0 {
		if err := cache.Save(ctx, s.cache, key, v, s.ttl); err != nil {
			s.logger.Warnw("Cache write failed", "kind", kind, "error", err)
		}
	}
	return v, nil
}
