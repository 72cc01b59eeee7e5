package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

var (
	snapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_snapshots_published_total",
		Help: "League snapshots pushed to live subscribers",
	})

	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esoccer_refresh_cycle_duration_seconds",
		Help:    "Duration of one snapshot refresh cycle",
		Buckets: prometheus.DefBuckets,
	})
)

// SnapshotSource computes the current view of a league
type SnapshotSource interface {
	LeagueSnapshot(ctx context.Context, league string, window int) (*models.LeagueSnapshot, error)
}

// SnapshotPublisher delivers snapshots to live subscribers
type SnapshotPublisher interface {
	Publish(snapshot models.LeagueSnapshot)
}

type RefresherConfig struct {
	Leagues     []string
	Interval    time.Duration
	Window      int
	Concurrency int
	Snapshots   SnapshotSource
	Publisher   SnapshotPublisher
	Logger      *zap.Logger
}

// Refresher recomputes snapshots of the watched leagues on a fixed interval,
// and on demand when new matches of a league have been archived.
type Refresher struct {
	config  RefresherConfig
	watched map[string]struct{}
	trigger chan string
	logger  *zap.SugaredLogger
}

func NewRefresher(cfg RefresherConfig) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Window <= 0 {
		cfg.Window = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	watched := make(map[string]struct{}, len(cfg.Leagues))
	for _, l := range cfg.Leagues {
		watched[l] = struct{}{}
	}
	return &Refresher{
		config:  cfg,
		watched: watched,
		trigger: make(chan string, 64),
		logger:  cfg.Logger.Sugar(),
	}
}

// Run refreshes immediately, then every interval until ctx is done
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Infow("Snapshot refresher started", "leagues", r.config.Leagues, "interval", r.config.Interval)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.RefreshOnce(ctx, r.config.Leagues)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Snapshot refresher stopped")
			return
		case <-ticker.C:
			r.RefreshOnce(ctx, r.config.Leagues)
		case league := <-r.trigger:
			r.RefreshOnce(ctx, []string{league})
		}
	}
}

// Trigger asks for an out-of-cycle refresh of the leagues. With a watch list
// only watched leagues are refreshed. It never blocks; requests beyond the
// buffer are dropped since the next tick covers them.
func (r *Refresher) Trigger(leagues []string) {
	for _, l := range leagues {
		if len(r.watched) > 0 {
			if _, ok := r.watched[l]; !ok {
				continue
			}
		}
		select {
		case r.trigger <- l:
		default:
		}
	}
}

// RefreshOnce runs one cycle over leagues and returns how many snapshots were published
func (r *Refresher) RefreshOnce(ctx context.Context, leagues []string) int {
	if len(leagues) == 0 {
		return 0
	}

	start := time.Now()
	cycleID := uuid.NewString()
	snapshots := make([]*models.LeagueSnapshot, len(leagues))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)
	for i, league := range leagues {
		i, league := i, league
		g.Go(func() error {
			snap, err := r.config.Snapshots.LeagueSnapshot(gctx, league, r.config.Window)
			switch {
			case errors.Is(err, logic.ErrNoData):
				r.logger.Debugw("No matches for league yet", "league", league, "cycle", cycleID)
			case err != nil:
				// one failing league must not cancel the others
				r.logger.Warnw("League snapshot failed", "league", league, "cycle", cycleID, "error", err)
			default:
				snapshots[i] = snap
			}
			return nil
		})
	}
	_ = g.Wait()

	published := 0
	for _, snap := range snapshots {
		if snap == nil || ctx.Err() != nil {
			continue
		}
		snap.CycleID = cycleID
		r.config.Publisher.Publish(*snap)
		published++
	}
	snapshotsPublished.Add(float64(published))
	refreshDuration.Observe(time.Since(start).Seconds())

	r.logger.Debugw("Refresh cycle done", "cycle", cycleID, "leagues", len(leagues), "published", published)
	return published
}
