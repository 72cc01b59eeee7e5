package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/hub"
	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 4MB
const MaxBodySize = 4 << 20

// IngestQueue defines the interface for the match archiving worker pool
type IngestQueue interface {
	Enqueue(record models.MatchRecord, rawJSON string) bool
	QueueDepth() int
}

// ReadinessCheck reports whether one dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

type Config struct {
	Analysis      logic.AnalysisService
	WorkerPool    IngestQueue
	Hub           *hub.Hub
	Checks        map[string]ReadinessCheck
	DefaultWindow int
	// LiveContext bounds the lifetime of websocket clients
	LiveContext    context.Context
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Handler struct {
	analysis      logic.AnalysisService
	pool          IngestQueue
	hub           *hub.Hub
	checks        map[string]ReadinessCheck
	defaultWindow int
	liveCtx       context.Context
	origins       map[string]struct{}
	logger        *zap.SugaredLogger
	validate      *validator.Validate
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = 10
	}
	if cfg.LiveContext == nil {
		cfg.LiveContext = context.Background()
	}
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{
		analysis:      cfg.Analysis,
		pool:          cfg.WorkerPool,
		hub:           cfg.Hub,
		checks:        cfg.Checks,
		defaultWindow: cfg.DefaultWindow,
		liveCtx:       cfg.LiveContext,
		origins:       origins,
		logger:        cfg.Logger.Sugar(),
		validate:      validator.New(),
	}
}

// Mount registers every route on r
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest/matches", h.IngestMatches)
		r.Post("/analyze/fixture", h.AnalyzeFixture)

		r.Get("/players/{player}/metrics", h.GetPlayerMetrics)
		r.Get("/players/{player}/trends", h.GetPlayerTrends)

		r.Get("/leagues/{league}/stats", h.GetLeagueStats)
		r.Get("/leagues/{league}/leaderboard", h.GetLeagueLeaderboard)
		r.Get("/leagues/{league}/trends", h.GetLeagueTrends)

		r.Get("/h2h", h.GetHeadToHead)
		r.Get("/fixtures/analysis", h.GetFixtureAnalysis)

		r.Get("/live", h.Live)
	})
}

// Routes returns a router serving every endpoint
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	h.Mount(r)
	return r
}
