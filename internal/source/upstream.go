// Package source provides the match histories the analysis service reads:
// the upstream history API and the ClickHouse archive of ingested records.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

const (
	defaultRateLimit = 5.0
	defaultBurst     = 10

	// upstream error bodies are truncated to this many bytes in errors
	maxErrorBody = 512
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esoccer_upstream_requests_total",
		Help: "Requests to the upstream history API by outcome",
	}, []string{"outcome"})

	upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esoccer_upstream_request_duration_seconds",
		Help:    "Latency of upstream history API requests",
		Buckets: prometheus.DefBuckets,
	})

	upstreamDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_upstream_records_discarded_total",
		Help: "Upstream records dropped because no known field was present",
	})
)

// Upstream reads match histories from the upstream history API
type Upstream struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// UpstreamOption configures the client
type UpstreamOption func(*Upstream)

func WithHTTPClient(client *http.Client) UpstreamOption {
	return func(u *Upstream) {
		u.httpClient = client
	}
}

func WithRateLimit(rps float64, burst int) UpstreamOption {
	return func(u *Upstream) {
		u.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(logger *zap.Logger) UpstreamOption {
	return func(u *Upstream) {
		u.logger = logger.Sugar()
	}
}

func NewUpstream(baseURL string, opts ...UpstreamOption) *Upstream {
	u := &Upstream{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// PlayerMatches fetches the player's latest matches
func (u *Upstream) PlayerMatches(ctx context.Context, player string, limit int) ([]models.MatchRecord, error) {
	return u.matches(ctx, "/players/"+url.PathEscape(player)+"/matches", limit)
}

// LeagueMatches fetches the league's latest matches
func (u *Upstream) LeagueMatches(ctx context.Context, league string, limit int) ([]models.MatchRecord, error) {
	return u.matches(ctx, "/leagues/"+url.PathEscape(league)+"/matches", limit)
}

func (u *Upstream) matches(ctx context.Context, path string, limit int) ([]models.MatchRecord, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	raws, err := u.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	records := logic.NormalizeMatches(raws)
	if dropped := len(raws) - len(records); dropped > 0 {
		upstreamDiscarded.Add(float64(dropped))
		u.logger.Warnw("Discarded upstream records", "path", path, "discarded", dropped, "received", len(raws))
	}
	return records, nil
}

// get performs a rate limited GET and decodes the match list
func (u *Upstream) get(ctx context.Context, path string, params url.Values) ([]models.RawMatch, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	target := u.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	upstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		upstreamRequests.WithLabelValues("http_error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("upstream error %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	raws, err := decodeMatchList(resp.Body)
	if err != nil {
		upstreamRequests.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	upstreamRequests.WithLabelValues("ok").Inc()
	return raws, nil
}

// envelopeKeys are the wrapper fields the API has used around match lists
var envelopeKeys = []string{"data", "matches", "results", "items"}

// decodeMatchList accepts a bare array or an object wrapping one
func decodeMatchList(r io.Reader) ([]models.RawMatch, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body json.RawMessage
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	if body[0] == '[' {
		return decodeRawList(body)
	}

	var envelope map[string]json.RawMessage
	if err := decodeNumbers(body, &envelope); err != nil {
		return nil, err
	}
	for _, key := range envelopeKeys {
		if inner, ok := envelope[key]; ok {
			return decodeMatchList(bytes.NewReader(inner))
		}
	}
	return nil, fmt.Errorf("no match list in response (keys tried: %v)", envelopeKeys)
}

func decodeRawList(body []byte) ([]models.RawMatch, error) {
	var raws []models.RawMatch
	if err := decodeNumbers(body, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func decodeNumbers(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}
