// Package worker implements the buffered worker pool that archives ingested
// matches, and the refresher that pushes live league snapshots.
// The pool decouples HTTP request handling from ClickHouse writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// Prometheus metrics
var (
	matchesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_matches_ingested_total",
		Help: "Total number of matches accepted into the ingest queue",
	})

	matchesArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_matches_archived_total",
		Help: "Total number of matches written to the archive",
	})

	matchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_matches_failed_total",
		Help: "Total number of matches whose batch failed to archive",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "esoccer_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esoccer_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	matchesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esoccer_matches_load_shed_total",
		Help: "Total number of matches dropped due to load shedding",
	})
)

// matchNamespace scopes the deterministic ids derived for matches without one
var matchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("esoccer-insights/matches"))

// ArchiveWriter persists batches of ingested matches
type ArchiveWriter interface {
	WriteMatches(ctx context.Context, matches []models.ArchivedMatch) error
}

// Job represents a unit of work for the worker pool
type Job struct {
	Record   models.MatchRecord
	RawJSON  string
	Received time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	Archive       ArchiveWriter
	// OnArchived, when set, receives the distinct leagues of every batch
	// written successfully.
	OnArchived func(leagues []string)
	Logger     *zap.Logger
}

// Pool manages a pool of workers for async match archiving
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing queued matches
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a match to the queue. It never blocks: when the queue is
// full or the pool is stopped the match is shed and false is returned.
func (p *Pool) Enqueue(record models.MatchRecord, rawJSON string) bool {
	job := Job{
		Record:   record,
		RawJSON:  rawJSON,
		Received: time.Now().UTC(),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		matchesLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- job:
		matchesIngested.Inc()
		return true
	default:
		p.logger.Warnw("Ingest queue full, dropping match", "match_id", record.ID, "queueSize", cap(p.jobQueue))
		matchesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			matchesFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Batch archived", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			matchesArchived.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// processBatch writes a batch to the archive and reports the touched leagues
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}
	if p.config.Archive == nil {
		return fmt.Errorf("no archive configured")
	}

	matches := make([]models.ArchivedMatch, len(batch))
	leagues := make([]string, 0, 1)
	seen := make(map[string]struct{})
	for i, job := range batch {
		matches[i] = toArchived(job)
		if _, ok := seen[job.Record.League]; !ok {
			seen[job.Record.League] = struct{}{}
			leagues = append(leagues, job.Record.League)
		}
	}

	// The batch is written even if the pool context is being cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.config.Archive.WriteMatches(ctx, matches); err != nil {
		return fmt.Errorf("archive batch: %w", err)
	}

	if p.config.OnArchived != nil {
		p.config.OnArchived(leagues)
	}
	return nil
}

// toArchived fills the identity and time of a record that arrived without them.
// Matches with a timestamp get a deterministic id so re-ingesting them
// collapses in the archive; matches without one get the receipt time and a random id.
func toArchived(job Job) models.ArchivedMatch {
	rec := job.Record
	if rec.Timestamp.IsZero() {
		rec.Timestamp = job.Received
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
	}
	if rec.ID == "" {
		rec.ID = deterministicMatchID(rec).String()
	}
	return models.ArchivedMatch{
		Record:     rec,
		RawJSON:    job.RawJSON,
		IngestedAt: job.Received,
	}
}

func deterministicMatchID(rec models.MatchRecord) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%d", rec.League, rec.HomePlayer, rec.AwayPlayer, rec.Timestamp.UnixMilli())
	return uuid.NewSHA1(matchNamespace, []byte(key))
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
