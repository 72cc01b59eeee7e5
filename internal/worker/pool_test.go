package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/models"
)

func TestEnqueueFull(t *testing.T) {
	// Create a pool manually so no worker drains the queue
	cfg := PoolConfig{
		QueueSize: 1,
		Logger:    zap.NewNop(),
	}

	pool := &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.ctx = ctx
	pool.cancel = cancel
	defer cancel()

	// Fill the queue
	if !pool.Enqueue(models.MatchRecord{ID: "1"}, "{}") {
		t.Fatal("Failed to enqueue first match")
	}

	// Try to enqueue second match, it should return false immediately
	start := time.Now()
	enqueued := pool.Enqueue(models.MatchRecord{ID: "2"}, "{}")
	duration := time.Since(start)

	if enqueued {
		t.Error("Enqueue should have returned false when queue is full")
	}

	if duration > 10*time.Millisecond {
		t.Errorf("Enqueue took too long (%v), expected immediate return", duration)
	}
}

func TestPool_FlushOnBatchSize(t *testing.T) {
	archive := &MockArchive{}
	leagues := make(chan []string, 4)
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		QueueSize:     10,
		BatchSize:     3,
		FlushInterval: time.Hour,
		Archive:       archive,
		OnArchived:    func(l []string) { leagues <- l },
		Logger:        zap.NewNop(),
	})
	pool.Start(context.Background())
	defer pool.Stop()

	ts := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	for i, league := range []string{"Battle 8 min", "Adriatic League", "Battle 8 min"} {
		rec := models.NewMatchRecord("", "Kray", "Boulevard", league, ts.Add(time.Duration(i)*time.Minute), 1, 0, 0, 0)
		if !pool.Enqueue(rec, "{}") {
			t.Fatalf("enqueue %d failed", i)
		}
	}

	select {
	case got := <-leagues:
		if len(got) != 2 || got[0] != "Battle 8 min" || got[1] != "Adriatic League" {
			t.Errorf("unexpected archived leagues %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("batch was not flushed when full")
	}

	if archive.Total() != 3 {
		t.Errorf("expected 3 archived matches, got %d", archive.Total())
	}
	for _, m := range archive.Batches[0] {
		if m.Record.ID == "" {
			t.Error("archived match must carry an id")
		}
	}
}

func TestPool_StopFlushesRemaining(t *testing.T) {
	archive := &MockArchive{}
	pool := NewPool(PoolConfig{
		WorkerCount:   2,
		BatchSize:     100,
		FlushInterval: time.Hour,
		Archive:       archive,
		Logger:        zap.NewNop(),
	})
	pool.Start(context.Background())

	for i := 0; i < 5; i++ {
		pool.Enqueue(models.MatchRecord{ID: "m", League: "Battle 8 min"}, "{}")
	}
	pool.Stop()

	if archive.Total() != 5 {
		t.Errorf("expected 5 matches flushed on stop, got %d", archive.Total())
	}
	if pool.Enqueue(models.MatchRecord{ID: "late"}, "{}") {
		t.Error("enqueue after stop must be rejected")
	}
	pool.Stop()
}

func TestPool_ArchiveErrorSkipsCallback(t *testing.T) {
	called := false
	pool := NewPool(PoolConfig{
		Archive:    &MockArchive{Err: errors.New("clickhouse down")},
		OnArchived: func([]string) { called = true },
		Logger:     zap.NewNop(),
	})

	err := pool.processBatch([]Job{{Record: models.MatchRecord{ID: "1"}}})
	if err == nil {
		t.Fatal("expected archive error")
	}
	if called {
		t.Error("OnArchived must only run after a successful write")
	}
}

func TestToArchived(t *testing.T) {
	received := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	ts := received.Add(-time.Hour)

	t.Run("Keeps upstream id", func(t *testing.T) {
		got := toArchived(Job{Record: models.MatchRecord{ID: "991", Timestamp: ts}, Received: received})
		if got.Record.ID != "991" || !got.Record.Timestamp.Equal(ts) {
			t.Errorf("unexpected record %+v", got.Record)
		}
		if !got.IngestedAt.Equal(received) {
			t.Errorf("unexpected ingest time %v", got.IngestedAt)
		}
	})

	t.Run("Deterministic id from content", func(t *testing.T) {
		rec := models.NewMatchRecord("", "Kray", "Boulevard", "Battle 8 min", ts, 3, 2, 1, 1)
		a := toArchived(Job{Record: rec, Received: received})
		b := toArchived(Job{Record: rec, Received: received.Add(time.Minute)})
		if a.Record.ID == "" || a.Record.ID != b.Record.ID {
			t.Errorf("expected stable id, got %q and %q", a.Record.ID, b.Record.ID)
		}
	})

	t.Run("Missing timestamp uses receipt time", func(t *testing.T) {
		got := toArchived(Job{Record: models.MatchRecord{HomePlayer: "Kray"}, Received: received})
		if !got.Record.Timestamp.Equal(received) {
			t.Errorf("expected receipt time, got %v", got.Record.Timestamp)
		}
		if got.Record.ID == "" {
			t.Error("expected generated id")
		}
	})
}
