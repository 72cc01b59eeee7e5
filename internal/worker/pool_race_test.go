package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/models"
)

func TestPool_RaceCondition(t *testing.T) {
	archive := &MockArchive{}
	var leaguesMu sync.Mutex
	leagues := map[string]int{}

	p := NewPool(PoolConfig{
		WorkerCount:   2,
		QueueSize:     1000,
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		Archive:       archive,
		OnArchived: func(l []string) {
			leaguesMu.Lock()
			defer leaguesMu.Unlock()
			for _, league := range l {
				leagues[league]++
			}
		},
		Logger: zap.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	wg := sync.WaitGroup{}
	producers := 10
	matchesPerProducer := 100
	var acceptedMu sync.Mutex
	accepted := 0

	for i := 0; i < producers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < matchesPerProducer; j++ {
				rec := models.NewMatchRecord(
					fmt.Sprintf("%d-%d", i, j),
					fmt.Sprintf("player-%d", j%7),
					fmt.Sprintf("player-%d", (j+1)%7),
					fmt.Sprintf("league-%d", i%3),
					time.Now(), j%4, j%3, 0, 0,
				)
				if p.Enqueue(rec, "{}") {
					acceptedMu.Lock()
					accepted++
					acceptedMu.Unlock()
				}
				// Small sleep to spread out matches
				if j%10 == 0 {
					time.Sleep(1 * time.Millisecond)
				}
			}
		}()
	}

	wg.Wait()
	p.Stop()

	if archive.Total() != accepted {
		t.Errorf("accepted %d matches but archived %d", accepted, archive.Total())
	}
	leaguesMu.Lock()
	defer leaguesMu.Unlock()
	if len(leagues) != 3 {
		t.Errorf("expected callbacks for 3 leagues, got %v", leagues)
	}
}
