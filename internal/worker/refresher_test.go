package worker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/esoccer-insights/stats-api/internal/models"
)

func newTestRefresher(snaps *MockSnapshots, pub *MockPublisher, leagues ...string) *Refresher {
	return NewRefresher(RefresherConfig{
		Leagues:     leagues,
		Interval:    time.Hour,
		Concurrency: 2,
		Snapshots:   snaps,
		Publisher:   pub,
		Logger:      zap.NewNop(),
	})
}

func TestRefreshOnce(t *testing.T) {
	snaps := &MockSnapshots{
		Snapshots: map[string]*models.LeagueSnapshot{
			"Battle 8 min":    {League: "Battle 8 min"},
			"Adriatic League": {League: "Adriatic League"},
		},
		Failing: map[string]bool{"Volta": true},
	}
	pub := &MockPublisher{}
	r := newTestRefresher(snaps, pub)

	got := r.RefreshOnce(context.Background(), []string{"Battle 8 min", "Volta", "Empty", "Adriatic League"})
	if got != 2 {
		t.Fatalf("expected 2 snapshots published, got %d", got)
	}
	if len(snaps.Calls) != 4 {
		t.Errorf("every league should be requested, got %v", snaps.Calls)
	}

	// Published in request order, sharing one cycle id
	if pub.Published[0].League != "Battle 8 min" || pub.Published[1].League != "Adriatic League" {
		t.Errorf("unexpected publish order %q, %q", pub.Published[0].League, pub.Published[1].League)
	}
	cycle := pub.Published[0].CycleID
	if cycle == "" || pub.Published[1].CycleID != cycle {
		t.Errorf("expected shared cycle id, got %q and %q", cycle, pub.Published[1].CycleID)
	}

	// A new cycle gets a new id
	r.RefreshOnce(context.Background(), []string{"Battle 8 min"})
	if pub.Published[2].CycleID == cycle {
		t.Error("expected a fresh cycle id")
	}
}

func TestRefreshOnce_NoLeagues(t *testing.T) {
	pub := &MockPublisher{}
	r := newTestRefresher(&MockSnapshots{}, pub)
	if n := r.RefreshOnce(context.Background(), nil); n != 0 {
		t.Errorf("expected nothing published, got %d", n)
	}
}

func TestTrigger_WatchList(t *testing.T) {
	r := newTestRefresher(&MockSnapshots{}, &MockPublisher{}, "Battle 8 min")

	r.Trigger([]string{"Volta", "Battle 8 min"})

	if len(r.trigger) != 1 {
		t.Fatalf("expected 1 queued refresh, got %d", len(r.trigger))
	}
	if l := <-r.trigger; l != "Battle 8 min" {
		t.Errorf("unexpected league %q", l)
	}
}

func TestTrigger_NeverBlocks(t *testing.T) {
	r := newTestRefresher(&MockSnapshots{}, &MockPublisher{})

	leagues := make([]string, 200)
	for i := range leagues {
		leagues[i] = "Battle 8 min"
	}

	done := make(chan struct{})
	go func() {
		r.Trigger(leagues)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Trigger blocked on a full buffer")
	}
	if len(r.trigger) != cap(r.trigger) {
		t.Errorf("expected buffer to be full, got %d", len(r.trigger))
	}
}

func TestRun_TriggeredRefresh(t *testing.T) {
	snaps := &MockSnapshots{
		Snapshots: map[string]*models.LeagueSnapshot{"Battle 8 min": {League: "Battle 8 min"}},
	}
	pub := &MockPublisher{}
	r := newTestRefresher(snaps, pub, "Battle 8 min")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return pub.Count() == 1 })
	r.Trigger([]string{"Battle 8 min"})
	waitFor(t, func() bool { return pub.Count() == 2 })

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
