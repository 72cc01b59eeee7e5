package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

// MockArchive records written batches
type MockArchive struct {
	mu      sync.Mutex
	Batches [][]models.ArchivedMatch
	Err     error
}

func (m *MockArchive) WriteMatches(ctx context.Context, matches []models.ArchivedMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := make([]models.ArchivedMatch, len(matches))
	copy(cp, matches)
	m.Batches = append(m.Batches, cp)
	return nil
}

func (m *MockArchive) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}

// MockSnapshots serves canned snapshots per league
type MockSnapshots struct {
	Snapshots map[string]*models.LeagueSnapshot
	Failing   map[string]bool

	mu    sync.Mutex
	Calls []string
}

func (m *MockSnapshots) LeagueSnapshot(ctx context.Context, league string, window int) (*models.LeagueSnapshot, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, league)
	m.mu.Unlock()

	if m.Failing[league] {
		return nil, errors.New("source down")
	}
	snap, ok := m.Snapshots[league]
	if !ok {
		return nil, logic.ErrNoData
	}
	cp := *snap
	return &cp, nil
}

// MockPublisher collects published snapshots
type MockPublisher struct {
	mu        sync.Mutex
	Published []models.LeagueSnapshot
}

func (m *MockPublisher) Publish(snapshot models.LeagueSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, snapshot)
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}
