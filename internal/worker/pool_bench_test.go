package worker

import (
	"testing"
	"time"

	"github.com/esoccer-insights/stats-api/internal/models"
)

func BenchmarkToArchived(b *testing.B) {
	now := time.Now()
	job := Job{
		Record:   models.NewMatchRecord("", "Kray", "Boulevard", "Battle 8 min", now.Add(-time.Hour), 3, 2, 1, 1),
		RawJSON:  `{"home_player":"Kray","away_player":"Boulevard"}`,
		Received: now,
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = toArchived(job)
	}
}
