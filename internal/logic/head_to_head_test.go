package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esoccer-insights/stats-api/internal/models"
)

// meetings returns ten A/B meetings (A wins 7, B wins 2, one draw) with
// unrelated matches interleaved.
func meetings(s *seq) []models.MatchRecord {
	scores := []struct {
		aHome  bool
		aGoals int
		bGoals int
	}{
		{true, 2, 0}, {false, 3, 1}, {true, 1, 1}, {false, 1, 2}, {true, 4, 2},
		{false, 1, 0}, {true, 0, 2}, {true, 3, 1}, {false, 3, 2}, {true, 1, 0},
	}

	var out []models.MatchRecord
	for _, sc := range scores {
		if sc.aHome {
			out = append(out, game(s, "A", "B", sc.aGoals, sc.bGoals, 0, 0))
		} else {
			out = append(out, game(s, "B", "A", sc.bGoals, sc.aGoals, 0, 0))
		}
		out = append(out, game(s, "A", "C", 2, 2, 1, 1))
	}
	return out
}

func TestComputeHeadToHead(t *testing.T) {
	matches := meetings(&seq{})

	h2h := ComputeHeadToHead(matches, "A", "B", 0)
	require.NotNil(t, h2h)
	assert.Equal(t, 10, h2h.Total)
	assert.Equal(t, 7, h2h.Player1Wins)
	assert.Equal(t, 2, h2h.Player2Wins)
	assert.Equal(t, 1, h2h.Draws)
	assert.Equal(t, 70, h2h.Player1WinPct)
	assert.Equal(t, 20, h2h.Player2WinPct)
	assert.Equal(t, 10, h2h.DrawPct)

	// totals: 2,4,2,3,6,1,2,4,5,1
	assert.Equal(t, 3.0, h2h.AvgFTGoals)
	assert.Equal(t, h2h.FullTime.AvgGoals, h2h.AvgFTGoals)
	assert.Equal(t, 60, h2h.FullTime.BTTSPct)
	assert.Equal(t, 0, h2h.HalfTime.Over05Pct)

	reversed := ComputeHeadToHead(matches, "B", "A", 0)
	assert.Equal(t, 7, reversed.Player2Wins)
	assert.Equal(t, 20, reversed.Player1WinPct)
}

func TestComputeHeadToHead_Window(t *testing.T) {
	matches := meetings(&seq{})

	h2h := ComputeHeadToHead(matches, "A", "B", 3)
	assert.Equal(t, 3, h2h.Total)
	assert.Equal(t, 2, h2h.Player1Wins)
	assert.Equal(t, 1, h2h.Draws)

	for _, window := range []int{0, 1, 2, 3, 4, 6, 7, 9, 10} {
		h := ComputeHeadToHead(matches, "A", "B", window)
		sum := h.Player1WinPct + h.Player2WinPct + h.DrawPct
		assert.InDelta(t, 100, sum, 2, "window %d", window)
	}
}

func TestComputeHeadToHead_NoMeetings(t *testing.T) {
	h2h := ComputeHeadToHead(meetings(&seq{}), "B", "C", 10)
	require.NotNil(t, h2h)
	assert.Equal(t, &models.H2HStats{Player1: "B", Player2: "C"}, h2h)
}
