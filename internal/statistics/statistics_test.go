package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsEmpty(t *testing.T) {
	stats := New(20)

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.PositionMean(0))
	assert.Error(t, stats.Validate())
}

func TestStatisticsSingleHand(t *testing.T) {
	stats := New(20)
	stats.Add(HandResult{NetBB: 2.5, Position: 3, WentToShowdown: true, FinalPotSize: 100, StreetReached: "River"})

	assert.Equal(t, 1, stats.Hands)
	assert.Equal(t, 2.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 2.5, stats.Median())
	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Zero(t, stats.NonShowdownWins)
	assert.True(t, stats.IsLedgerBalanced())
	require.NoError(t, stats.Validate())
}

func TestStatisticsVariance(t *testing.T) {
	stats := New(20)
	for _, v := range []float64{1, 3, 5} {
		stats.Add(HandResult{NetBB: v})
	}

	assert.InDelta(t, 3.0, stats.Mean(), 1e-9)
	assert.InDelta(t, 4.0, stats.Variance(), 1e-9)
	assert.InDelta(t, 2.0, stats.StdDev(), 1e-9)

	low, high := stats.ConfidenceInterval95()
	assert.Less(t, low, stats.Mean())
	assert.Greater(t, high, stats.Mean())
}

func TestStatisticsPercentiles(t *testing.T) {
	stats := New(20)
	for _, v := range []float64{4, -2, 0, 10, 1} {
		stats.Add(HandResult{NetBB: v})
	}

	assert.Equal(t, 1.0, stats.Median())
	assert.Equal(t, -2.0, stats.Percentile(0))
	assert.Equal(t, 10.0, stats.Percentile(1))
	assert.InDelta(t, 0.5, stats.Percentile(0.375), 1e-9)
}

func TestStatisticsShowdownSplit(t *testing.T) {
	stats := New(20)
	stats.Add(HandResult{NetBB: 3, WentToShowdown: true})
	stats.Add(HandResult{NetBB: -2, WentToShowdown: true})
	stats.Add(HandResult{NetBB: 1.5})
	stats.Add(HandResult{NetBB: -0.5})

	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Equal(t, 1, stats.NonShowdownWins)
	assert.InDelta(t, 1.0, stats.ShowdownBB, 1e-9)
	assert.InDelta(t, 1.0, stats.NonShowdownBB, 1e-9)
	assert.InDelta(t, 2.0, stats.AllBB, 1e-9)
	require.NoError(t, stats.Validate())
}

func TestStatisticsPositions(t *testing.T) {
	stats := New(20)
	stats.Add(HandResult{NetBB: 2, Position: 0})
	stats.Add(HandResult{NetBB: 3, Position: 0})
	stats.Add(HandResult{NetBB: -1, Position: 2})
	stats.Add(HandResult{NetBB: 1, Position: 2})

	assert.InDelta(t, 2.5, stats.PositionMean(0), 1e-9)
	assert.InDelta(t, 0.0, stats.PositionMean(2), 1e-9)
	assert.Zero(t, stats.PositionMean(1))
	require.NoError(t, stats.Validate())
}

func TestStatisticsPotSizes(t *testing.T) {
	stats := New(20)
	stats.Add(HandResult{NetBB: 1, FinalPotSize: 200})  // 10bb
	stats.Add(HandResult{NetBB: 5, FinalPotSize: 2000}) // 100bb
	stats.Add(HandResult{NetBB: -1, FinalPotSize: 40})  // 2bb

	assert.Equal(t, 2000, stats.MaxPotChips)
	assert.InDelta(t, 100.0, stats.MaxPotBB, 1e-9)
	assert.Equal(t, 1, stats.BigPots)
	assert.InDelta(t, 5.0, stats.BigPotsBB, 1e-9)
}

func TestStatisticsValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Statistics)
		errMsg string
	}{
		{"ledger", func(s *Statistics) { s.AllBB += 1 }, "ledger mismatch"},
		{"values", func(s *Statistics) { s.Values = s.Values[:1] }, "values array length"},
		{"wins", func(s *Statistics) { s.NonShowdownWins = 5 }, "total wins"},
		{"positions", func(s *Statistics) { s.Positions[1].Hands++ }, "position hands total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := New(20)
			stats.Add(HandResult{NetBB: 1, Position: 1})
			stats.Add(HandResult{NetBB: -1, Position: 2})

			tt.modify(stats)
			err := stats.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSummary(t *testing.T) {
	stats := New(20)
	stats.Add(HandResult{NetBB: 1.5, Position: 0, FinalPotSize: 60})
	stats.Add(HandResult{NetBB: -0.5, Position: 2, WentToShowdown: true, FinalPotSize: 80})

	sum := stats.Summary("You")
	assert.Equal(t, "You", sum.Player)
	assert.Equal(t, 2, sum.Hands)
	assert.InDelta(t, 1.0, sum.NetBB, 1e-9)
	assert.InDelta(t, 0.5, sum.MeanBB, 1e-9)
	assert.Equal(t, 1, sum.NonShowdownWins)
	assert.Equal(t, 80, sum.MaxPotChips)
	assert.InDelta(t, 0.5, sum.MedianBB, 1e-9)
	assert.Less(t, sum.CI95Low, sum.MeanBB)
	assert.Greater(t, sum.CI95High, sum.MeanBB)
	assert.Equal(t, map[int]float64{0: 1.5, 2: -0.5}, sum.PositionMeanBB)
	assert.True(t, sum.Consistent)
	assert.Empty(t, sum.Problem)
}

func TestSummaryReportsInconsistency(t *testing.T) {
	stats := New(20)
	stats.Add(HandResult{NetBB: 1})
	stats.AllBB += 3

	sum := stats.Summary("You")
	assert.False(t, sum.Consistent)
	assert.Contains(t, sum.Problem, "ledger mismatch")
}

func TestSummaryEmpty(t *testing.T) {
	sum := New(20).Summary("You")
	assert.Zero(t, sum.Hands)
	assert.True(t, sum.Consistent, "no hands is not an error")
	assert.Empty(t, sum.PositionMeanBB)
}

func TestVarianceNeverNegative(t *testing.T) {
	stats := New(20)
	for range 7 {
		stats.Add(HandResult{NetBB: 0.1})
	}
	assert.GreaterOrEqual(t, stats.Variance(), 0.0)
	assert.False(t, math.IsNaN(stats.StdDev()))
}
