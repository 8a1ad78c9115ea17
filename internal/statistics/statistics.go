// Package statistics summarises a player's results over a session, measured
// in big blinds per hand.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// BigPotBB is the size, in big blinds, from which a pot counts as big
const BigPotBB = 50

// HandResult is one hand from the tracked player's point of view
type HandResult struct {
	HandNumber     int
	NetBB          float64 // Net big blinds won or lost
	Position       int     // Seats after the button, 0 is the button
	WentToShowdown bool
	FinalPotSize   int    // In chips
	StreetReached  string // Furthest street dealt
}

// PositionStats tracks results from one position
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics accumulates hand results
type Statistics struct {
	BigBlind int // Chips per big blind, for pot sizes

	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Every result, for median and percentiles

	// Wins and the results of all hands, split by how they ended
	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	Positions map[int]*PositionStats

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int
	BigPotsBB   float64
}

// New returns empty statistics for a table with the given big blind
func New(bigBlind int) *Statistics {
	return &Statistics{BigBlind: bigBlind, Positions: make(map[int]*PositionStats)}
}

// Mean returns the average result in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	// Rounding can push identical results slightly below zero
	return max(0, (s.SumBB2-float64(s.Hands)*mean*mean)/float64(s.Hands-1))
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a hand
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if s.Positions == nil {
		s.Positions = make(map[int]*PositionStats)
	}
	ps, ok := s.Positions[result.Position]
	if !ok {
		ps = &PositionStats{}
		s.Positions[result.Position] = ps
	}
	ps.Hands++
	ps.SumBB += netBB
	ps.SumBB2 += netBB * netBB

	potBB := s.inBB(result.FinalPotSize)
	if result.FinalPotSize > s.MaxPotChips {
		s.MaxPotChips = result.FinalPotSize
		s.MaxPotBB = potBB
	}
	if potBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

func (s *Statistics) inBB(chips int) float64 {
	if s.BigBlind <= 0 {
		return 0
	}
	return float64(chips) / float64(s.BigBlind)
}

// Median returns the median result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated result at p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result from a position
func (s *Statistics) PositionMean(position int) float64 {
	ps, ok := s.Positions[position]
	if !ok || ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks that showdown and non-showdown results add up
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the counters are consistent
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	positionHands := 0
	for _, ps := range s.Positions {
		positionHands += ps.Hands
	}
	if positionHands != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)",
			positionHands, s.Hands)
	}
	return nil
}

// Summary is a flat view for logs and JSON
type Summary struct {
	Player          string  `json:"player"`
	Hands           int     `json:"hands"`
	NetBB           float64 `json:"netBB"`
	MeanBB          float64 `json:"meanBB"`
	StdDev          float64 `json:"stdDev"`
	ShowdownWins    int     `json:"showdownWins"`
	NonShowdownWins int     `json:"nonShowdownWins"`
	MaxPotChips     int     `json:"maxPotChips"`
	BigPots         int     `json:"bigPots"`
	MedianBB        float64 `json:"medianBB"`
	CI95Low         float64 `json:"ci95Low"`
	CI95High        float64 `json:"ci95High"`

	// Mean result keyed by seats after the button
	PositionMeanBB map[int]float64 `json:"positionMeanBB"`

	// Consistent is false when the counters disagree; Problem says how
	Consistent bool   `json:"consistent"`
	Problem    string `json:"problem,omitempty"`
}

// Summary returns the headline numbers for player
func (s *Statistics) Summary(player string) Summary {
	sum := Summary{
		Player:          player,
		Hands:           s.Hands,
		NetBB:           s.AllBB,
		MeanBB:          s.Mean(),
		StdDev:          s.StdDev(),
		ShowdownWins:    s.ShowdownWins,
		NonShowdownWins: s.NonShowdownWins,
		MaxPotChips:     s.MaxPotChips,
		BigPots:         s.BigPots,
		MedianBB:        s.Median(),
		PositionMeanBB:  make(map[int]float64, len(s.Positions)),
		Consistent:      true,
	}
	sum.CI95Low, sum.CI95High = s.ConfidenceInterval95()
	for pos := range s.Positions {
		sum.PositionMeanBB[pos] = s.PositionMean(pos)
	}
	if s.Hands > 0 {
		if err := s.Validate(); err != nil {
			sum.Consistent = false
			sum.Problem = err.Error()
		}
	}
	return sum
}
