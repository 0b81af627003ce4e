// Package statistics aggregates blackjack round results.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// RoundOutcome is one seat's result for one round. Amounts are in whole
// currency units.
type RoundOutcome struct {
	Net          float64 // hands plus insurance
	HandNet      float64
	InsuranceNet float64
	Hands        []game.Status
	Doubles      int
	Splits       int // hands that came from a split
}

// OutcomeFor extracts a seat's outcome from a round result
func OutcomeFor(res game.RoundResult, seat int) RoundOutcome {
	var out RoundOutcome
	for _, h := range res.HandsFor(seat) {
		out.HandNet += h.Net().Float()
		out.Hands = append(out.Hands, h.Status)
		if h.Doubled {
			out.Doubles++
		}
		if h.SplitIndex != game.NoSplit {
			out.Splits++
		}
	}
	for _, ins := range res.Insurance {
		if ins.Seat == seat {
			out.InsuranceNet += ins.Net().Float()
		}
	}
	out.Net = out.HandNet + out.InsuranceNet
	return out
}

// Statistics tracks per-round net results and hand outcome counts
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
	Surrenders int
	Doubles    int
	Splits     int

	HandNet      float64
	InsuranceNet float64
	AllNet       float64 // Total for sanity check

	MaxWin  float64
	MaxLoss float64
}

// Add incorporates a round outcome into the statistics
func (s *Statistics) Add(o RoundOutcome) {
	s.Rounds++
	s.SumNet += o.Net
	s.SumNet2 += o.Net * o.Net
	s.Values = append(s.Values, o.Net)

	for _, status := range o.Hands {
		s.Hands++
		switch {
		case status == game.Push:
			s.Pushes++
		case status.IsWin():
			s.Wins++
		case status.IsLoss():
			s.Losses++
		}
		switch status {
		case game.Blackjack:
			s.Blackjacks++
		case game.Bust:
			s.Busts++
		case game.Surrendered:
			s.Surrenders++
		}
	}
	s.Doubles += o.Doubles
	s.Splits += o.Splits

	s.HandNet += o.HandNet
	s.InsuranceNet += o.InsuranceNet
	s.AllNet += o.Net

	s.MaxWin = math.Max(s.MaxWin, o.Net)
	s.MaxLoss = math.Min(s.MaxLoss, o.Net)
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)

	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Surrenders += other.Surrenders
	s.Doubles += other.Doubles
	s.Splits += other.Splits

	s.HandNet += other.HandNet
	s.InsuranceNet += other.InsuranceNet
	s.AllNet += other.AllNet

	s.MaxWin = math.Max(s.MaxWin, other.MaxWin)
	s.MaxLoss = math.Min(s.MaxLoss, other.MaxLoss)
}

// Mean returns the mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the share of hands that won
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
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

// IsLedgerBalanced checks that hand and insurance results add up to the
// total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.HandNet-s.InsuranceNet) <= 1e-6
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, HandNet=%.6f, InsuranceNet=%.6f",
			s.AllNet, s.HandNet, s.InsuranceNet)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Pushes != s.Hands {
		return fmt.Errorf("outcomes (%d wins, %d losses, %d pushes) do not add up to %d hands",
			s.Wins, s.Losses, s.Pushes, s.Hands)
	}
	return nil
}
