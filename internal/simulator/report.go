package simulator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Mat-thias/BlackJack/internal/statistics"
)

// Summary is the serialisable digest of a Statistics value. Amounts are in
// whole currency units per round.
type Summary struct {
	Rounds       int     `json:"rounds"`
	Hands        int     `json:"hands"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	CI95Low      float64 `json:"ci95_low"`
	CI95High     float64 `json:"ci95_high"`
	WinRate      float64 `json:"win_rate"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Pushes       int     `json:"pushes"`
	Blackjacks   int     `json:"blackjacks"`
	Busts        int     `json:"busts"`
	Surrenders   int     `json:"surrenders"`
	Doubles      int     `json:"doubles"`
	Splits       int     `json:"splits"`
	InsuranceNet float64 `json:"insurance_net"`
}

// Summarize digests stats
func Summarize(stats *statistics.Statistics) Summary {
	low, high := stats.ConfidenceInterval95()
	return Summary{
		Rounds:       stats.Rounds,
		Hands:        stats.Hands,
		Mean:         stats.Mean(),
		Median:       stats.Median(),
		StdDev:       stats.StdDev(),
		CI95Low:      low,
		CI95High:     high,
		WinRate:      stats.WinRate(),
		Wins:         stats.Wins,
		Losses:       stats.Losses,
		Pushes:       stats.Pushes,
		Blackjacks:   stats.Blackjacks,
		Busts:        stats.Busts,
		Surrenders:   stats.Surrenders,
		Doubles:      stats.Doubles,
		Splits:       stats.Splits,
		InsuranceNet: stats.InsuranceNet,
	}
}

type seatJSON struct {
	Seat     int     `json:"seat"`
	Strategy string  `json:"strategy"`
	Summary  Summary `json:"summary"`
}

type tableJSON struct {
	Index      int     `json:"index"`
	Session    string  `json:"session"`
	Seed       int64   `json:"seed"`
	Rounds     int     `json:"rounds"`
	HouseNet   float64 `json:"house_net"`
	Reshuffles int     `json:"reshuffles"`
}

type reportJSON struct {
	Total      Summary     `json:"total"`
	Seats      []seatJSON  `json:"seats"`
	Tables     []tableJSON `json:"tables"`
	DurationMS int64       `json:"duration_ms"`
}

// MarshalJSON encodes the report with summaries in place of raw values
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Total:      Summarize(r.Total),
		DurationMS: r.Duration.Milliseconds(),
	}
	for _, s := range r.Seats {
		out.Seats = append(out.Seats, seatJSON{Seat: s.Seat, Strategy: s.Strategy, Summary: Summarize(s.Stats)})
	}
	for _, t := range r.Tables {
		out.Tables = append(out.Tables, tableJSON{
			Index:      t.Index,
			Session:    t.Session,
			Seed:       t.Seed,
			Rounds:     t.Rounds,
			HouseNet:   t.HouseNet.Float(),
			Reshuffles: t.Reshuffles,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteReport writes the report as JSON. The file is written to a
// temporary name in the same directory and renamed into place, so readers
// never see a partial report.
func WriteReport(filename string, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// PrintSummary writes a plain-text summary of the report
func PrintSummary(w io.Writer, r *Report) {
	total := r.Total
	low, high := total.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS (%d tables, %d rounds) ===\n", len(r.Tables), total.Rounds)
	fmt.Fprintf(w, "Mean: %.4f units/round\n", total.Mean())
	fmt.Fprintf(w, "Std Dev: %.4f units\n", total.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.2f, P25=%.2f, P75=%.2f, P95=%.2f\n",
		total.Percentile(0.05), total.Percentile(0.25), total.Percentile(0.75), total.Percentile(0.95))

	fmt.Fprintf(w, "\n=== HANDS ===\n")
	fmt.Fprintf(w, "Played: %d (won %d, lost %d, pushed %d, win rate %.1f%%)\n",
		total.Hands, total.Wins, total.Losses, total.Pushes, total.WinRate()*100)
	fmt.Fprintf(w, "Blackjacks: %d, busts: %d, surrenders: %d, doubles: %d, split hands: %d\n",
		total.Blackjacks, total.Busts, total.Surrenders, total.Doubles, total.Splits)
	fmt.Fprintf(w, "Insurance net: %.2f units\n", total.InsuranceNet)

	fmt.Fprintf(w, "\n=== SEATS ===\n")
	for _, s := range r.Seats {
		lo, hi := s.Stats.ConfidenceInterval95()
		fmt.Fprintf(w, "Seat %d (%s): mean %.4f units/round, 95%% CI [%.4f, %.4f]\n",
			s.Seat+1, s.Strategy, s.Stats.Mean(), lo, hi)
	}
}
