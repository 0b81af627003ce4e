// Package simulator plays many isolated blackjack tables concurrently and
// aggregates the results per seat.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/Mat-thias/BlackJack/internal/bot"
	"github.com/Mat-thias/BlackJack/internal/game"
	"github.com/Mat-thias/BlackJack/internal/randutil"
	"github.com/Mat-thias/BlackJack/internal/sessionid"
	"github.com/Mat-thias/BlackJack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Tables      int
	Rounds      int // per table
	Seed        int64
	Strategies  []string // one bot strategy per seat
	Bet         game.Money
	Rules       game.Rules
	Concurrency int // tables in flight; zero means one per CPU
	Logger      *log.Logger
	Clock       quartz.Clock
}

// Simulator runs blackjack table simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.NumCPU()
	}
	return &Simulator{config: config}
}

// SeatReport aggregates one seat across every table
type SeatReport struct {
	Seat     int
	Strategy string
	Stats    *statistics.Statistics
}

// TableReport describes one simulated table
type TableReport struct {
	Index      int
	Session    string
	Seed       int64
	Rounds     int
	HouseNet   game.Money
	Reshuffles int
}

// Report is the outcome of a simulation
type Report struct {
	Seats    []SeatReport
	Total    *statistics.Statistics
	Tables   []TableReport
	Duration time.Duration
}

type tableResult struct {
	report TableReport
	seats  []*statistics.Statistics
}

// Validate checks the configuration before anything is played
func (c Config) Validate() error {
	if c.Tables < 1 {
		return fmt.Errorf("tables must be at least 1, got %d", c.Tables)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if len(c.Strategies) < game.MinPlayers || len(c.Strategies) > game.MaxPlayers {
		return fmt.Errorf("%w: %d strategies", game.ErrPlayerCount, len(c.Strategies))
	}
	for _, s := range c.Strategies {
		if _, err := bot.New(s, randutil.New(0), nil, c.Bet); err != nil {
			return err
		}
	}
	return c.Rules.Validate()
}

// Run executes the simulation and returns the aggregated report. Tables
// are independent: each has its own shoe, random streams and event bus,
// so results depend only on the seed.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	cfg := s.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := cfg.Clock.Now()
	results := make([]tableResult, cfg.Tables)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i := range cfg.Tables {
		g.Go(func() error {
			res, err := s.playTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Total:  &statistics.Statistics{},
		Tables: make([]TableReport, 0, cfg.Tables),
	}
	for seat, strategy := range cfg.Strategies {
		report.Seats = append(report.Seats, SeatReport{
			Seat:     seat,
			Strategy: strategy,
			Stats:    &statistics.Statistics{},
		})
	}
	// merge in table order so Values are reproducible
	for _, res := range results {
		report.Tables = append(report.Tables, res.report)
		for seat, stats := range res.seats {
			report.Seats[seat].Stats.Merge(stats)
			report.Total.Merge(stats)
		}
	}
	report.Duration = cfg.Clock.Since(start)

	if err := report.Total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	cfg.Logger.Info("Simulation complete",
		"tables", cfg.Tables,
		"rounds", cfg.Rounds,
		"mean", report.Total.Mean(),
		"duration", report.Duration)
	return report, nil
}

// playTable plays every round of one table
func (s *Simulator) playTable(ctx context.Context, index int) (tableResult, error) {
	cfg := s.config
	seed := randutil.Derive(cfg.Seed, index)
	shoeRng := randutil.New(seed)
	botRng := randutil.New(randutil.Derive(seed, 0))
	idRng := randutil.New(randutil.Derive(seed, 1))

	session := sessionid.NewGenerator(cfg.Clock, idRng).Next()
	logger := cfg.Logger.With("table", index, "session", session)

	seats := make([]game.SeatConfig, len(cfg.Strategies))
	for i, strategy := range cfg.Strategies {
		provider, err := bot.New(strategy, botRng, logger, cfg.Bet)
		if err != nil {
			return tableResult{}, err
		}
		seats[i] = game.SeatConfig{Name: fmt.Sprintf("%s-%d", strategy, i+1), Provider: provider}
	}

	reshuffles := 0
	bus := game.NewEventBus()
	bus.Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		if start, ok := e.(game.RoundStartEvent); ok && start.Reshuffled {
			reshuffles++
		}
	}))

	table, err := game.NewTable(shoeRng, cfg.Rules, seats,
		game.WithLogger(logger),
		game.WithEventBus(bus),
		game.WithClock(cfg.Clock),
	)
	if err != nil {
		return tableResult{}, err
	}

	stats := make([]*statistics.Statistics, len(seats))
	for i := range stats {
		stats[i] = &statistics.Statistics{}
	}

	for round := range cfg.Rounds {
		if err := ctx.Err(); err != nil {
			return tableResult{}, err
		}
		res, err := table.PlayRound(ctx)
		if err != nil {
			return tableResult{}, fmt.Errorf("round %d: %w", round+1, err)
		}
		for seat := range seats {
			stats[seat].Add(statistics.OutcomeFor(*res, seat))
		}
	}

	if err := table.ValidateConservation(); err != nil {
		return tableResult{}, errors.Join(errors.New("money leaked"), err)
	}

	logger.Debug("Table finished", "house", table.House(), "reshuffles", reshuffles)
	return tableResult{
		report: TableReport{
			Index:      index,
			Session:    session,
			Seed:       seed,
			Rounds:     cfg.Rounds,
			HouseNet:   table.House(),
			Reshuffles: reshuffles,
		},
		seats: stats,
	}, nil
}
