package main

import (
	"fmt"
	"os"

	"github.com/Mat-thias/BlackJack/internal/config"
	"github.com/Mat-thias/BlackJack/internal/game"
	"github.com/Mat-thias/BlackJack/internal/randutil"
	"github.com/Mat-thias/BlackJack/internal/simulator"
)

type SimulateCmd struct {
	Tables      int      `default:"4" help:"Number of independent tables"`
	Rounds      int      `default:"10000" help:"Rounds per table"`
	Seed        int64    `help:"Seed for reproducible results (0 for random)"`
	Strategy    []string `short:"s" help:"Bot strategy per seat, one of ${strategies} (defaults to the config seats, then basic)"`
	Bet         string   `default:"10" help:"Flat bet per round in currency units"`
	Concurrency int      `help:"Tables played at once (0 for one per CPU)"`
	Config      string   `short:"c" default:"blackjack.hcl" type:"path" help:"HCL configuration file for table rules"`
	Out         string   `short:"o" type:"path" help:"Write the JSON report to this file"`
	LogLevel    string   `help:"Log level (debug|info|warn|error), overrides the config file"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := setupLogger(os.Stderr, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := setupSignalHandler(logger)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	bet, err := game.ParseMoney(c.Bet)
	if err != nil {
		return fmt.Errorf("invalid bet: %w", err)
	}

	strategies := c.Strategy
	if len(strategies) == 0 {
		for _, s := range cfg.Seats {
			strategies = append(strategies, s.Strategy)
		}
	}
	if len(strategies) == 0 {
		strategies = []string{"basic"}
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.TimeSeed()
	}
	logger.Info("Starting simulation",
		"tables", c.Tables,
		"rounds", c.Rounds,
		"seats", len(strategies),
		"seed", seed)

	sim := simulator.New(simulator.Config{
		Tables:      c.Tables,
		Rounds:      c.Rounds,
		Seed:        seed,
		Strategies:  strategies,
		Bet:         bet,
		Rules:       rules,
		Concurrency: c.Concurrency,
		Logger:      logger,
	})
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, report)

	if c.Out != "" {
		if err := simulator.WriteReport(c.Out, report); err != nil {
			return err
		}
		logger.Info("Report written", "file", c.Out)
	}
	return nil
}
