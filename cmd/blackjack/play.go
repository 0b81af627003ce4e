package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Mat-thias/BlackJack/internal/bot"
	"github.com/Mat-thias/BlackJack/internal/config"
	"github.com/Mat-thias/BlackJack/internal/console"
	"github.com/Mat-thias/BlackJack/internal/game"
	"github.com/Mat-thias/BlackJack/internal/randutil"
)

// defaultBotBet is used for configured bots without a bet
var defaultBotBet = game.Units(10)

type PlayCmd struct {
	Players  []string `short:"p" help:"Names of the players at this terminal (comma separated); one player when no bots are configured"`
	Config   string   `short:"c" default:"blackjack.hcl" type:"path" help:"HCL configuration file; bots come from its seat blocks"`
	Seed     int64    `help:"Seed for a reproducible shoe (0 for random)"`
	Rounds   int      `help:"Stop after N rounds (0 plays until everyone quits)"`
	NoColor  bool     `help:"Disable colored output"`
	LogLevel string   `help:"Log level (debug|info|warn|error), overrides the config file"`
}

func (c *PlayCmd) Run() error {
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

	// the terminal belongs to the players; logs go to stderr at warn
	// unless a file or level was asked for
	level := cfg.Log.Level
	if c.LogLevel == "" && cfg.Log.File == "" {
		level = "warn"
	}
	logger, closeLog, err := setupLogger(os.Stderr, level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := setupSignalHandler(logger)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.TimeSeed()
	}
	logger.Debug("Starting table", "seed", seed, "config", c.Config)

	players := terminalPlayers(c.Players, cfg.Seats)
	prompt := console.NewPrompt(os.Stdin, os.Stdout, !c.NoColor)
	seats, err := buildSeats(players, cfg.Seats, prompt, seed, logger)
	if err != nil {
		return err
	}

	renderer := console.NewRenderer(os.Stdout, !c.NoColor)
	bus := game.NewEventBus()
	bus.Subscribe(renderer)

	table, err := game.NewTable(randutil.New(seed), rules, seats,
		game.WithLogger(logger),
		game.WithEventBus(bus),
	)
	if err != nil {
		return err
	}

	return playRounds(ctx, table, renderer, prompt, c.Rounds, len(players) > 0)
}

// terminalPlayers returns the names to seat at the terminal. Without names
// and without configured bots there is a single player.
func terminalPlayers(names []string, bots []config.SeatSettings) []string {
	if len(names) == 0 && len(bots) == 0 {
		return []string{"Player 1"}
	}
	return names
}

// buildSeats seats the terminal players first, then the configured bots
func buildSeats(players []string, bots []config.SeatSettings, prompt *console.Prompt, seed int64, logger *log.Logger) ([]game.SeatConfig, error) {
	seats := make([]game.SeatConfig, 0, len(players)+len(bots))
	for _, name := range players {
		seats = append(seats, game.SeatConfig{Name: name, Provider: prompt})
	}
	for i, s := range bots {
		bet := s.BetFor()
		if bet == 0 {
			bet = defaultBotBet
		}
		provider, err := bot.New(s.Strategy, randutil.New(randutil.Derive(seed, i+1)), logger, bet)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", s.Name, err)
		}
		seats = append(seats, game.SeatConfig{Name: s.Name, Provider: provider})
	}
	if len(seats) == 0 {
		return nil, errors.New("no players: pass --players or configure seat blocks")
	}
	return seats, nil
}

// playRounds plays until the round limit or an interrupt, until the
// terminal players quit, or until nobody can afford another round
func playRounds(ctx context.Context, table *game.Table, renderer *console.Renderer, prompt *console.Prompt, limit int, interactive bool) error {
	for limit == 0 || table.Round() < limit {
		if _, err := table.PlayRound(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		renderer.RenderSummary(table.Players())

		if broke(table) || (interactive && prompt.Closed()) {
			return nil
		}
	}
	return nil
}

// broke reports whether no player can afford another round
func broke(table *game.Table) bool {
	for _, p := range table.Players() {
		if p.Balance > 0 && p.Balance >= table.Rules().MinBet {
			return false
		}
	}
	return true
}
