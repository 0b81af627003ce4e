// Package config loads table settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// Config is the complete blackjack configuration
type Config struct {
	Table *TableSettings `hcl:"table,block"`
	Log   *LogSettings   `hcl:"log,block"`
	Seats []SeatSettings `hcl:"seat,block"`
}

// TableSettings mirrors game.Rules with file-friendly types. Amounts are in
// whole currency units; fractional amounts are allowed.
type TableSettings struct {
	Decks             int     `hcl:"decks,optional"`
	StartingBalance   float64 `hcl:"starting_balance,optional"`
	MinBet            float64 `hcl:"min_bet,optional"`
	MaxSplits         *int    `hcl:"max_splits,optional"`
	Surrender         string  `hcl:"surrender,optional"`
	Insurance         *bool   `hcl:"insurance,optional"`
	DealerStandsOn    int     `hcl:"dealer_stands_on,optional"`
	ReshuffleAt       int     `hcl:"reshuffle_at,optional"`
	DecisionTimeout   string  `hcl:"decision_timeout,optional"`
	Abandon           string  `hcl:"abandon,optional"`
	MaxPromptAttempts int     `hcl:"max_prompt_attempts,optional"`
}

// LogSettings configures the process logger
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SeatSettings describes a seat filled by a bot or the console
type SeatSettings struct {
	Name     string  `hcl:"name,label"`
	Strategy string  `hcl:"strategy"`
	Bet      float64 `hcl:"bet,optional"`
}

// DefaultConfig returns the standard six-deck table with info logging
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// ParseConfig decodes configuration from HCL source, for tests and
// embedded defaults
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	rules := game.DefaultRules()
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	t := c.Table

	if t.Decks == 0 {
		t.Decks = rules.Decks
	}
	if t.StartingBalance == 0 {
		t.StartingBalance = rules.StartingBalance.Float()
	}
	if t.MaxSplits == nil {
		n := rules.MaxSplits
		t.MaxSplits = &n
	}
	if t.Surrender == "" {
		t.Surrender = rules.Surrender.String()
	}
	if t.Insurance == nil {
		b := rules.AllowInsurance
		t.Insurance = &b
	}
	if t.DealerStandsOn == 0 {
		t.DealerStandsOn = rules.DealerStandsOn
	}
	if t.ReshuffleAt == 0 {
		t.ReshuffleAt = rules.ReshuffleAt
	}
	if t.Abandon == "" {
		t.Abandon = rules.Abandon.String()
	}
	if t.MaxPromptAttempts == 0 {
		t.MaxPromptAttempts = rules.MaxPromptAttempts
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	for i := range c.Seats {
		if c.Seats[i].Bet == 0 {
			c.Seats[i].Bet = 10
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Log == nil {
		return errors.New("log block missing; load configuration with LoadConfig or ParseConfig")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	rules, err := c.Rules()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return err
	}

	if len(c.Seats) > game.MaxPlayers {
		return fmt.Errorf("at most %d seats may be configured, got %d", game.MaxPlayers, len(c.Seats))
	}
	for _, seat := range c.Seats {
		if seat.Strategy == "" {
			return fmt.Errorf("seat %s: strategy is required", seat.Name)
		}
		if seat.Bet < 0 {
			return fmt.Errorf("seat %s: bet must not be negative", seat.Name)
		}
	}
	return nil
}

// Rules converts the table block into game rules
func (c *Config) Rules() (game.Rules, error) {
	t := c.Table
	if t == nil {
		return game.DefaultRules(), nil
	}
	rules := game.Rules{
		Decks:             t.Decks,
		StartingBalance:   toMoney(t.StartingBalance),
		MinBet:            toMoney(t.MinBet),
		DealerStandsOn:    t.DealerStandsOn,
		ReshuffleAt:       t.ReshuffleAt,
		MaxPromptAttempts: t.MaxPromptAttempts,
	}
	if t.MaxSplits != nil {
		rules.MaxSplits = *t.MaxSplits
	}
	if t.Insurance != nil {
		rules.AllowInsurance = *t.Insurance
	}

	var err error
	if rules.Surrender, err = game.ParseSurrenderPolicy(t.Surrender); err != nil {
		return game.Rules{}, fmt.Errorf("table: %w", err)
	}
	if rules.Abandon, err = game.ParseAbandonPolicy(t.Abandon); err != nil {
		return game.Rules{}, fmt.Errorf("table: %w", err)
	}
	if t.DecisionTimeout != "" {
		if rules.DecisionTimeout, err = time.ParseDuration(t.DecisionTimeout); err != nil {
			return game.Rules{}, fmt.Errorf("table: invalid decision timeout %q: %w", t.DecisionTimeout, err)
		}
	}
	return rules, nil
}

// BetFor returns a seat's flat bet as Money
func (s SeatSettings) BetFor() game.Money {
	return toMoney(s.Bet)
}

func toMoney(units float64) game.Money {
	return game.Money(math.Round(units * float64(game.Unit)))
}
