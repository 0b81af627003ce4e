package game

import (
	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// TableOption configures a Table during creation.
type TableOption func(*tableConfig)

type tableConfig struct {
	shoe     *deck.Shoe
	logger   *log.Logger
	eventBus EventBus
	clock    quartz.Clock
	balances []Money
}

// WithShoe uses a prepared shoe instead of building one from the rules.
// A stacked shoe is never rebuilt between rounds.
func WithShoe(shoe *deck.Shoe) TableOption {
	return func(c *tableConfig) {
		c.shoe = shoe
	}
}

// WithLogger sets the table logger. Defaults to discarding output.
func WithLogger(logger *log.Logger) TableOption {
	return func(c *tableConfig) {
		c.logger = logger
	}
}

// WithEventBus publishes table events on bus
func WithEventBus(bus EventBus) TableOption {
	return func(c *tableConfig) {
		c.eventBus = bus
	}
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) TableOption {
	return func(c *tableConfig) {
		c.clock = clock
	}
}

// WithBalances seats players with explicit balances instead of
// Rules.StartingBalance. The slice must match the number of seats.
func WithBalances(balances ...Money) TableOption {
	return func(c *tableConfig) {
		c.balances = balances
	}
}
