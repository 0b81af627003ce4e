package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mat-thias/BlackJack/internal/deck"
)

const (
	// MinPlayers and MaxPlayers bound the seats at a table
	MinPlayers = 1
	MaxPlayers = 6

	// DefaultDealerStandsOn is the total the dealer stops drawing at
	DefaultDealerStandsOn = 17
)

// DefaultStartingBalance is each player's balance when seated
var DefaultStartingBalance = Units(1000)

var (
	// ErrInvalidRules is returned when a Rules value fails validation
	ErrInvalidRules = errors.New("invalid table rules")
	// ErrPlayerCount is returned when the number of seats is out of range
	ErrPlayerCount = errors.New("player count out of range")
)

// SurrenderPolicy sets how much of the stake a surrender forfeits
type SurrenderPolicy int

const (
	SurrenderFull SurrenderPolicy = iota
	SurrenderHalf
)

// String returns the string representation of a surrender policy
func (s SurrenderPolicy) String() string {
	switch s {
	case SurrenderFull:
		return "full"
	case SurrenderHalf:
		return "half"
	default:
		return "unknown"
	}
}

// ParseSurrenderPolicy parses "full" or "half"
func ParseSurrenderPolicy(s string) (SurrenderPolicy, error) {
	switch strings.ToLower(s) {
	case "full":
		return SurrenderFull, nil
	case "half":
		return SurrenderHalf, nil
	default:
		return 0, fmt.Errorf("unknown surrender policy %q", s)
	}
}

// AbandonPolicy decides what an abandoned or timed-out decision becomes
type AbandonPolicy int

const (
	AbandonStand AbandonPolicy = iota
	AbandonSurrender
)

// String returns the string representation of an abandon policy
func (a AbandonPolicy) String() string {
	switch a {
	case AbandonStand:
		return "stand"
	case AbandonSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// ParseAbandonPolicy parses "stand" or "surrender"
func ParseAbandonPolicy(s string) (AbandonPolicy, error) {
	switch strings.ToLower(s) {
	case "stand":
		return AbandonStand, nil
	case "surrender":
		return AbandonSurrender, nil
	default:
		return 0, fmt.Errorf("unknown abandon policy %q", s)
	}
}

// Rules holds the configurable table rules
type Rules struct {
	Decks             int
	StartingBalance   Money
	MinBet            Money
	MaxSplits         int // split events allowed per player per round
	Surrender         SurrenderPolicy
	AllowInsurance    bool
	DealerStandsOn    int
	ReshuffleAt       int // rebuild the shoe below this many cards at round start
	MaxPromptAttempts int
	Abandon           AbandonPolicy
	DecisionTimeout   time.Duration // zero disables the timeout wrapper
}

// DefaultRules returns the standard six-deck table
func DefaultRules() Rules {
	return Rules{
		Decks:             deck.DefaultDecks,
		StartingBalance:   DefaultStartingBalance,
		MinBet:            0,
		MaxSplits:         1,
		Surrender:         SurrenderFull,
		AllowInsurance:    true,
		DealerStandsOn:    DefaultDealerStandsOn,
		ReshuffleAt:       52,
		MaxPromptAttempts: 3,
		Abandon:           AbandonStand,
	}
}

// Validate checks the rules for consistency
func (r Rules) Validate() error {
	switch {
	case r.Decks < 1:
		return fmt.Errorf("%w: decks must be at least 1, got %d", ErrInvalidRules, r.Decks)
	case r.StartingBalance < 0:
		return fmt.Errorf("%w: starting balance must not be negative", ErrInvalidRules)
	case r.MinBet < 0:
		return fmt.Errorf("%w: minimum bet must not be negative", ErrInvalidRules)
	case r.MinBet > r.StartingBalance:
		return fmt.Errorf("%w: minimum bet %s exceeds starting balance %s", ErrInvalidRules, r.MinBet, r.StartingBalance)
	case r.MaxSplits < 0:
		return fmt.Errorf("%w: max splits must not be negative", ErrInvalidRules)
	case r.DealerStandsOn < 2 || r.DealerStandsOn > BlackjackValue:
		return fmt.Errorf("%w: dealer must stand between 2 and 21, got %d", ErrInvalidRules, r.DealerStandsOn)
	case r.ReshuffleAt < 0 || r.ReshuffleAt >= r.Decks*deck.NumSuits*deck.NumRanks:
		return fmt.Errorf("%w: reshuffle point %d out of range for %d decks", ErrInvalidRules, r.ReshuffleAt, r.Decks)
	case r.MaxPromptAttempts < 1:
		return fmt.Errorf("%w: max prompt attempts must be at least 1", ErrInvalidRules)
	case r.DecisionTimeout < 0:
		return fmt.Errorf("%w: decision timeout must not be negative", ErrInvalidRules)
	}
	return nil
}
