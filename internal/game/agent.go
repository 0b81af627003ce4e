package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mat-thias/BlackJack/internal/deck"
)

var (
	// ErrInvalidDecision is returned when a provider answers outside the
	// offered actions or stake bounds. The engine re-prompts.
	ErrInvalidDecision = errors.New("invalid decision")
	// ErrInsufficientBalance is returned when a stake exceeds the player's
	// balance. The engine re-prompts with the corrected bounds.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// HandView is the read-only snapshot a provider decides on
type HandView struct {
	Seat         int
	PlayerName   string
	SplitIndex   int
	Cards        []deck.Card
	Value        int
	Soft         bool
	Stake        Money
	Balance      Money
	DealerUpCard deck.Card
}

// StakeKind says what a stake prompt is for
type StakeKind int

const (
	StakeInitial StakeKind = iota
	StakeDoubleDown
	StakeInsurance
)

// String returns the string representation of a stake kind
func (k StakeKind) String() string {
	switch k {
	case StakeInitial:
		return "initial"
	case StakeDoubleDown:
		return "double-down"
	case StakeInsurance:
		return "insurance"
	default:
		return "unknown"
	}
}

// StakeRequest describes a stake prompt
type StakeRequest struct {
	Kind         StakeKind
	Seat         int
	PlayerName   string
	SplitIndex   int
	Stake        Money // current stake on the hand, zero for the initial bet
	Balance      Money
	DealerUpCard deck.Card // zero value for the initial bet
}

// DecisionProvider is anything (human, bot, remote) that decides for a seat.
// Answers must come from the offered set or bounds; anything else is
// rejected and re-prompted. A returned error abandons the decision.
type DecisionProvider interface {
	// ChooseAction picks one of actions for the hand
	ChooseAction(ctx context.Context, hand HandView, actions []Action) (Action, error)

	// ChooseStake picks an amount in [min, max]
	ChooseStake(ctx context.Context, min, max Money, req StakeRequest) (Money, error)
}

// checkStake validates a stake answer against its bounds and the balance
func checkStake(amount, min, max, balance Money) error {
	if amount > balance {
		return fmt.Errorf("%w: stake %s exceeds balance %s", ErrInsufficientBalance, amount, balance)
	}
	if amount < min || amount > max {
		return fmt.Errorf("%w: stake %s outside [%s, %s]", ErrInvalidDecision, amount, min, max)
	}
	return nil
}
