package bot

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
	bet    game.Money
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger, bet game.Money) *RandBot {
	return &RandBot{rng: rng, logger: logger, bet: bet}
}

// ChooseAction implements game.DecisionProvider
func (r *RandBot) ChooseAction(_ context.Context, _ game.HandView, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Stand, nil
	}
	return actions[r.rng.IntN(len(actions))], nil
}

// ChooseStake implements game.DecisionProvider. The opening bet is flat;
// side bets and doubles are random within bounds.
func (r *RandBot) ChooseStake(_ context.Context, min, max game.Money, req game.StakeRequest) (game.Money, error) {
	if req.Kind == game.StakeInitial {
		return game.Clamp(r.bet, min, max), nil
	}
	if max <= min {
		return min, nil
	}
	return min + game.Money(r.rng.Int64N(int64(max-min)+1)), nil
}
