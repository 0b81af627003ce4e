// Package bot provides automated decision providers for seats without a
// human player.
package bot

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// Strategy names accepted by New
const (
	StrategyStand  = "stand"
	StrategyDealer = "dealer"
	StrategyBasic  = "basic"
	StrategyRandom = "random"
)

var constructors = map[string]func(rng *rand.Rand, logger *log.Logger, bet game.Money) game.DecisionProvider{
	StrategyStand: func(_ *rand.Rand, logger *log.Logger, bet game.Money) game.DecisionProvider {
		return NewStandBot(logger, bet)
	},
	StrategyDealer: func(_ *rand.Rand, logger *log.Logger, bet game.Money) game.DecisionProvider {
		return NewDealerBot(logger, bet)
	},
	StrategyBasic: func(_ *rand.Rand, logger *log.Logger, bet game.Money) game.DecisionProvider {
		return NewBasicBot(logger, bet)
	},
	StrategyRandom: func(rng *rand.Rand, logger *log.Logger, bet game.Money) game.DecisionProvider {
		return NewRandBot(rng, logger, bet)
	},
}

// Strategies returns the registered strategy names in sorted order
func Strategies() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the bot registered under strategy. The random bot needs rng;
// the others ignore it.
func New(strategy string, rng *rand.Rand, logger *log.Logger, bet game.Money) (game.DecisionProvider, error) {
	ctor, ok := constructors[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q (available: %v)", strategy, Strategies())
	}
	if strategy == StrategyRandom && rng == nil {
		return nil, fmt.Errorf("strategy %q requires a random source", strategy)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return ctor(rng, logger.WithPrefix(strategy), bet), nil
}

// flatBettor stakes the same amount every round and declines side bets.
// Bots embed it and override what they need.
type flatBettor struct {
	bet    game.Money
	logger *log.Logger
}

// ChooseStake implements game.DecisionProvider
func (f flatBettor) ChooseStake(_ context.Context, min, max game.Money, req game.StakeRequest) (game.Money, error) {
	switch req.Kind {
	case game.StakeInitial:
		return game.Clamp(f.bet, min, max), nil
	case game.StakeDoubleDown:
		return max, nil
	default:
		return min, nil
	}
}

// pick returns want when offered, otherwise the first offered fallback,
// otherwise the first offered action
func pick(actions []game.Action, want game.Action, fallbacks ...game.Action) game.Action {
	for _, a := range append([]game.Action{want}, fallbacks...) {
		if slices.Contains(actions, a) {
			return a
		}
	}
	if len(actions) > 0 {
		return actions[0]
	}
	return game.Stand
}
