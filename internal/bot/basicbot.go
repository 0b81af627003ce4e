package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/Mat-thias/BlackJack/internal/game"
)

// BasicBot plays multi-deck basic strategy for a dealer that stands on all
// 17s. It never takes insurance and never surrenders.
type BasicBot struct {
	flatBettor
}

// NewBasicBot creates a new BasicBot instance
func NewBasicBot(logger *log.Logger, bet game.Money) *BasicBot {
	return &BasicBot{flatBettor{bet: bet, logger: logger}}
}

// ChooseAction implements game.DecisionProvider
func (b *BasicBot) ChooseAction(_ context.Context, hand game.HandView, actions []game.Action) (game.Action, error) {
	up := game.CardValue(hand.DealerUpCard.Rank)
	action := b.decide(hand, up, actions)

	b.logger.Debug("Basic strategy",
		"hand", hand.Value,
		"soft", hand.Soft,
		"dealer", up,
		"action", action)
	return action, nil
}

func (b *BasicBot) decide(hand game.HandView, up int, actions []game.Action) game.Action {
	if len(hand.Cards) == 2 && hand.Cards[0].Rank == hand.Cards[1].Rank {
		if splitPair(hand.Cards[0].Rank, up) {
			if a := pick(actions, game.Split, game.Stand); a == game.Split {
				return a
			}
		}
	}

	if hand.Soft {
		return softTotal(hand.Value, up, actions)
	}
	return hardTotal(hand.Value, up, actions)
}

// splitPair reports whether a pair of rank should be split against the
// dealer's up-card value
func splitPair(rank deck.Rank, up int) bool {
	switch game.CardValue(rank) {
	case 11, 8:
		return true
	case 10, 5:
		return false
	case 9:
		return up != 7 && up < 10
	case 7:
		return up <= 7
	case 6:
		return up <= 6
	case 4:
		return up == 5 || up == 6
	default: // twos and threes
		return up <= 7
	}
}

func softTotal(value, up int, actions []game.Action) game.Action {
	switch {
	case value >= 19:
		return pick(actions, game.Stand)
	case value == 18:
		if up >= 3 && up <= 6 {
			return pick(actions, game.DoubleDown, game.Stand)
		}
		if up >= 9 {
			return pick(actions, game.Hit, game.Stand)
		}
		return pick(actions, game.Stand)
	case value == 17:
		if up >= 3 && up <= 6 {
			return pick(actions, game.DoubleDown, game.Hit)
		}
	case value >= 15:
		if up >= 4 && up <= 6 {
			return pick(actions, game.DoubleDown, game.Hit)
		}
	default:
		if up == 5 || up == 6 {
			return pick(actions, game.DoubleDown, game.Hit)
		}
	}
	return pick(actions, game.Hit, game.Stand)
}

func hardTotal(value, up int, actions []game.Action) game.Action {
	switch {
	case value >= 17:
		return pick(actions, game.Stand)
	case value >= 13:
		if up <= 6 {
			return pick(actions, game.Stand)
		}
	case value == 12:
		if up >= 4 && up <= 6 {
			return pick(actions, game.Stand)
		}
	case value == 11:
		return pick(actions, game.DoubleDown, game.Hit)
	case value == 10:
		if up <= 9 {
			return pick(actions, game.DoubleDown, game.Hit)
		}
	case value == 9:
		if up >= 3 && up <= 6 {
			return pick(actions, game.DoubleDown, game.Hit)
		}
	}
	return pick(actions, game.Hit, game.Stand)
}
