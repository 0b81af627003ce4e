package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// DealerBot mimics the house: hit below 17, otherwise stand
type DealerBot struct {
	flatBettor
	standsOn int
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(logger *log.Logger, bet game.Money) *DealerBot {
	return &DealerBot{
		flatBettor: flatBettor{bet: bet, logger: logger},
		standsOn:   game.DefaultDealerStandsOn,
	}
}

// ChooseAction implements game.DecisionProvider
func (d *DealerBot) ChooseAction(_ context.Context, hand game.HandView, actions []game.Action) (game.Action, error) {
	if hand.Value < d.standsOn {
		d.logger.Debug("Drawing like the dealer", "hand", hand.Value)
		return pick(actions, game.Hit, game.Stand), nil
	}
	return pick(actions, game.Stand), nil
}
