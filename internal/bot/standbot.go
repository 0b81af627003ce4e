package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// StandBot stands on every hand
type StandBot struct {
	flatBettor
}

// NewStandBot creates a new StandBot instance
func NewStandBot(logger *log.Logger, bet game.Money) *StandBot {
	return &StandBot{flatBettor{bet: bet, logger: logger}}
}

// ChooseAction implements game.DecisionProvider
func (s *StandBot) ChooseAction(_ context.Context, _ game.HandView, actions []game.Action) (game.Action, error) {
	return pick(actions, game.Stand), nil
}
