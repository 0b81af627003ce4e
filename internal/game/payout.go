package game

import (
	"fmt"

	"github.com/Mat-thias/BlackJack/internal/deck"
)

// SettledHand records how one hand was resolved
type SettledHand struct {
	Seat       int
	PlayerName string
	SplitIndex int
	Cards      []deck.Card
	Value      int
	Status     Status
	Stake      Money
	Credit     Money
	Doubled    bool
}

// Net returns the player's profit on the hand
func (s SettledHand) Net() Money {
	return s.Credit - s.Stake
}

// InsuranceResult records one insurance side bet
type InsuranceResult struct {
	Seat       int
	PlayerName string
	Amount     Money
	Credit     Money
}

// Net returns the player's profit on the side bet
func (r InsuranceResult) Net() Money {
	return r.Credit - r.Amount
}

// Payout returns the amount credited back to the player for a hand that
// resolved with status on the given stake. Wins pay 1:1, a blackjack 3:2
// truncated to the cent, a push returns the stake.
func Payout(status Status, stake Money, rules Rules) Money {
	switch status {
	case WonByDealerBust, WonByHigher:
		return 2 * stake
	case Blackjack:
		return stake + stake*3/2
	case Push:
		return stake
	case Surrendered:
		if rules.Surrender == SurrenderHalf {
			return stake / 2
		}
		return 0
	default:
		return 0
	}
}

// InsurancePayout returns the credit for an insurance bet. It pays 2:1
// when the dealer finished with a natural.
func InsurancePayout(amount Money, dealerNatural bool) Money {
	if !dealerNatural {
		return 0
	}
	return 3 * amount
}

// CompareWithDealer resolves a standing hand against the dealer's final
// value.
func CompareWithDealer(value, dealerValue int) Status {
	switch {
	case IsBust(value):
		return Bust
	case IsBust(dealerValue):
		return WonByDealerBust
	case dealerValue > value:
		return LostByLower
	case dealerValue < value:
		return WonByHigher
	default:
		return Push
	}
}

// resolveStanding decides a standing hand against the finished dealer.
// Blackjack is only paid right after the deal; a natural that waited out
// an ace up-card compares by value like any other 21.
func (t *Table) resolveStanding(h *Hand) Status {
	return CompareWithDealer(h.Value(), t.dealer.Hand.Value())
}

// SettleHand pays out a hand and closes it. A hand that is no longer
// active has already been settled and is left untouched.
func (t *Table) SettleHand(p *Player, h *Hand) {
	if !h.Active {
		return
	}

	if h.Status == Standing || h.Status == InPlay {
		h.Status = t.resolveStanding(h)
	}

	stake := h.Stake
	credit := Payout(h.Status, stake, t.rules)

	p.Balance += credit
	t.house -= credit
	h.Stake = 0
	h.Active = false

	settled := SettledHand{
		Seat:       p.Seat,
		PlayerName: p.Name,
		SplitIndex: h.SplitIndex,
		Cards:      h.cardsCopy(),
		Value:      h.Value(),
		Status:     h.Status,
		Stake:      stake,
		Credit:     credit,
		Doubled:    h.Doubled,
	}
	t.result.Hands = append(t.result.Hands, settled)

	t.logger.Debug("Hand settled",
		"hand", h.Label(),
		"status", h.Status,
		"stake", stake,
		"credit", credit,
		"balance", p.Balance)

	t.publish(PayoutAppliedEvent{
		eventTime:  t.now(),
		Seat:       p.Seat,
		SplitIndex: h.SplitIndex,
		Reason:     h.Status,
		Stake:      stake,
		Amount:     credit,
		Net:        credit - stake,
	})
}

// settleInsurance resolves every open insurance bet against the dealer's
// final hand
func (t *Table) settleInsurance() {
	natural := t.dealer.HasNatural()
	for _, p := range t.players {
		if p.Insurance == 0 {
			continue
		}

		amount := p.Insurance
		credit := InsurancePayout(amount, natural)
		p.Balance += credit
		t.house -= credit
		p.Insurance = 0

		t.result.Insurance = append(t.result.Insurance, InsuranceResult{
			Seat:       p.Seat,
			PlayerName: p.Name,
			Amount:     amount,
			Credit:     credit,
		})

		t.logger.Debug("Insurance settled", "player", p.Name, "amount", amount, "credit", credit)
		t.publish(InsuranceSettledEvent{
			eventTime:     t.now(),
			Seat:          p.Seat,
			Amount:        amount,
			Credit:        credit,
			DealerNatural: natural,
		})
	}
}

// ValidateConservation checks that no money was created or destroyed:
// player balances plus the house take must equal the starting total.
func (t *Table) ValidateConservation() error {
	actual := t.house
	for _, p := range t.players {
		actual += p.Balance
	}
	if actual != t.startingTotal {
		return fmt.Errorf("money conservation violation: expected %s total, but found %s (difference: %s)",
			t.startingTotal, actual, actual-t.startingTotal)
	}
	return nil
}
