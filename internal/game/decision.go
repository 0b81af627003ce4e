package game

import (
	"context"
	"fmt"
	"slices"
)

// playHand drives one hand through the decision state machine until it
// stands, busts or surrenders. Only a shoe error escapes; decision errors
// are recovered here.
func (t *Table) playHand(ctx context.Context, p *Player, h *Hand) error {
	for h.CanAct() {
		// a two-card 21 never gets a prompt
		if IsBlackjack(h.Cards) {
			t.stand(h, true)
			return nil
		}

		actions := AvailableActions(p, h, t.rules)
		switch t.promptAction(ctx, p, h, actions) {
		case Stand:
			t.stand(h, false)
		case Hit:
			if err := t.hit(p, h); err != nil {
				return err
			}
		case DoubleDown:
			return t.doubleDown(ctx, p, h)
		case Split:
			return t.split(ctx, p, h)
		case Surrender:
			t.surrender(p, h)
		}
	}
	return nil
}

// promptAction asks the seat's provider for an action, re-prompting on
// answers outside the offered set. Provider errors and exhausted attempts
// fall back to the abandon policy.
func (t *Table) promptAction(ctx context.Context, p *Player, h *Hand, actions []Action) Action {
	if p.Provider == nil {
		return t.abandonAction(h, actions, fmt.Errorf("seat %d has no decision provider", p.Seat))
	}

	view := t.handView(p, h)
	var lastErr error
	for attempt := 1; attempt <= t.rules.MaxPromptAttempts; attempt++ {
		action, err := p.Provider.ChooseAction(ctx, view, slices.Clone(actions))
		if err != nil {
			return t.abandonAction(h, actions, err)
		}
		if containsAction(actions, action) {
			t.logger.Debug("Action chosen", "hand", h.Label(), "action", action, "value", h.Value())
			return action
		}

		lastErr = fmt.Errorf("%w: %s is not one of %v", ErrInvalidDecision, action, actions)
		t.logger.Warn("Rejected action", "hand", h.Label(), "attempt", attempt, "error", lastErr)
	}
	return t.abandonAction(h, actions, lastErr)
}

func (t *Table) abandonAction(h *Hand, actions []Action, cause error) Action {
	t.result.Abandoned++
	action := Stand
	if t.rules.Abandon == AbandonSurrender && containsAction(actions, Surrender) {
		action = Surrender
	}
	t.logger.Warn("Decision abandoned", "hand", h.Label(), "fallback", action, "error", cause)
	return action
}

// promptStake asks for an amount in [min, max]. Amounts over the balance or
// outside the bounds are rejected and re-prompted; an abandoned prompt
// resolves to min.
func (t *Table) promptStake(ctx context.Context, p *Player, h *Hand, kind StakeKind, min, max Money) Money {
	if p.Provider == nil {
		return t.abandonStake(p, kind, min, fmt.Errorf("seat %d has no decision provider", p.Seat))
	}

	req := StakeRequest{
		Kind:       kind,
		Seat:       p.Seat,
		PlayerName: p.Name,
		SplitIndex: h.SplitIndex,
		Stake:      h.Stake,
		Balance:    p.Balance,
	}
	if up, ok := t.dealer.UpCard(); ok {
		req.DealerUpCard = up
	}

	var lastErr error
	for attempt := 1; attempt <= t.rules.MaxPromptAttempts; attempt++ {
		amount, err := p.Provider.ChooseStake(ctx, min, max, req)
		if err != nil {
			return t.abandonStake(p, kind, min, err)
		}
		if lastErr = checkStake(amount, min, max, p.Balance); lastErr == nil {
			t.logger.Debug("Stake chosen", "player", p.Name, "kind", kind, "amount", amount)
			return amount
		}
		t.logger.Warn("Rejected stake", "player", p.Name, "kind", kind, "attempt", attempt, "error", lastErr)
	}
	return t.abandonStake(p, kind, min, lastErr)
}

func (t *Table) abandonStake(p *Player, kind StakeKind, min Money, cause error) Money {
	t.result.Abandoned++
	t.logger.Warn("Stake abandoned", "player", p.Name, "kind", kind, "fallback", min, "error", cause)
	return min
}

func (t *Table) handView(p *Player, h *Hand) HandView {
	view := HandView{
		Seat:       p.Seat,
		PlayerName: p.Name,
		SplitIndex: h.SplitIndex,
		Cards:      h.cardsCopy(),
		Value:      h.Value(),
		Soft:       h.IsSoft(),
		Stake:      h.Stake,
		Balance:    p.Balance,
	}
	if up, ok := t.dealer.UpCard(); ok {
		view.DealerUpCard = up
	}
	return view
}

// deal draws the top card of the shoe into h
func (t *Table) deal(h *Hand) error {
	card, err := t.shoe.Draw()
	if err != nil {
		return fmt.Errorf("dealing to %s: %w", h.Label(), err)
	}
	h.AddCard(card)

	t.logger.Debug("Card drawn", "hand", h.Label(), "card", card, "value", h.Value())
	t.publish(CardDrawnEvent{
		eventTime:  t.now(),
		Seat:       h.Seat,
		SplitIndex: h.SplitIndex,
		Card:       card,
		Value:      h.Value(),
	})
	return nil
}

func (t *Table) stand(h *Hand, perfect bool) {
	h.Status = Standing
	h.Perfect = perfect
	t.publish(HandStandingEvent{
		eventTime:  t.now(),
		Seat:       h.Seat,
		SplitIndex: h.SplitIndex,
		Value:      h.Value(),
		Perfect:    perfect,
	})
}

func (t *Table) hit(p *Player, h *Hand) error {
	if err := t.deal(h); err != nil {
		return err
	}
	if h.Status == Bust {
		t.bust(p, h)
	}
	return nil
}

// bust settles a hand the moment it goes over 21
func (t *Table) bust(p *Player, h *Hand) {
	t.publish(HandBustEvent{
		eventTime:  t.now(),
		Seat:       h.Seat,
		SplitIndex: h.SplitIndex,
		Value:      h.Value(),
	})
	t.SettleHand(p, h)
}

// doubleDown adds up to the original stake, deals exactly one card and
// stands.
func (t *Table) doubleDown(ctx context.Context, p *Player, h *Hand) error {
	limit := min(h.Stake, p.Balance)
	added := t.promptStake(ctx, p, h, StakeDoubleDown, 0, limit)

	t.charge(p, added)
	h.Stake += added
	h.Doubled = true
	t.publish(DoubleDownEvent{
		eventTime:  t.now(),
		Seat:       p.Seat,
		SplitIndex: h.SplitIndex,
		Added:      added,
		Stake:      h.Stake,
	})

	if err := t.deal(h); err != nil {
		return err
	}
	if h.Status == Bust {
		t.bust(p, h)
		return nil
	}
	t.stand(h, h.Value() == BlackjackValue)
	return nil
}

// split turns a pair into two sub-hands, each carrying the original stake.
// The first split of a player creates indices 0 and 1; splitting sub-hand i
// again overwrites i and appends the second hand.
func (t *Table) split(ctx context.Context, p *Player, h *Hand) error {
	stake := h.Stake
	t.refund(p, stake)
	h.Stake = 0
	h.Active = false

	indices := [2]int{0, 1}
	if h.IsSplit() {
		indices = [2]int{h.SplitIndex, len(p.Splits)}
	}

	var hands [2]*Hand
	for i, idx := range indices {
		sub := NewHand(p.Seat, idx)
		sub.AddCard(h.Cards[i])
		t.charge(p, stake)
		sub.Stake = stake
		p.placeSplit(sub)
		hands[i] = sub
	}
	p.splits++

	t.logger.Debug("Hand split", "hand", h.Label(), "indices", indices, "stake", stake)
	t.publish(HandSplitEvent{
		eventTime: t.now(),
		Seat:      p.Seat,
		FromIndex: h.SplitIndex,
		Indices:   indices,
		Stake:     stake,
	})

	for _, sub := range hands {
		if err := t.deal(sub); err != nil {
			return err
		}
		if err := t.playHand(ctx, p, sub); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) surrender(p *Player, h *Hand) {
	h.Status = Surrendered
	t.publish(HandSurrenderedEvent{
		eventTime:  t.now(),
		Seat:       h.Seat,
		SplitIndex: h.SplitIndex,
	})
	t.SettleHand(p, h)
}

// offerInsurance asks every seated player with a stake for an insurance
// side bet of up to half the main stake.
func (t *Table) offerInsurance(ctx context.Context, players []*Player) {
	for _, p := range players {
		limit := min(p.Hand.Stake/2, p.Balance)
		if limit <= 0 {
			continue
		}

		amount := t.promptStake(ctx, p, p.Hand, StakeInsurance, 0, limit)
		if amount == 0 {
			continue
		}

		t.charge(p, amount)
		p.Insurance = amount
		t.logger.Debug("Insurance placed", "player", p.Name, "amount", amount)
		t.publish(InsurancePlacedEvent{
			eventTime: t.now(),
			Seat:      p.Seat,
			Amount:    amount,
		})
	}
}
