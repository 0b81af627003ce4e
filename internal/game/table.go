package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// SeatConfig describes one seat at table creation
type SeatConfig struct {
	Name     string
	Provider DecisionProvider
}

// RoundResult summarises a finished round
type RoundResult struct {
	Round         int
	DealerCards   []deck.Card
	DealerValue   int
	DealerNatural bool
	Hands         []SettledHand
	Insurance     []InsuranceResult
	SittingOut    []int // seats that could not cover the minimum bet
	Abandoned     int   // decisions resolved by the abandon policy
	HouseDelta    Money // house take for the round; negative when players won
}

// PlayerNet returns a seat's profit for the round across hands and
// insurance
func (r RoundResult) PlayerNet(seat int) Money {
	var net Money
	for _, h := range r.Hands {
		if h.Seat == seat {
			net += h.Net()
		}
	}
	for _, ins := range r.Insurance {
		if ins.Seat == seat {
			net += ins.Net()
		}
	}
	return net
}

// HandsFor returns the settled hands of one seat in settlement order
func (r RoundResult) HandsFor(seat int) []SettledHand {
	var hands []SettledHand
	for _, h := range r.Hands {
		if h.Seat == seat {
			hands = append(hands, h)
		}
	}
	return hands
}

// Table owns the shoe, the dealer and the seated players, and runs rounds
// one at a time. A Table is not safe for concurrent use.
type Table struct {
	rng     *rand.Rand
	rules   Rules
	shoe    *deck.Shoe
	dealer  *Dealer
	players []*Player

	house         Money
	startingTotal Money
	round         int
	result        *RoundResult

	logger   *log.Logger
	eventBus EventBus
	clock    quartz.Clock
}

// NewTable seats players and builds the shoe.
//
// Example usage:
//
//	rng := randutil.New(42)
//	t, err := NewTable(rng, DefaultRules(), []SeatConfig{{Name: "Alice", Provider: p}})
//
//	// Exact scenarios
//	t, err := NewTable(rng, rules, seats, WithShoe(deck.NewStackedShoe(cards...)))
func NewTable(rng *rand.Rand, rules Rules, seats []SeatConfig, opts ...TableOption) (*Table, error) {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("%w: got %d, need %d to %d", ErrPlayerCount, len(seats), MinPlayers, MaxPlayers)
	}

	cfg := &tableConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.balances != nil && len(cfg.balances) != len(seats) {
		return nil, fmt.Errorf("%w: %d balances for %d seats", ErrPlayerCount, len(cfg.balances), len(seats))
	}

	t := &Table{
		rng:      rng,
		rules:    rules,
		shoe:     cfg.shoe,
		dealer:   NewDealer(),
		logger:   cfg.logger,
		eventBus: cfg.eventBus,
		clock:    cfg.clock,
		result:   &RoundResult{},
	}
	if t.shoe == nil {
		t.shoe = deck.NewShoe(rules.Decks, rng)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	t.logger = t.logger.WithPrefix("table")
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}

	for i, seat := range seats {
		name := seat.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		balance := rules.StartingBalance
		if cfg.balances != nil {
			balance = cfg.balances[i]
		}
		if balance < 0 {
			return nil, fmt.Errorf("%w: negative balance for %s", ErrInvalidRules, name)
		}
		provider := seat.Provider
		if provider != nil && rules.DecisionTimeout > 0 {
			provider = WithTimeout(provider, rules.DecisionTimeout, t.clock)
		}
		t.players = append(t.players, NewPlayer(i, name, balance, provider))
		t.startingTotal += balance
	}

	return t, nil
}

// Rules returns the table rules
func (t *Table) Rules() Rules { return t.rules }

// Players returns the seated players in seat order
func (t *Table) Players() []*Player { return t.players }

// Dealer returns the dealer
func (t *Table) Dealer() *Dealer { return t.dealer }

// Shoe returns the current shoe
func (t *Table) Shoe() *deck.Shoe { return t.shoe }

// House returns the house's running net take
func (t *Table) House() Money { return t.house }

// Round returns the number of rounds started
func (t *Table) Round() int { return t.round }

// PlayRound plays one full round: stakes, deal, insurance, player turns,
// dealer turn and settlement. Running out of cards voids the round,
// refunding open stakes, and returns an error wrapping deck.ErrEmptyShoe.
func (t *Table) PlayRound(ctx context.Context) (*RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.round++
	reshuffled := t.maybeReshuffle()

	t.dealer.resetRound()
	for _, p := range t.players {
		p.resetRound()
	}
	t.result = &RoundResult{Round: t.round}
	houseBefore := t.house

	names := make([]string, len(t.players))
	for i, p := range t.players {
		names[i] = p.Name
	}
	t.logger.Info("Round started", "round", t.round, "shoe", t.shoe.Remaining(), "reshuffled", reshuffled)
	t.publish(RoundStartEvent{
		eventTime:     t.now(),
		Round:         t.round,
		Players:       names,
		ShoeRemaining: t.shoe.Remaining(),
		Reshuffled:    reshuffled,
	})

	seated := t.takeStakes(ctx)
	if len(seated) == 0 {
		t.logger.Info("No players can cover the minimum bet", "round", t.round, "min_bet", t.rules.MinBet)
		return t.finishRound(houseBefore)
	}

	if err := t.playRound(ctx, seated); err != nil {
		return nil, t.voidRound(err)
	}

	return t.finishRound(houseBefore)
}

func (t *Table) playRound(ctx context.Context, seated []*Player) error {
	if err := t.dealInitial(seated); err != nil {
		return err
	}

	up, _ := t.dealer.UpCard()
	if up.IsAce() {
		if t.rules.AllowInsurance {
			t.offerInsurance(ctx, seated)
		}
	} else {
		for _, p := range seated {
			if IsBlackjack(p.Hand.Cards) {
				p.Hand.Status = Blackjack
				t.SettleHand(p, p.Hand)
			}
		}
	}

	for _, p := range seated {
		if err := t.playHand(ctx, p, p.Hand); err != nil {
			return err
		}
	}

	if err := t.playDealer(); err != nil {
		return err
	}

	t.settleInsurance()
	for _, p := range seated {
		for _, h := range p.Hands() {
			t.SettleHand(p, h)
		}
	}
	return nil
}

// takeStakes collects the opening bet of every player who can cover the
// minimum and returns them in seat order
func (t *Table) takeStakes(ctx context.Context) []*Player {
	seated := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if t.rules.MinBet > 0 && p.Balance < t.rules.MinBet {
			p.SittingOut = true
			t.result.SittingOut = append(t.result.SittingOut, p.Seat)
			t.logger.Info("Player sitting out", "player", p.Name, "balance", p.Balance)
			continue
		}

		amount := t.promptStake(ctx, p, p.Hand, StakeInitial, t.rules.MinBet, p.Balance)
		t.charge(p, amount)
		p.Hand.Stake = amount
		seated = append(seated, p)
	}
	return seated
}

// dealInitial deals one card to each player, the dealer's up-card, then a
// second card to each player. The dealer's second card comes in the dealer
// turn.
func (t *Table) dealInitial(seated []*Player) error {
	for _, p := range seated {
		if err := t.deal(p.Hand); err != nil {
			return err
		}
	}
	if err := t.deal(t.dealer.Hand); err != nil {
		return err
	}
	for _, p := range seated {
		if err := t.deal(p.Hand); err != nil {
			return err
		}
	}
	return nil
}

// playDealer draws until the dealer reaches Rules.DealerStandsOn
func (t *Table) playDealer() error {
	h := t.dealer.Hand
	for t.dealer.ShouldDraw(t.rules.DealerStandsOn) {
		if err := t.deal(h); err != nil {
			return err
		}
	}

	if h.Status == Bust {
		t.publish(HandBustEvent{eventTime: t.now(), Seat: DealerSeat, SplitIndex: NoSplit, Value: h.Value()})
	} else {
		h.Status = Standing
		t.publish(HandStandingEvent{
			eventTime:  t.now(),
			Seat:       DealerSeat,
			SplitIndex: NoSplit,
			Value:      h.Value(),
			Perfect:    t.dealer.HasNatural(),
		})
	}
	t.logger.Debug("Dealer finished", "value", h.Value(), "natural", t.dealer.HasNatural())
	return nil
}

func (t *Table) finishRound(houseBefore Money) (*RoundResult, error) {
	res := t.result
	res.DealerCards = t.dealer.Hand.cardsCopy()
	res.DealerValue = t.dealer.Hand.Value()
	res.DealerNatural = t.dealer.HasNatural()
	res.HouseDelta = t.house - houseBefore

	t.logger.Info("Round finished",
		"round", res.Round,
		"dealer", res.DealerValue,
		"hands", len(res.Hands),
		"house_delta", res.HouseDelta)
	t.publish(RoundEndEvent{eventTime: t.now(), Result: *res})

	if err := t.ValidateConservation(); err != nil {
		t.logger.Error("Conservation check failed", "error", err)
		return res, err
	}
	return res, nil
}

// voidRound refunds every open stake and insurance bet after a round-fatal
// error. Hands already settled keep their result.
func (t *Table) voidRound(cause error) error {
	for _, p := range t.players {
		for _, h := range p.Hands() {
			if h.Active && h.Stake > 0 {
				t.refund(p, h.Stake)
			}
			h.Stake = 0
			h.Active = false
		}
		if p.Insurance > 0 {
			t.refund(p, p.Insurance)
			p.Insurance = 0
		}
	}

	t.logger.Error("Round voided", "round", t.round, "error", cause)
	err := fmt.Errorf("round %d voided: %w", t.round, cause)
	if cerr := t.ValidateConservation(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// maybeReshuffle rebuilds the shoe when it has run low. Stacked shoes are
// left alone.
func (t *Table) maybeReshuffle() bool {
	if t.shoe.Decks() == 0 || t.shoe.Remaining() >= t.rules.ReshuffleAt {
		return false
	}
	t.logger.Info("Reshuffling shoe", "remaining", t.shoe.Remaining(), "decks", t.rules.Decks)
	t.shoe = deck.NewShoe(t.rules.Decks, t.rng)
	return true
}

// charge moves amount from the player's balance to the house
func (t *Table) charge(p *Player, amount Money) {
	p.Balance -= amount
	t.house += amount
}

// refund moves amount from the house back to the player
func (t *Table) refund(p *Player, amount Money) {
	p.Balance += amount
	t.house -= amount
}

func (t *Table) publish(event GameEvent) {
	if t.eventBus != nil {
		t.eventBus.Publish(event)
	}
}

func (t *Table) now() eventTime {
	return eventTime{at: t.clock.Now()}
}
