package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/Mat-thias/BlackJack/internal/randutil"
)

func playStacked(t *testing.T, rules Rules, cards string, providers ...DecisionProvider) (*Table, *RoundResult, *EventRecorder) {
	t.Helper()
	table, recorder, err := NewStackedTable(rules, cards, providers...)
	require.NoError(t, err)

	result, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.NoError(t, table.ValidateConservation())
	return table, result, recorder
}

func TestPlayRoundNaturalPaysImmediately(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider().WithStakes(Units(10))
	// player 10 A, dealer K up then 9
	table, result, recorder := playStacked(t, DefaultRules(), "Th Ks As 9c", alice)

	require.Len(t, result.Hands, 1)
	hand := result.Hands[0]
	assert.Equal(t, Blackjack, hand.Status)
	assert.Equal(t, Units(10), hand.Stake)
	assert.Equal(t, Units(25), hand.Credit)
	assert.Equal(t, Units(15), hand.Net())

	assert.Equal(t, 19, result.DealerValue)
	assert.Equal(t, Units(1015), table.Players()[0].Balance)
	assert.Equal(t, -Units(15), table.House())
	assert.Equal(t, -Units(15), result.HouseDelta)
	assert.Empty(t, alice.Offered, "a natural is never prompted")

	assert.Equal(t, []EventType{
		EventTypeRoundStart,
		EventTypeCardDrawn,
		EventTypeCardDrawn,
		EventTypeCardDrawn,
		EventTypePayoutApplied,
		EventTypeCardDrawn,
		EventTypeHandStanding,
		EventTypeRoundEnd,
	}, recorder.Types())
}

func TestPlayRoundStandAndBust(t *testing.T) {
	t.Parallel()

	a := NewScriptProvider(Stand).WithStakes(Units(10))
	b := NewScriptProvider(Hit).WithStakes(Units(10))
	// A: 10 8, B: 10 4 then K, dealer K Q
	table, result, _ := playStacked(t, DefaultRules(), "Th Tc Kd 8s 4h Ks Qd", a, b)

	require.Len(t, result.Hands, 2)
	assert.Equal(t, Bust, result.Hands[0].Status, "the bust settles before the dealer plays")
	assert.Equal(t, 24, result.Hands[0].Value)
	assert.Equal(t, LostByLower, result.Hands[1].Status)
	assert.Equal(t, 18, result.Hands[1].Value)
	assert.Equal(t, 20, result.DealerValue)

	for _, p := range table.Players() {
		assert.Equal(t, Units(990), p.Balance, p.Name)
	}
	assert.Equal(t, Units(20), table.House())
	assert.Equal(t, -Units(10), result.PlayerNet(0))
	assert.Equal(t, -Units(10), result.PlayerNet(1))
}

func TestPlayRoundDealerBust(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Stand).WithStakes(Units(10))
	// player 10 2, dealer 6 then K 9
	table, result, _ := playStacked(t, DefaultRules(), "Th 6d 2c Ks 9h", alice)

	require.Len(t, result.Hands, 1)
	assert.Equal(t, WonByDealerBust, result.Hands[0].Status)
	assert.Equal(t, 25, result.DealerValue)
	assert.Equal(t, Units(1010), table.Players()[0].Balance)
}

func TestPlayRoundPush(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Stand).WithStakes(Units(10))
	table, result, _ := playStacked(t, DefaultRules(), "Th 9d 8c 9s", alice)

	assert.Equal(t, Push, result.Hands[0].Status)
	assert.Equal(t, Units(1000), table.Players()[0].Balance)
	assert.Zero(t, table.House())
}

func TestPlayRoundDoubleDown(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(DoubleDown).WithStakes(Units(10), Units(10))
	// player 6 5 doubles into K, dealer 10 7
	table, result, recorder := playStacked(t, DefaultRules(), "6h Td 5c Ks 7d", alice)

	require.Len(t, alice.Offered, 1)
	assert.Equal(t, []Action{Stand, Hit, DoubleDown, Surrender}, alice.Offered[0])
	require.Len(t, alice.Requests, 2)
	assert.Equal(t, StakeDoubleDown, alice.Requests[1].Kind)

	hand := result.Hands[0]
	assert.True(t, hand.Doubled)
	assert.Equal(t, Units(20), hand.Stake)
	assert.Equal(t, WonByHigher, hand.Status)
	assert.Equal(t, Units(40), hand.Credit)
	assert.Equal(t, Units(1020), table.Players()[0].Balance)
	assert.Contains(t, recorder.Types(), EventTypeDoubleDown)
}

func TestPlayRoundDoubleDownIsCappedByBalance(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(DoubleDown).WithStakes(Units(10), Units(10), Units(5))
	table, recorder, err := NewStackedTable(DefaultRules(), "6h Td 5c Ks 7d", alice)
	require.NoError(t, err)
	table.players[0].Balance = Units(15)
	table.startingTotal = Units(15)

	result, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.NoError(t, table.ValidateConservation())

	assert.Equal(t, Units(15), result.Hands[0].Stake, "10 over the remaining 5 is re-prompted")
	assert.Equal(t, Units(30), table.Players()[0].Balance)
	assert.Contains(t, recorder.Types(), EventTypeDoubleDown)
}

func TestPlayRoundSurrender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy  SurrenderPolicy
		credit  Money
		balance Money
	}{
		{SurrenderFull, 0, Units(990)},
		{SurrenderHalf, Units(5), Units(995)},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			t.Parallel()

			rules := DefaultRules()
			rules.Surrender = tt.policy
			alice := NewScriptProvider(Surrender).WithStakes(Units(10))
			table, result, recorder := playStacked(t, rules, "Th 9d 6c 8s", alice)

			hand := result.Hands[0]
			assert.Equal(t, Surrendered, hand.Status)
			assert.Equal(t, tt.credit, hand.Credit)
			assert.Equal(t, tt.balance, table.Players()[0].Balance)
			assert.Contains(t, recorder.Types(), EventTypeHandSurrendered)
		})
	}
}

func TestPlayRoundInsurance(t *testing.T) {
	t.Parallel()

	t.Run("dealer natural", func(t *testing.T) {
		t.Parallel()

		alice := NewScriptProvider(Stand).WithStakes(Units(10), Units(5))
		table, result, recorder := playStacked(t, DefaultRules(), "Th As 9c Kd", alice)

		require.Len(t, alice.Requests, 2)
		assert.Equal(t, StakeInsurance, alice.Requests[1].Kind)
		assert.Equal(t, deck.Ace, alice.Requests[1].DealerUpCard.Rank)

		require.Len(t, result.Insurance, 1)
		assert.Equal(t, Units(15), result.Insurance[0].Credit)
		assert.True(t, result.DealerNatural)
		assert.Equal(t, LostByLower, result.Hands[0].Status)
		assert.Equal(t, Units(1000), table.Players()[0].Balance, "insurance covers the lost hand")
		assert.Zero(t, result.PlayerNet(0))
		assert.Contains(t, recorder.Types(), EventTypeInsuranceSettled)
	})

	t.Run("no dealer natural", func(t *testing.T) {
		t.Parallel()

		alice := NewScriptProvider(Stand).WithStakes(Units(10), Units(5))
		table, result, _ := playStacked(t, DefaultRules(), "Th As 9c 7d", alice)

		require.Len(t, result.Insurance, 1)
		assert.Zero(t, result.Insurance[0].Credit)
		assert.Equal(t, WonByHigher, result.Hands[0].Status)
		assert.Equal(t, Units(1005), table.Players()[0].Balance)
	})

	t.Run("over half the stake is rejected", func(t *testing.T) {
		t.Parallel()

		alice := NewScriptProvider(Stand).WithStakes(Units(10), Units(6), Units(5))
		_, result, _ := playStacked(t, DefaultRules(), "Th As 9c 7d", alice)

		require.Len(t, alice.Requests, 3)
		assert.Equal(t, Units(5), result.Insurance[0].Amount)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		rules := DefaultRules()
		rules.AllowInsurance = false
		alice := NewScriptProvider(Stand).WithStakes(Units(10), Units(5))
		_, result, _ := playStacked(t, rules, "Th As 9c 7d", alice)

		assert.Len(t, alice.Requests, 1)
		assert.Empty(t, result.Insurance)
	})
}

func TestPlayRoundNaturalAgainstAce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cards   string
		status  Status
		credit  Money
		balance Money
	}{
		// player A K, dealer A up then 9
		{"dealer makes 20", "Ah As Kh 9c", WonByHigher, Units(20), Units(1010)},
		{"dealer natural", "Ah As Kh Qc", Push, Units(10), Units(1000)},
		// dealer A 5 5
		{"dealer three card 21", "Ah As Kh 5c 5d", Push, Units(10), Units(1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			alice := NewScriptProvider().WithStakes(Units(10))
			table, result, recorder := playStacked(t, DefaultRules(), tt.cards, alice)

			assert.Empty(t, alice.Offered, "a natural is never prompted")
			require.Len(t, result.Hands, 1)
			assert.Equal(t, tt.status, result.Hands[0].Status)
			assert.Equal(t, tt.credit, result.Hands[0].Credit)
			assert.Equal(t, tt.balance, table.Players()[0].Balance)

			var perfect bool
			for _, e := range recorder.Events() {
				if s, ok := e.(HandStandingEvent); ok && s.Seat == 0 {
					perfect = s.Perfect
				}
			}
			assert.True(t, perfect, "the natural stands as a perfect hand")
		})
	}
}

func TestPlayRoundSplit(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Split, Stand, Stand).WithStakes(Units(10))
	table, recorder, err := NewStackedTable(DefaultRules(), "8h Td 8d Ts 9c 9h", alice)
	require.NoError(t, err)

	p := table.Players()[0]
	var equityAtSplit Money
	var splitStake Money
	table.eventBus.Subscribe(EventSubscriberFunc(func(e GameEvent) {
		if split, ok := e.(HandSplitEvent); ok {
			equityAtSplit = p.Balance + p.OpenStake()
			splitStake = split.Stake
		}
	}))

	result, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.NoError(t, table.ValidateConservation())

	assert.Equal(t, Units(1000), equityAtSplit, "a split does not change player equity")
	assert.Equal(t, Units(10), splitStake)

	hands := result.HandsFor(0)
	require.Len(t, hands, 2)
	var total Money
	for i, h := range hands {
		assert.Equal(t, i, h.SplitIndex)
		assert.Equal(t, LostByLower, h.Status)
		total += h.Stake
	}
	assert.Equal(t, Units(20), total, "sub-hand stakes sum to twice the original")
	assert.Equal(t, 18, hands[0].Value)
	assert.Equal(t, 17, hands[1].Value)
	assert.Equal(t, Units(980), p.Balance)
	assert.Contains(t, recorder.Types(), EventTypeHandSplit)

	// split is offered once per round by default
	for _, offered := range alice.Offered[1:] {
		assert.NotContains(t, offered, Split)
	}
}

func TestPlayRoundResplit(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.MaxSplits = 2
	alice := NewScriptProvider(Split, Split, Stand, Stand, Stand).WithStakes(Units(10))
	// 8 8, first sub-hand draws another 8 and splits again
	table, result, _ := playStacked(t, rules, "8h Td 8d 8s Ts 9s Kc 9h", alice)

	p := table.Players()[0]
	require.Len(t, p.Splits, 3)
	assert.Equal(t, "8h 10s", cardsString(p.Splits[0].Cards))
	assert.Equal(t, "8d Kc", cardsString(p.Splits[1].Cards))
	assert.Equal(t, "8s 9s", cardsString(p.Splits[2].Cards))
	for i, h := range p.Splits {
		assert.Equal(t, i, h.SplitIndex)
		assert.False(t, h.Active)
	}

	hands := result.HandsFor(0)
	require.Len(t, hands, 3)
	assert.Equal(t, Units(970), p.Balance)
	assert.Equal(t, Units(30), table.House())
}

func cardsString(cards []deck.Card) string {
	s := ""
	for i, c := range cards {
		if i > 0 {
			s += " "
		}
		s += c.Rank.String() + suitLetter(c.Suit)
	}
	return s
}

func suitLetter(s deck.Suit) string {
	return map[deck.Suit]string{deck.Hearts: "h", deck.Diamonds: "d", deck.Spades: "s", deck.Clubs: "c"}[s]
}

func TestPlayRoundSplitAcesDoNotPayBlackjack(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Split).WithStakes(Units(10))
	// A A split, each draws a ten; dealer 9 8
	table, result, _ := playStacked(t, DefaultRules(), "Ah 9d As Kc Qd 8s", alice)

	hands := result.HandsFor(0)
	require.Len(t, hands, 2)
	for _, h := range hands {
		assert.Equal(t, WonByHigher, h.Status)
		assert.Equal(t, Units(20), h.Credit)
	}
	assert.Equal(t, Units(1020), table.Players()[0].Balance)
	assert.Len(t, alice.Offered, 1, "sub-hands on 21 stand without a prompt")
}

func TestPlayRoundRejectsInvalidAction(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Split, DoubleDown, Stand).WithStakes(Units(10))
	_, result, _ := playStacked(t, DefaultRules(), "Th 9d 8c 8s", alice)

	assert.Len(t, alice.Offered, 3)
	assert.Zero(t, result.Abandoned)
	assert.Equal(t, WonByHigher, result.Hands[0].Status)
}

func TestPlayRoundAbandonment(t *testing.T) {
	t.Parallel()

	t.Run("attempts exhausted stands", func(t *testing.T) {
		t.Parallel()

		alice := NewScriptProvider(Split, Split, Split, Hit).WithStakes(Units(10))
		_, result, _ := playStacked(t, DefaultRules(), "Th 9d 8c 8s", alice)

		assert.Len(t, alice.Offered, 3)
		assert.Equal(t, 1, result.Abandoned)
		assert.Equal(t, 18, result.Hands[0].Value, "fallback stands instead of hitting")
	})

	t.Run("provider error surrenders", func(t *testing.T) {
		t.Parallel()

		rules := DefaultRules()
		rules.Abandon = AbandonSurrender
		rules.MinBet = Units(5)
		boom := ErrorProvider{Err: errors.New("disconnected")}
		table, result, _ := playStacked(t, rules, "Th 9d 8c 8s", boom)

		assert.Equal(t, 2, result.Abandoned)
		assert.Equal(t, Units(5), result.Hands[0].Stake, "abandoned stake resolves to the minimum")
		assert.Equal(t, Surrendered, result.Hands[0].Status)
		assert.Equal(t, Units(995), table.Players()[0].Balance)
	})

	t.Run("no provider", func(t *testing.T) {
		t.Parallel()

		_, result, _ := playStacked(t, DefaultRules(), "Th 9d 8c 8s", nil)
		assert.Equal(t, 2, result.Abandoned)
		assert.Equal(t, WonByHigher, result.Hands[0].Status)
		assert.Zero(t, result.Hands[0].Stake)
	})
}

func TestPlayRoundRejectsStakeOverBalance(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Stand).WithStakes(Units(5000), Units(10))
	_, result, _ := playStacked(t, DefaultRules(), "Th 9d 8c 8s", alice)

	assert.Len(t, alice.Requests, 2)
	assert.Equal(t, Units(10), result.Hands[0].Stake)
	assert.Zero(t, result.Abandoned)
}

func TestPlayRoundMinBetSitsOut(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.MinBet = Units(10)
	a := NewScriptProvider(Stand).WithStakes(Units(10))
	b := NewScriptProvider(Stand).WithStakes(Units(10))

	table, recorder, err := NewStackedTable(rules, "Th 9d 8c 8s", a, b)
	require.NoError(t, err)
	table.players[1].Balance = Units(5)
	table.startingTotal = Units(1005)

	result, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.NoError(t, table.ValidateConservation())

	assert.Equal(t, []int{1}, result.SittingOut)
	assert.True(t, table.Players()[1].SittingOut)
	assert.Empty(t, b.Requests)
	assert.Len(t, result.Hands, 1)
	assert.Contains(t, recorder.Types(), EventTypeRoundEnd)
}

func TestPlayRoundEmptyShoe(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Stand).WithStakes(Units(10))
	table, _, err := NewStackedTable(DefaultRules(), "Th 9d", alice)
	require.NoError(t, err)

	_, err = table.PlayRound(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, deck.ErrEmptyShoe))

	assert.Equal(t, Units(1000), table.Players()[0].Balance, "open stakes are refunded")
	assert.Zero(t, table.House())
	require.NoError(t, table.ValidateConservation())
}

func TestSettleHandIsIdempotent(t *testing.T) {
	t.Parallel()

	alice := NewScriptProvider(Stand).WithStakes(Units(10))
	table, result, _ := playStacked(t, DefaultRules(), "Th 6d 2c Ks 9h", alice)

	p := table.Players()[0]
	balance, house, settled := p.Balance, table.House(), len(result.Hands)

	table.SettleHand(p, p.Hand)
	table.SettleHand(p, p.Hand)

	assert.Equal(t, balance, p.Balance)
	assert.Equal(t, house, table.House())
	assert.Len(t, table.result.Hands, settled)
	assert.False(t, p.Hand.Active)
	assert.Zero(t, p.Hand.Stake)
}

func TestPayout(t *testing.T) {
	t.Parallel()

	full := DefaultRules()
	half := DefaultRules()
	half.Surrender = SurrenderHalf

	tests := []struct {
		status Status
		stake  Money
		rules  Rules
		want   Money
	}{
		{WonByDealerBust, Units(10), full, Units(20)},
		{WonByHigher, Units(10), full, Units(20)},
		{Blackjack, Units(10), full, Units(25)},
		{Blackjack, 101, full, 252}, // 101 + 151.5 truncated
		{Push, Units(10), full, Units(10)},
		{LostByLower, Units(10), full, 0},
		{Bust, Units(10), full, 0},
		{Surrendered, Units(10), full, 0},
		{Surrendered, Units(10), half, Units(5)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Payout(tt.status, tt.stake, tt.rules), "%s on %s", tt.status, tt.stake)
	}

	assert.Equal(t, Units(15), InsurancePayout(Units(5), true))
	assert.Zero(t, InsurancePayout(Units(5), false))
}

func TestCompareWithDealer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, WonByDealerBust, CompareWithDealer(12, 22))
	assert.Equal(t, LostByLower, CompareWithDealer(18, 20))
	assert.Equal(t, WonByHigher, CompareWithDealer(20, 18))
	assert.Equal(t, Push, CompareWithDealer(19, 19))
	assert.Equal(t, Bust, CompareWithDealer(23, 22))
}

func TestNewTableValidation(t *testing.T) {
	t.Parallel()

	rng := randutil.New(1)
	seat := SeatConfig{Name: "Alice", Provider: NewScriptProvider()}

	_, err := NewTable(rng, DefaultRules(), nil)
	assert.ErrorIs(t, err, ErrPlayerCount)

	seven := make([]SeatConfig, MaxPlayers+1)
	_, err = NewTable(rng, DefaultRules(), seven)
	assert.ErrorIs(t, err, ErrPlayerCount)

	bad := DefaultRules()
	bad.Decks = 0
	_, err = NewTable(rng, bad, []SeatConfig{seat})
	assert.ErrorIs(t, err, ErrInvalidRules)

	table, err := NewTable(rng, DefaultRules(), []SeatConfig{seat, {Provider: NewScriptProvider()}})
	require.NoError(t, err)
	assert.Equal(t, "Player 2", table.Players()[1].Name)
	assert.Equal(t, 6*52, table.Shoe().Size())

	assert.Panics(t, func() {
		_, _ = NewTable(nil, DefaultRules(), []SeatConfig{seat})
	})
}

// hitUnder17 mirrors the dealer so long sessions make progress
type hitUnder17 struct{}

func (hitUnder17) ChooseAction(_ context.Context, hand HandView, _ []Action) (Action, error) {
	if hand.Value < 17 {
		return Hit, nil
	}
	return Stand, nil
}

func (hitUnder17) ChooseStake(_ context.Context, min, max Money, req StakeRequest) (Money, error) {
	if req.Kind != StakeInitial {
		return min, nil
	}
	return Clamp(Units(10), min, max), nil
}

func TestMultiRoundSessionConservesMoney(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.Decks = 1
	rules.ReshuffleAt = 30

	seats := []SeatConfig{
		{Name: "A", Provider: hitUnder17{}},
		{Name: "B", Provider: hitUnder17{}},
		{Name: "C", Provider: hitUnder17{}},
	}
	recorder := &EventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	table, err := NewTable(randutil.New(2024), rules, seats, WithEventBus(bus))
	require.NoError(t, err)

	ctx := context.Background()
	for range 60 {
		_, err := table.PlayRound(ctx)
		require.NoError(t, err)
	}
	require.NoError(t, table.ValidateConservation())
	assert.Equal(t, 60, table.Round())

	reshuffles := 0
	for _, e := range recorder.Events() {
		if start, ok := e.(RoundStartEvent); ok && start.Reshuffled {
			reshuffles++
		}
	}
	assert.Positive(t, reshuffles, "a single deck must be rebuilt during 60 rounds")
}

func TestPlayRoundCancelledContext(t *testing.T) {
	t.Parallel()

	table, _, err := NewStackedTable(DefaultRules(), "Th 9d 8c 8s", NewScriptProvider())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = table.PlayRound(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, table.Round())
}
