package bot

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/Mat-thias/BlackJack/internal/game"
	"github.com/Mat-thias/BlackJack/internal/randutil"
)

var allActions = []game.Action{game.Stand, game.Hit, game.DoubleDown, game.Split, game.Surrender}

func view(cards string, up string) game.HandView {
	hand := deck.MustParseCards(cards)
	upCard := deck.MustParseCards(up)[0]
	return game.HandView{
		Cards:        hand,
		Value:        game.HandValue(hand),
		Soft:         game.IsSoft(hand),
		DealerUpCard: upCard,
	}
}

func TestNewKnownStrategies(t *testing.T) {
	t.Parallel()

	logger := log.New(io.Discard)
	for _, name := range Strategies() {
		p, err := New(name, randutil.New(1), logger, game.Units(10))
		require.NoError(t, err, name)
		require.NotNil(t, p, name)
	}

	_, err := New("counting", nil, logger, game.Units(10))
	assert.Error(t, err)

	_, err = New(StrategyRandom, nil, logger, game.Units(10))
	assert.Error(t, err)

	assert.Equal(t, []string{"basic", "dealer", "random", "stand"}, Strategies())
}

func TestFlatStakes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewStandBot(log.New(io.Discard), game.Units(25))

	amount, err := b.ChooseStake(ctx, 0, game.Units(1000), game.StakeRequest{Kind: game.StakeInitial})
	require.NoError(t, err)
	assert.Equal(t, game.Units(25), amount)

	amount, err = b.ChooseStake(ctx, 0, game.Units(10), game.StakeRequest{Kind: game.StakeInitial})
	require.NoError(t, err)
	assert.Equal(t, game.Units(10), amount, "capped by the balance")

	amount, err = b.ChooseStake(ctx, 0, game.Units(5), game.StakeRequest{Kind: game.StakeInsurance})
	require.NoError(t, err)
	assert.Zero(t, amount)

	amount, err = b.ChooseStake(ctx, 0, game.Units(25), game.StakeRequest{Kind: game.StakeDoubleDown})
	require.NoError(t, err)
	assert.Equal(t, game.Units(25), amount)
}

func TestDealerBot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewDealerBot(log.New(io.Discard), game.Units(10))

	a, err := b.ChooseAction(ctx, view("Th6d", "7c"), allActions)
	require.NoError(t, err)
	assert.Equal(t, game.Hit, a)

	a, err = b.ChooseAction(ctx, view("Th7d", "7c"), allActions)
	require.NoError(t, err)
	assert.Equal(t, game.Stand, a)
}

func TestBasicBot(t *testing.T) {
	t.Parallel()

	b := NewBasicBot(log.New(io.Discard), game.Units(10))

	tests := []struct {
		name    string
		cards   string
		up      string
		actions []game.Action
		want    game.Action
	}{
		{"split eights", "8h8d", "Tc", allActions, game.Split},
		{"split aces", "AhAd", "6c", allActions, game.Split},
		{"never split tens", "ThKd", "6c", allActions, game.Stand},
		{"aces without split hit", "AhAd", "6c", []game.Action{game.Stand, game.Hit, game.Surrender}, game.Hit},
		{"double eleven", "6h5d", "Tc", allActions, game.DoubleDown},
		{"eleven after hit", "2h4d5c", "Tc", []game.Action{game.Stand, game.Hit, game.Surrender}, game.Hit},
		{"stand hard 13 v 6", "Th3d", "6c", allActions, game.Stand},
		{"hit hard 16 v 10", "Th6d", "Kc", allActions, game.Hit},
		{"hit 12 v 2", "Th2d", "2c", allActions, game.Hit},
		{"stand 12 v 4", "Th2d", "4c", allActions, game.Stand},
		{"double soft 17 v 4", "Ah6d", "4c", allActions, game.DoubleDown},
		{"soft 18 stands v 7", "Ah7d", "7c", allActions, game.Stand},
		{"soft 18 hits v 10", "Ah7d", "Tc", allActions, game.Hit},
		{"soft 18 v 5 without double", "Ah2d5c", "5c", []game.Action{game.Stand, game.Hit, game.Surrender}, game.Stand},
		{"stand 17", "Th7d", "Ac", allActions, game.Stand},
		{"hit 8", "5h3d", "6c", allActions, game.Hit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := b.ChooseAction(context.Background(), view(tt.cards, tt.up), tt.actions)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRandBotStaysInBounds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewRandBot(randutil.New(9), log.New(io.Discard), game.Units(10))
	offered := []game.Action{game.Stand, game.Hit, game.Surrender}

	for range 200 {
		a, err := b.ChooseAction(ctx, view("Th6d", "7c"), offered)
		require.NoError(t, err)
		assert.Contains(t, offered, a)

		amount, err := b.ChooseStake(ctx, 0, game.Units(5), game.StakeRequest{Kind: game.StakeInsurance})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, amount, game.Money(0))
		assert.LessOrEqual(t, amount, game.Units(5))
	}
}

func TestBotsPlayFullRounds(t *testing.T) {
	t.Parallel()

	logger := log.New(io.Discard)
	rng := randutil.New(77)
	seats := make([]game.SeatConfig, 0, len(Strategies()))
	for _, name := range Strategies() {
		p, err := New(name, rng, logger, game.Units(10))
		require.NoError(t, err)
		seats = append(seats, game.SeatConfig{Name: name, Provider: p})
	}

	table, err := game.NewTable(randutil.New(78), game.DefaultRules(), seats)
	require.NoError(t, err)

	for range 100 {
		res, err := table.PlayRound(context.Background())
		require.NoError(t, err)
		assert.Zero(t, res.Abandoned, "bots only answer with offered actions")
	}
	require.NoError(t, table.ValidateConservation())
}
