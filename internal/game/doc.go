// Package game implements the blackjack table engine.
//
// The main type is Table, which owns the shoe, the dealer and up to six
// seated players, and plays one round at a time: opening stakes, the deal,
// the insurance offer, player turns, the dealer turn and settlement.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	table, err := game.NewTable(rng, game.DefaultRules(), []game.SeatConfig{
//	    {Name: "Alice", Provider: alice},
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := table.PlayRound(ctx)
//
// # Decisions
//
// Every choice a player makes goes through a DecisionProvider: either one
// of the offered actions or a stake within bounds. Answers outside the
// offer are rejected and asked again; provider errors and timeouts (see
// WithTimeout) are resolved by Rules.Abandon.
//
// # Deterministic Testing
//
// Use a seeded RNG for reproducible shoes, or a stacked shoe for exact
// scenarios:
//
//	shoe := deck.NewStackedShoe(deck.MustParseCards("Th Ks As 9c")...)
//	table, _ := game.NewTable(rng, rules, seats, game.WithShoe(shoe))
//
// Cards are dealt one to each player, one to the dealer, then a second to
// each player. The dealer's second card is drawn in the dealer turn.
//
// # Money
//
// Amounts are whole cents. Every stake moves from the player's balance to
// the house and every credit moves back, so balances plus the house take
// always equal the starting total (see Table.ValidateConservation).
package game
