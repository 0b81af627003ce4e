package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// DefaultDecks is the number of 52-card decks in a standard shoe
const DefaultDecks = 6

// ErrEmptyShoe is returned when drawing from a shoe with no cards left
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe holds one or more shuffled decks. Cards leave from the top and are
// recorded in the drawn pile; they never go back into the shoe.
type Shoe struct {
	cards []Card
	next  int
	drawn []Card
	decks int
}

// NewShoe creates a shoe of numDecks full decks shuffled with rng.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if numDecks < 1 {
		numDecks = 1
	}

	s := &Shoe{
		cards: make([]Card, 0, numDecks*NumSuits*NumRanks),
		decks: numDecks,
	}
	for range numDecks {
		for suit := Hearts; suit <= Clubs; suit++ {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}

	// Fisher-Yates
	for i := len(s.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}

	return s
}

// NewStackedShoe creates an unshuffled shoe; the first card is drawn first.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{cards: stacked}
}

// Draw removes and returns the top card of the shoe
func (s *Shoe) Draw() (Card, error) {
	if s.next >= len(s.cards) {
		return Card{}, fmt.Errorf("draw after %d cards: %w", len(s.drawn), ErrEmptyShoe)
	}

	card := s.cards[s.next]
	s.next++
	s.drawn = append(s.drawn, card)
	return card, nil
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.next
}

// Size returns the number of cards the shoe was built with
func (s *Shoe) Size() int {
	return len(s.cards)
}

// Decks returns the number of decks, zero for a stacked shoe
func (s *Shoe) Decks() int {
	return s.decks
}

// Drawn returns a copy of the cards drawn so far, in draw order
func (s *Shoe) Drawn() []Card {
	out := make([]Card, len(s.drawn))
	copy(out, s.drawn)
	return out
}
