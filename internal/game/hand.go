package game

import (
	"fmt"

	"github.com/Mat-thias/BlackJack/internal/deck"
)

const (
	// DealerSeat marks the dealer's hand
	DealerSeat = -1
	// NoSplit marks a hand that did not come from a split
	NoSplit = -1
)

// Hand is one set of cards with its stake and lifecycle status.
//
// Active is true while the hand is InPlay or Standing and unsettled.
// Settlement clears Active exactly once and zeroes Stake after crediting.
type Hand struct {
	Cards      []deck.Card
	Stake      Money
	Seat       int // DealerSeat for the dealer
	SplitIndex int // NoSplit unless created by a split
	Status     Status
	Active     bool
	Perfect    bool // stood automatically on a two-card 21
	Doubled    bool

	value int
}

// NewHand creates an empty active hand
func NewHand(seat, splitIndex int) *Hand {
	return &Hand{
		Seat:       seat,
		SplitIndex: splitIndex,
		Status:     InPlay,
		Active:     true,
	}
}

// AddCard appends a card and revalues the hand from scratch. A bust value
// moves the hand to Bust.
func (h *Hand) AddCard(c deck.Card) {
	h.Cards = append(h.Cards, c)
	h.value = HandValue(h.Cards)
	if IsBust(h.value) && h.Status == InPlay {
		h.Status = Bust
	}
}

// Value returns the current best total
func (h *Hand) Value() int {
	return h.value
}

// IsSoft returns true when an ace is counted as 11
func (h *Hand) IsSoft() bool {
	return IsSoft(h.Cards)
}

// IsDealer returns true for the dealer's hand
func (h *Hand) IsDealer() bool {
	return h.Seat == DealerSeat
}

// IsSplit returns true for a hand created by a split
func (h *Hand) IsSplit() bool {
	return h.SplitIndex != NoSplit
}

// CanAct returns true while the hand still takes decisions
func (h *Hand) CanAct() bool {
	return h.Active && h.Status == InPlay
}

// Label names the hand for logs and prompts, e.g. "Player 1 Hand 0"
func (h *Hand) Label() string {
	if h.IsDealer() {
		return "Dealer"
	}
	label := fmt.Sprintf("Player %d", h.Seat+1)
	if h.IsSplit() {
		label += fmt.Sprintf(" Hand %d", h.SplitIndex)
	}
	return label
}

// String returns the hand as "Player 1: A♠ 10♥ (21)"
func (h *Hand) String() string {
	s := h.Label() + ":"
	for _, c := range h.Cards {
		s += " " + c.String()
	}
	return fmt.Sprintf("%s (%d)", s, h.value)
}

// cardsCopy returns a copy safe to hand to providers and events
func (h *Hand) cardsCopy() []deck.Card {
	out := make([]deck.Card, len(h.Cards))
	copy(out, h.Cards)
	return out
}
