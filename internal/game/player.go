package game

import "github.com/Mat-thias/BlackJack/internal/deck"

// Player is a seated player: a balance, a primary hand, and the sub-hands
// created by splitting it.
type Player struct {
	Seat     int
	Name     string
	Balance  Money
	Hand     *Hand
	Splits   []*Hand // ordered by split index; empty until the first split
	Provider DecisionProvider

	Insurance  Money
	SittingOut bool

	splits int // split events this round
}

// NewPlayer creates a player with an empty primary hand
func NewPlayer(seat int, name string, balance Money, provider DecisionProvider) *Player {
	return &Player{
		Seat:     seat,
		Name:     name,
		Balance:  balance,
		Hand:     NewHand(seat, NoSplit),
		Provider: provider,
	}
}

// IsSplit returns true once the primary hand has been split
func (p *Player) IsSplit() bool {
	return len(p.Splits) > 0
}

// Hands returns the hands in play: the split sub-hands in index order
// after a split, otherwise the primary hand.
func (p *Player) Hands() []*Hand {
	if p.IsSplit() {
		return p.Splits
	}
	return []*Hand{p.Hand}
}

// OpenStake returns the stakes still at risk on unsettled hands plus any
// insurance
func (p *Player) OpenStake() Money {
	total := p.Insurance
	for _, h := range p.Hands() {
		if h.Active {
			total += h.Stake
		}
	}
	return total
}

// placeSplit stores a sub-hand at its index, overwriting the hand it
// replaces or appending a new slot.
func (p *Player) placeSplit(h *Hand) {
	if h.SplitIndex < len(p.Splits) {
		p.Splits[h.SplitIndex] = h
		return
	}
	p.Splits = append(p.Splits, h)
}

func (p *Player) resetRound() {
	p.Hand = NewHand(p.Seat, NoSplit)
	p.Splits = nil
	p.splits = 0
	p.Insurance = 0
	p.SittingOut = false
}

// Dealer holds the house hand and plays a fixed policy
type Dealer struct {
	Hand *Hand
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{Hand: NewHand(DealerSeat, NoSplit)}
}

// UpCard returns the dealer's first card
func (d *Dealer) UpCard() (deck.Card, bool) {
	if len(d.Hand.Cards) == 0 {
		return deck.Card{}, false
	}
	return d.Hand.Cards[0], true
}

// ShouldDraw reports whether the dealer takes another card. There is no
// soft-17 distinction.
func (d *Dealer) ShouldDraw(standsOn int) bool {
	return d.Hand.Value() < standsOn
}

// HasNatural returns true when the dealer's final hand is a two-card 21
func (d *Dealer) HasNatural() bool {
	return IsBlackjack(d.Hand.Cards)
}

func (d *Dealer) resetRound() {
	d.Hand = NewHand(DealerSeat, NoSplit)
}
