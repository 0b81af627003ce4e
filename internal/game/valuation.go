package game

import "github.com/Mat-thias/BlackJack/internal/deck"

const (
	// BlackjackValue is the best possible hand value
	BlackjackValue = 21

	aceHigh = 11
	aceLow  = 1
)

// CardValue returns the value of a rank. An ace returns 11 as a candidate;
// HandValue decides whether it counts high or low.
func CardValue(rank deck.Rank) int {
	switch {
	case rank == deck.Ace:
		return aceHigh
	case rank.IsFace():
		return 10
	default:
		return int(rank)
	}
}

// HandValue returns the best total for cards. Every ace but the last counts
// 1; the last ace counts 11 when that keeps the total at or under 21. At
// most one ace is ever high, so ace order does not change the result.
func HandValue(cards []deck.Card) int {
	value, _ := valuate(cards)
	return value
}

// IsSoft returns true when an ace in the hand is being counted as 11
func IsSoft(cards []deck.Card) bool {
	_, soft := valuate(cards)
	return soft
}

// IsBust returns true when value exceeds 21
func IsBust(value int) bool {
	return value > BlackjackValue
}

// IsBlackjack returns true for a two-card 21. Only meaningful on the
// initial deal.
func IsBlackjack(cards []deck.Card) bool {
	return len(cards) == 2 && HandValue(cards) == BlackjackValue
}

func valuate(cards []deck.Card) (int, bool) {
	total, aces := 0, 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
			continue
		}
		total += CardValue(c.Rank)
	}

	if aces == 0 {
		return total, false
	}

	total += (aces - 1) * aceLow
	if total+aceHigh <= BlackjackValue {
		return total + aceHigh, true
	}
	return total + aceLow, false
}
