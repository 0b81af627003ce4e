package game

// Status is the lifecycle state of a hand
type Status int

const (
	InPlay Status = iota
	Standing
	Bust
	Surrendered
	Push
	WonByDealerBust
	WonByHigher
	LostByLower
	Blackjack
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case InPlay:
		return "IN_PLAY"
	case Standing:
		return "STANDING"
	case Bust:
		return "BUST"
	case Surrendered:
		return "SURRENDERED"
	case Push:
		return "PUSH"
	case WonByDealerBust:
		return "WON_BY_DEALER_BUST"
	case WonByHigher:
		return "WON_BY_HIGHER"
	case LostByLower:
		return "LOST_BY_LOWER"
	case Blackjack:
		return "BLACKJACK"
	default:
		return "UNKNOWN"
	}
}

// IsWin returns true for statuses that pay out more than the stake
func (s Status) IsWin() bool {
	return s == WonByDealerBust || s == WonByHigher || s == Blackjack
}

// IsLoss returns true for statuses that forfeit the stake
func (s Status) IsLoss() bool {
	return s == Bust || s == Surrendered || s == LostByLower
}

// IsResolved returns true once the status is a settlement outcome
func (s Status) IsResolved() bool {
	return s != InPlay && s != Standing
}
