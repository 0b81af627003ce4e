package game

import (
	"fmt"
	"slices"
	"strings"
)

// Action is a player decision on a hand
type Action int

const (
	Stand Action = iota
	Hit
	DoubleDown
	Split
	Surrender
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case DoubleDown:
		return "double-down"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Code returns the two-letter console code for the action
func (a Action) Code() string {
	switch a {
	case Stand:
		return "ST"
	case Hit:
		return "HT"
	case DoubleDown:
		return "DD"
	case Split:
		return "SP"
	case Surrender:
		return "SU"
	default:
		return "??"
	}
}

// ParseAction accepts either the two-letter code or the action name
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "st", "stand":
		return Stand, nil
	case "ht", "hit":
		return Hit, nil
	case "dd", "double", "double-down":
		return DoubleDown, nil
	case "sp", "split":
		return Split, nil
	case "su", "surrender":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// AvailableActions lists the actions a player may take on a hand, in
// prompt order. It is recomputed before every prompt.
func AvailableActions(p *Player, h *Hand, rules Rules) []Action {
	if !h.CanAct() {
		return nil
	}

	value := h.Value()
	actions := make([]Action, 0, 5)

	if value <= BlackjackValue {
		actions = append(actions, Stand, Hit)
	}
	if len(h.Cards) == 2 && value <= 11 {
		actions = append(actions, DoubleDown)
	}
	if canSplit(p, h, rules) {
		actions = append(actions, Split)
	}
	if value <= BlackjackValue {
		actions = append(actions, Surrender)
	}

	return actions
}

func canSplit(p *Player, h *Hand, rules Rules) bool {
	if len(h.Cards) != 2 || h.Cards[0].Rank != h.Cards[1].Rank {
		return false
	}
	if p.splits >= rules.MaxSplits {
		return false
	}
	// the second sub-hand needs a matching stake
	return p.Balance >= h.Stake
}

func containsAction(actions []Action, a Action) bool {
	return slices.Contains(actions, a)
}
