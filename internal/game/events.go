package game

import (
	"time"

	"github.com/Mat-thias/BlackJack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for table events. Renderers subscribe to these; the
// engine itself never formats output.
const (
	EventTypeRoundStart       EventType = "round_start"
	EventTypeCardDrawn        EventType = "card_drawn"
	EventTypeHandStanding     EventType = "hand_standing"
	EventTypeHandBust         EventType = "hand_bust"
	EventTypeHandSurrendered  EventType = "hand_surrendered"
	EventTypeHandSplit        EventType = "hand_split"
	EventTypeDoubleDown       EventType = "double_down"
	EventTypeInsurancePlaced  EventType = "insurance_placed"
	EventTypeInsuranceSettled EventType = "insurance_settled"
	EventTypePayoutApplied    EventType = "payout_applied"
	EventTypeRoundEnd         EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type eventTime struct {
	at time.Time
}

func (e eventTime) Timestamp() time.Time { return e.at }

// RoundStartEvent is published before stakes are taken
type RoundStartEvent struct {
	eventTime
	Round         int
	Players       []string
	ShoeRemaining int
	Reshuffled    bool
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// CardDrawnEvent is published for every card leaving the shoe
type CardDrawnEvent struct {
	eventTime
	Seat       int // DealerSeat for the dealer
	SplitIndex int
	Card       deck.Card
	Value      int // hand value after the draw
}

func (e CardDrawnEvent) EventType() EventType { return EventTypeCardDrawn }

// HandStandingEvent is published when a hand stands
type HandStandingEvent struct {
	eventTime
	Seat       int
	SplitIndex int
	Value      int
	Perfect    bool
}

func (e HandStandingEvent) EventType() EventType { return EventTypeHandStanding }

// HandBustEvent is published when a hand goes over 21
type HandBustEvent struct {
	eventTime
	Seat       int
	SplitIndex int
	Value      int
}

func (e HandBustEvent) EventType() EventType { return EventTypeHandBust }

// HandSurrenderedEvent is published when a player surrenders a hand
type HandSurrenderedEvent struct {
	eventTime
	Seat       int
	SplitIndex int
}

func (e HandSurrenderedEvent) EventType() EventType { return EventTypeHandSurrendered }

// HandSplitEvent is published when a hand is split into two sub-hands
type HandSplitEvent struct {
	eventTime
	Seat      int
	FromIndex int // NoSplit when the primary hand was split
	Indices   [2]int
	Stake     Money // stake on each new hand
}

func (e HandSplitEvent) EventType() EventType { return EventTypeHandSplit }

// DoubleDownEvent is published when a stake is doubled
type DoubleDownEvent struct {
	eventTime
	Seat       int
	SplitIndex int
	Added      Money
	Stake      Money
}

func (e DoubleDownEvent) EventType() EventType { return EventTypeDoubleDown }

// InsurancePlacedEvent is published when a player takes insurance
type InsurancePlacedEvent struct {
	eventTime
	Seat   int
	Amount Money
}

func (e InsurancePlacedEvent) EventType() EventType { return EventTypeInsurancePlaced }

// InsuranceSettledEvent is published when an insurance bet is resolved
type InsuranceSettledEvent struct {
	eventTime
	Seat          int
	Amount        Money
	Credit        Money
	DealerNatural bool
}

func (e InsuranceSettledEvent) EventType() EventType { return EventTypeInsuranceSettled }

// PayoutAppliedEvent is published when a hand is settled
type PayoutAppliedEvent struct {
	eventTime
	Seat       int
	SplitIndex int
	Reason     Status
	Stake      Money
	Amount     Money // credited back to the player
	Net        Money // Amount minus Stake
}

func (e PayoutAppliedEvent) EventType() EventType { return EventTypePayoutApplied }

// RoundEndEvent is published after settlement
type RoundEndEvent struct {
	eventTime
	Result RoundResult
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }
