package game

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/Mat-thias/BlackJack/internal/randutil"
	"github.com/charmbracelet/log"
)

// ScriptProvider answers decisions from fixed queues. When a queue runs
// dry it stands and stakes the minimum. Every call is recorded.
type ScriptProvider struct {
	mu      sync.Mutex
	actions []Action
	stakes  []Money

	Views    []HandView
	Offered  [][]Action
	Requests []StakeRequest
}

// NewScriptProvider creates a provider that plays actions in order
func NewScriptProvider(actions ...Action) *ScriptProvider {
	return &ScriptProvider{actions: actions}
}

// WithStakes queues stake answers in order
func (s *ScriptProvider) WithStakes(stakes ...Money) *ScriptProvider {
	s.stakes = append(s.stakes, stakes...)
	return s
}

// ChooseAction implements DecisionProvider
func (s *ScriptProvider) ChooseAction(_ context.Context, hand HandView, actions []Action) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Views = append(s.Views, hand)
	s.Offered = append(s.Offered, actions)
	if len(s.actions) == 0 {
		return Stand, nil
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

// ChooseStake implements DecisionProvider
func (s *ScriptProvider) ChooseStake(_ context.Context, min, _ Money, req StakeRequest) (Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if len(s.stakes) == 0 {
		return min, nil
	}
	m := s.stakes[0]
	s.stakes = s.stakes[1:]
	return m, nil
}

// ErrorProvider fails every decision with Err
type ErrorProvider struct {
	Err error
}

// ChooseAction implements DecisionProvider
func (e ErrorProvider) ChooseAction(context.Context, HandView, []Action) (Action, error) {
	return Stand, e.Err
}

// ChooseStake implements DecisionProvider
func (e ErrorProvider) ChooseStake(context.Context, Money, Money, StakeRequest) (Money, error) {
	return 0, e.Err
}

// EventRecorder collects published events
type EventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

// OnEvent implements EventSubscriber
func (r *EventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns the recorded events in publish order
func (r *EventRecorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]GameEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in publish order
func (r *EventRecorder) Types() []EventType {
	events := r.Events()
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

// NewStackedTable creates a table dealing cards in the given compact
// notation, for exact scenarios in tests
func NewStackedTable(rules Rules, cards string, providers ...DecisionProvider) (*Table, *EventRecorder, error) {
	seats := make([]SeatConfig, len(providers))
	for i, p := range providers {
		seats[i] = SeatConfig{Name: fmt.Sprintf("Player %d", i+1), Provider: p}
	}

	recorder := &EventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	table, err := NewTable(randutil.New(42), rules, seats,
		WithShoe(deck.NewStackedShoe(deck.MustParseCards(cards)...)),
		WithEventBus(bus),
		WithLogger(log.New(io.Discard)),
	)
	return table, recorder, err
}
