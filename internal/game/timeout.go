package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
)

// ErrDecisionTimeout is returned when a provider does not answer in time.
// The table treats it as an abandoned decision.
var ErrDecisionTimeout = errors.New("decision timeout")

// TimeoutProvider bounds every decision of the wrapped provider
type TimeoutProvider struct {
	provider DecisionProvider
	timeout  time.Duration
	clock    quartz.Clock
}

// WithTimeout wraps provider so that each decision fails with
// ErrDecisionTimeout after timeout on clock. The wrapped provider sees a
// cancelled context when the timer fires.
func WithTimeout(provider DecisionProvider, timeout time.Duration, clock quartz.Clock) *TimeoutProvider {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &TimeoutProvider{provider: provider, timeout: timeout, clock: clock}
}

// ChooseAction implements DecisionProvider
func (tp *TimeoutProvider) ChooseAction(ctx context.Context, hand HandView, actions []Action) (Action, error) {
	return runTimed(ctx, tp, func(ctx context.Context) (Action, error) {
		return tp.provider.ChooseAction(ctx, hand, actions)
	})
}

// ChooseStake implements DecisionProvider
func (tp *TimeoutProvider) ChooseStake(ctx context.Context, min, max Money, req StakeRequest) (Money, error) {
	return runTimed(ctx, tp, func(ctx context.Context) (Money, error) {
		return tp.provider.ChooseStake(ctx, min, max, req)
	})
}

type timedResult[T any] struct {
	value T
	err   error
}

func runTimed[T any](ctx context.Context, tp *TimeoutProvider, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timeoutFired := make(chan struct{})
	timer := tp.clock.AfterFunc(tp.timeout, func() {
		close(timeoutFired)
	})
	defer timer.Stop()

	done := make(chan timedResult[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- timedResult[T]{value: v, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		return res.value, res.err
	case <-timeoutFired:
		return zero, fmt.Errorf("%w after %s", ErrDecisionTimeout, tp.timeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
