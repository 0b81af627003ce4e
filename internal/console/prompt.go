package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/Mat-thias/BlackJack/internal/game"
)

// Prompt is a game.DecisionProvider that asks a person at the terminal.
// Unparseable or out-of-range input is reported and asked again. Closing
// the input or typing "quit" returns io.EOF, which the table treats as an
// abandoned decision; every later prompt fails the same way.
//
// A single goroutine owns the input, so a prompt abandoned through its
// context (for example by game.WithTimeout) never steals the next answer.
type Prompt struct {
	lines   chan string
	readErr error // set before lines is closed
	out     io.Writer
	styles  Styles

	mu      sync.Mutex // one question at a time
	pending *string    // line read by a prompt that was cancelled meanwhile
	closed  bool
}

// NewPrompt creates a prompt reading lines from in and writing to out
func NewPrompt(in io.Reader, out io.Writer, color bool) *Prompt {
	p := &Prompt{
		lines:  make(chan string),
		out:    out,
		styles: NewStyles(out, color),
	}
	go p.read(in)
	return p
}

func (p *Prompt) read(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	p.readErr = scanner.Err()
	close(p.lines)
}

// ChooseAction implements game.DecisionProvider
func (p *Prompt) ChooseAction(ctx context.Context, hand game.HandView, actions []game.Action) (game.Action, error) {
	codes := make([]string, len(actions))
	for i, a := range actions {
		codes[i] = fmt.Sprintf("%s=%s", a.Code(), a)
	}

	soft := ""
	if hand.Soft {
		soft = " soft"
	}
	name := hand.PlayerName
	if hand.SplitIndex != game.NoSplit {
		name += fmt.Sprintf(" (hand %d)", hand.SplitIndex+1)
	}
	fmt.Fprintf(p.out, "%s: %s (%d%s) against dealer %s, stake %s\n",
		p.styles.Player.Render(name), cardList(hand.Cards), hand.Value, soft, hand.DealerUpCard, hand.Stake)

	for {
		line, err := p.ask(ctx, strings.Join(codes, "  ")+" > ")
		if err != nil {
			return game.Stand, err
		}

		action, err := game.ParseAction(line)
		if err != nil {
			p.reject(err)
			continue
		}
		if !slices.Contains(actions, action) {
			p.reject(fmt.Errorf("%s is not available", action))
			continue
		}
		return action, nil
	}
}

// ChooseStake implements game.DecisionProvider. An empty answer takes the
// minimum for side bets and doubles; the opening bet must be typed.
func (p *Prompt) ChooseStake(ctx context.Context, min, max game.Money, req game.StakeRequest) (game.Money, error) {
	var question string
	switch req.Kind {
	case game.StakeInitial:
		question = fmt.Sprintf("%s, balance %s. Bet (%s to %s) > ", req.PlayerName, req.Balance, min, max)
	case game.StakeDoubleDown:
		question = fmt.Sprintf("%s, add to your %s stake (up to %s) > ", req.PlayerName, req.Stake, max)
	case game.StakeInsurance:
		question = fmt.Sprintf("%s, dealer shows %s. Insurance (up to %s, blank for none) > ", req.PlayerName, req.DealerUpCard, max)
	}

	for {
		line, err := p.ask(ctx, question)
		if err != nil {
			return min, err
		}

		if line == "" {
			if req.Kind == game.StakeInitial {
				p.reject(errors.New("enter an amount"))
				continue
			}
			return min, nil
		}

		amount, err := game.ParseMoney(line)
		if err != nil {
			p.reject(err)
			continue
		}
		if amount < min || amount > max {
			p.reject(fmt.Errorf("amount must be between %s and %s", min, max))
			continue
		}
		return amount, nil
	}
}

// Closed reports whether the player has left the table
func (p *Prompt) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Prompt) ask(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.closed {
		return "", io.EOF
	}

	fmt.Fprint(p.out, p.styles.Prompt.Render(question))

	var raw string
	if p.pending != nil {
		raw, p.pending = *p.pending, nil
	} else {
		select {
		case line, ok := <-p.lines:
			if !ok {
				p.closed = true
				if p.readErr != nil {
					return "", p.readErr
				}
				return "", io.EOF
			}
			if err := ctx.Err(); err != nil {
				p.pending = &line
				return "", err
			}
			raw = line
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	line := strings.TrimSpace(raw)
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		p.closed = true
		return "", io.EOF
	}
	return line, nil
}

func (p *Prompt) reject(err error) {
	fmt.Fprintln(p.out, p.styles.Error.Render("  "+err.Error()))
}
