// Package console renders table events for a terminal and reads human
// decisions from a line-oriented input.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mat-thias/BlackJack/internal/deck"
	"github.com/Mat-thias/BlackJack/internal/game"
)

// Renderer prints table events as they are published. Subscribe it to the
// table's event bus.
type Renderer struct {
	out    io.Writer
	styles Styles
	names  []string
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, styles: NewStyles(out, color)}
}

// OnEvent implements game.EventSubscriber
func (r *Renderer) OnEvent(event game.GameEvent) {
	s := r.styles
	switch e := event.(type) {
	case game.RoundStartEvent:
		r.names = e.Players
		title := fmt.Sprintf("Round %d", e.Round)
		if e.Reshuffled {
			title += " (new shoe)"
		}
		r.println("")
		r.println(s.Header.Render(title) + s.Info.Render(fmt.Sprintf("  %d cards in shoe", e.ShoeRemaining)))

	case game.CardDrawnEvent:
		r.println(fmt.Sprintf("%s draws %s %s", r.label(e.Seat, e.SplitIndex), r.card(e.Card), s.Info.Render(fmt.Sprintf("(%d)", e.Value))))

	case game.HandStandingEvent:
		if e.Perfect {
			r.println(fmt.Sprintf("%s has %s", r.label(e.Seat, e.SplitIndex), s.Win.Render("21")))
			return
		}
		r.println(fmt.Sprintf("%s stands on %d", r.label(e.Seat, e.SplitIndex), e.Value))

	case game.HandBustEvent:
		r.println(fmt.Sprintf("%s %s with %d", r.label(e.Seat, e.SplitIndex), s.Loss.Render("busts"), e.Value))

	case game.HandSurrenderedEvent:
		r.println(fmt.Sprintf("%s surrenders", r.label(e.Seat, e.SplitIndex)))

	case game.HandSplitEvent:
		r.println(fmt.Sprintf("%s splits into hands %d and %d at %s each", r.label(e.Seat, e.FromIndex), e.Indices[0]+1, e.Indices[1]+1, e.Stake))

	case game.DoubleDownEvent:
		r.println(fmt.Sprintf("%s doubles down, stake now %s", r.label(e.Seat, e.SplitIndex), e.Stake))

	case game.InsurancePlacedEvent:
		r.println(fmt.Sprintf("%s takes insurance for %s", r.label(e.Seat, game.NoSplit), e.Amount))

	case game.InsuranceSettledEvent:
		if e.Credit > 0 {
			r.println(fmt.Sprintf("%s insurance pays %s", r.label(e.Seat, game.NoSplit), s.Win.Render(e.Credit.String())))
		} else {
			r.println(fmt.Sprintf("%s insurance lost %s", r.label(e.Seat, game.NoSplit), s.Loss.Render(e.Amount.String())))
		}

	case game.PayoutAppliedEvent:
		r.println(fmt.Sprintf("%s %s %s", r.label(e.Seat, e.SplitIndex), describe(e.Reason), r.net(e.Net)))

	case game.RoundEndEvent:
		res := e.Result
		if len(res.DealerCards) > 0 {
			r.println(s.Info.Render(fmt.Sprintf("Dealer finished with %s (%d)", cardList(res.DealerCards), res.DealerValue)))
		}
	}
}

// RenderSummary prints a balance table for the players
func (r *Renderer) RenderSummary(players []*game.Player) {
	rows := make([]string, 0, len(players)+1)
	rows = append(rows, r.styles.Dealer.Render(fmt.Sprintf("%-16s %12s", "Player", "Balance")))
	for _, p := range players {
		line := fmt.Sprintf("%-16s %12s", p.Name, p.Balance)
		if p.SittingOut {
			line += r.styles.Info.Render(" sitting out")
		}
		rows = append(rows, line)
	}
	r.println(r.styles.Table.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (r *Renderer) label(seat, splitIndex int) string {
	if seat == game.DealerSeat {
		return r.styles.Dealer.Render("Dealer")
	}
	name := fmt.Sprintf("Player %d", seat+1)
	if seat >= 0 && seat < len(r.names) {
		name = r.names[seat]
	}
	if splitIndex != game.NoSplit {
		name += fmt.Sprintf(" (hand %d)", splitIndex+1)
	}
	return r.styles.Player.Render(name)
}

func (r *Renderer) card(c deck.Card) string {
	if c.IsRed() {
		return r.styles.RedCard.Render(c.String())
	}
	return r.styles.BlackCard.Render(c.String())
}

func (r *Renderer) net(m game.Money) string {
	switch {
	case m > 0:
		return r.styles.Win.Render("+" + m.String())
	case m < 0:
		return r.styles.Loss.Render(m.String())
	default:
		return r.styles.Push.Render(m.String())
	}
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}

func describe(status game.Status) string {
	switch status {
	case game.Blackjack:
		return "wins with blackjack"
	case game.WonByDealerBust:
		return "wins, dealer busts"
	case game.WonByHigher:
		return "beats the dealer"
	case game.LostByLower:
		return "loses to the dealer"
	case game.Push:
		return "pushes"
	case game.Bust:
		return "loses the bust hand"
	case game.Surrendered:
		return "gives up the hand"
	default:
		return strings.ToLower(status.String())
	}
}

func cardList(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
