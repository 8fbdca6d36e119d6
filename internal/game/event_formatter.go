package game

import (
	"fmt"
	"strings"

	"github.com/lox/jokerforbots/internal/rules"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	Names      []string // seat names; seats are numbered when empty
	ShowTricks bool     // include every trick, not only round summaries
}

// EventFormatter provides centralized formatting for all game events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any event; the empty string means it is not shown.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case TrickCompletedEvent:
		if !ef.opts.ShowTricks {
			return ""
		}
		return ef.FormatTrick(e)
	case RoundCompletedEvent:
		return ef.FormatRound(e)
	case BlockCompletedEvent:
		return ef.FormatBlock(e)
	case GameCompletedEvent:
		return ef.FormatGame(e)
	default:
		return ""
	}
}

// FormatTrick formats a completed trick into a human-readable string
func (ef *EventFormatter) FormatTrick(event TrickCompletedEvent) string {
	return fmt.Sprintf("  trick %d: %s -> %s",
		event.TrickNumber+1, ef.formatTrickCards(event.Cards), ef.name(event.Winner))
}

// FormatRound formats a scored round into a human-readable string
func (ef *EventFormatter) FormatRound(event RoundCompletedEvent) string {
	var sb strings.Builder
	trump := "no trump"
	if event.Trump != nil {
		trump = "trump " + event.Trump.String()
	}
	cards := 0
	if len(event.Results) > 0 {
		cards = event.Results[0].CardsInRound
	}
	fmt.Fprintf(&sb, "Block %d round %d (%d cards, %s, dealer %s)",
		int(event.Block), event.RoundInBlock+1, cards, trump, ef.name(event.Dealer))
	for seat, r := range event.Results {
		blind := ""
		if r.IsBlind {
			blind = " blind"
		}
		fmt.Fprintf(&sb, "\n  %-10s bid %d%s, took %d: %+5d  total %d",
			ef.name(seat), r.Bid, blind, r.TricksTaken, r.Score(), event.Totals[seat])
	}
	return sb.String()
}

// FormatBlock formats a settled block into a human-readable string
func (ef *EventFormatter) FormatBlock(event BlockCompletedEvent) string {
	var sb strings.Builder
	res := event.Result
	fmt.Fprintf(&sb, "*** BLOCK %d (%s) SETTLED ***", int(res.Block), res.Block)
	for _, seat := range res.PremiumPlayers {
		fmt.Fprintf(&sb, "\n  premium: %s +%d", ef.name(seat), res.Bonuses[seat])
	}
	for _, p := range res.Penalties {
		fmt.Fprintf(&sb, "\n  penalty: %s -> %s -%d", ef.name(p.Source), ef.name(p.Target), p.Amount)
	}
	return sb.String()
}

// FormatGame formats the final scoreboard into a human-readable string
func (ef *EventFormatter) FormatGame(event GameCompletedEvent) string {
	var sb strings.Builder
	sb.WriteString("*** FINAL STANDINGS ***")
	for _, s := range event.Standings {
		fmt.Fprintf(&sb, "\n  %d. %-10s %d", s.Rank, s.Name, s.Score)
	}
	return sb.String()
}

func (ef *EventFormatter) formatTrickCards(cards []rules.PlayedTrickCard) string {
	parts := make([]string, len(cards))
	for i, pc := range cards {
		parts[i] = pc.String()
	}
	return strings.Join(parts, " ")
}

func (ef *EventFormatter) name(seat int) string {
	if seat >= 0 && seat < len(ef.opts.Names) {
		return ef.opts.Names[seat]
	}
	return fmt.Sprintf("seat %d", seat)
}
