package game

import (
	"fmt"
	"strings"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/internal/scoring"
	"github.com/lox/jokerforbots/joker"
)

// TrickRecord is one completed trick with full joker context.
type TrickRecord struct {
	Number int
	Cards  []rules.PlayedTrickCard
	Winner int
}

// DealRecord is the history of one round.
type DealRecord struct {
	Block        rules.Block
	RoundInBlock int
	RoundNumber  int
	Dealer       int
	TrumpCard    *joker.Card
	Trump        *joker.Suit
	Tricks       []TrickRecord
	Results      []scoring.RoundResult
	Totals       []int
}

// History records every deal of a game from its events, for exporters and
// post-game analysis. It is append-only; nothing is replayed into a game.
type History struct {
	GameID    string
	Deals     []DealRecord
	Blocks    []scoring.BlockResult
	Standings []Standing

	pending []TrickRecord
}

// NewHistory creates an empty history. Subscribe it to a game's event bus.
func NewHistory() *History {
	return &History{}
}

// OnEvent implements EventSubscriber
func (h *History) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case TrickCompletedEvent:
		h.GameID = e.GameID
		h.pending = append(h.pending, TrickRecord{
			Number: e.TrickNumber,
			Cards:  e.Cards,
			Winner: e.Winner,
		})
	case RoundCompletedEvent:
		h.GameID = e.GameID
		h.Deals = append(h.Deals, DealRecord{
			Block:        e.Block,
			RoundInBlock: e.RoundInBlock,
			RoundNumber:  e.RoundNumber,
			Dealer:       e.Dealer,
			TrumpCard:    e.TrumpCard,
			Trump:        e.Trump,
			Tricks:       h.pending,
			Results:      e.Results,
			Totals:       e.Totals,
		})
		h.pending = nil
	case BlockCompletedEvent:
		h.Blocks = append(h.Blocks, e.Result)
	case GameCompletedEvent:
		h.Standings = e.Standings
	}
}

// IsComplete reports whether the game ended.
func (h *History) IsComplete() bool {
	return h.Standings != nil
}

// Summary renders the history as plain text.
func (h *History) Summary(names []string) string {
	name := func(seat int) string {
		if seat >= 0 && seat < len(names) {
			return names[seat]
		}
		return fmt.Sprintf("seat %d", seat)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Game %s\n", h.GameID)
	for _, d := range h.Deals {
		trump := "no trump"
		if d.Trump != nil {
			trump = "trump " + d.Trump.String()
		}
		fmt.Fprintf(&sb, "\nBlock %d round %d: %d cards, dealer %s, %s\n",
			int(d.Block), d.RoundInBlock+1, len(d.Tricks), name(d.Dealer), trump)
		for _, t := range d.Tricks {
			parts := make([]string, len(t.Cards))
			for i, pc := range t.Cards {
				parts[i] = pc.String()
			}
			fmt.Fprintf(&sb, "  trick %d: %s -> %s\n", t.Number+1, strings.Join(parts, " "), name(t.Winner))
		}
		for seat, r := range d.Results {
			blind := ""
			if r.IsBlind {
				blind = " blind"
			}
			fmt.Fprintf(&sb, "  %s bid %d%s took %d: %+d (total %d)\n",
				name(seat), r.Bid, blind, r.TricksTaken, r.Score(), d.Totals[seat])
		}
	}
	for _, b := range h.Blocks {
		fmt.Fprintf(&sb, "\nBlock %d settled: premium %v", int(b.Block), b.PremiumPlayers)
		for _, p := range b.Penalties {
			fmt.Fprintf(&sb, ", %s", p)
		}
		sb.WriteString("\n")
	}
	if h.IsComplete() {
		sb.WriteString("\nFinal standings\n")
		for _, s := range h.Standings {
			fmt.Fprintf(&sb, "  %d. %s %d\n", s.Rank, s.Name, s.Score)
		}
	}
	return sb.String()
}
