package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/joker"
)

// firstLegalAgent always takes the first legal option.
type firstLegalAgent struct{}

func (firstLegalAgent) ChooseTrump(RoundView) *joker.Suit { return nil }

func (firstLegalAgent) ChooseBid(view BidView) BidDecision {
	return BidDecision{Value: view.AllowedBids[0], Reasoning: "first legal"}
}

func (firstLegalAgent) ChoosePlay(view PlayView) PlayDecision {
	return firstLegalPlay(view.LegalCards, len(view.Trick) == 0)
}

// blindAgent bids blind whenever it may, otherwise like firstLegalAgent.
type blindAgent struct {
	firstLegalAgent
}

func (blindAgent) ChooseBid(view BidView) BidDecision {
	if view.PreDeal {
		if !view.CanBlind {
			return BidDecision{}
		}
		return BidDecision{Value: view.AllowedBids[len(view.AllowedBids)-1], Blind: true}
	}
	return BidDecision{Value: view.AllowedBids[0]}
}

// illegalAgent answers with decisions the game must reject.
type illegalAgent struct{}

func (illegalAgent) ChooseTrump(RoundView) *joker.Suit {
	s := joker.Suit(9)
	return &s
}

func (illegalAgent) ChooseBid(view BidView) BidDecision {
	return BidDecision{Value: view.CardsInRound + 1}
}

func (illegalAgent) ChoosePlay(view PlayView) PlayDecision {
	return PlayDecision{Card: joker.NewCard(joker.Hearts, joker.Ace), Style: rules.FaceDown}
}

func firstLegalPlay(legal []joker.Card, leading bool) PlayDecision {
	card := legal[0]
	d := PlayDecision{Card: card}
	if card.IsJoker() {
		opt := rules.JokerOptions(leading)[0]
		d.Style = opt.Style
		d.Declaration = opt.Declaration
	}
	return d
}

// eventRecorder collects every published event.
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) count(et EventType) int {
	n := 0
	for _, e := range r.events {
		if e.EventType() == et {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T, players int, opts ...Option) (*Game, *eventRecorder) {
	t.Helper()
	names := []string{"Ann", "Bo", "Cy", "Di"}[:players]
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	base := []Option{
		WithRandSource(joker.NewSeededSource(42)),
		WithClock(quartz.NewMock(t)),
		WithEventBus(bus),
		WithGameID("test-game"),
	}
	g, err := NewGame(names, append(base, opts...)...)
	require.NoError(t, err)
	return g, rec
}

// bidAll declines every blind bid, then places the first allowed bid for
// every seat, choosing no trump when asked.
func bidAll(t *testing.T, g *Game) {
	t.Helper()
	for g.Phase() == PhaseBlindBidding {
		require.NoError(t, g.DeclineBlind(g.CurrentPlayer()))
	}
	if g.NeedsTrumpChoice() {
		require.NoError(t, g.ChooseTrump(g.CurrentPlayer(), nil))
	}
	for g.Phase() == PhaseBidding {
		seat := g.CurrentPlayer()
		require.NoError(t, g.PlaceBid(seat, g.AllowedBids(seat)[0], false))
	}
}

// playRound plays every trick of the round with first legal cards and
// scores it.
func playRound(t *testing.T, g *Game) {
	t.Helper()
	for g.TricksPlayed() < g.CardsInRound() {
		for range g.PlayerCount() {
			seat := g.CurrentPlayer()
			d := firstLegalPlay(g.LegalCards(seat), len(g.Trick()) == 0)
			require.NoError(t, g.PlayCard(seat, d.Card, d.Style, d.Declaration))
		}
		_, err := g.ResolveTrick()
		require.NoError(t, err)
	}
	require.NoError(t, g.CompleteRound())
}

// advanceToBlock plays whole rounds until block b is being bid.
func advanceToBlock(t *testing.T, g *Game, b rules.Block) {
	t.Helper()
	for g.Block() != b {
		bidAll(t, g)
		playRound(t, g)
		require.NoError(t, g.StartNewRound())
	}
}
