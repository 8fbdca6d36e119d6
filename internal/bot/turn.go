package bot

import (
	"cmp"
	"math"
	"slices"

	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/internal/scoring"
	"github.com/lox/jokerforbots/joker"
)

// hypotheticalSeat marks a hypothetical card when testing who would win a trick.
const hypotheticalSeat = -1

// Candidate is one way to play a legal card, scored.
type Candidate struct {
	Card        joker.Card
	Style       rules.JokerStyle
	Declaration *rules.LeadDeclaration

	WinsNow         bool    // takes the trick against the cards already on the table
	WinProbability  float64 // chance of still holding the trick when it closes
	ProjectedTricks float64 // tricks expected at the end of the round
	ProjectedScore  int     // round score at the projected trick count
	Threat          float64 // value of the card for later tricks
	Utility         float64

	option int // position among the joker options, for ordering
}

// Decision returns the candidate as a game decision.
func (c Candidate) Decision() game.PlayDecision {
	return game.PlayDecision{Card: c.Card, Style: c.Style, Declaration: c.Declaration}
}

// TurnStrategy scores every legal play and picks the best one.
type TurnStrategy struct {
	profile Profile
	bidding *BiddingService
	rng     joker.RandSource
}

// NewTurnStrategy creates a turn strategy. rng only feeds the profile's noise
// and may be nil.
func NewTurnStrategy(p Profile, rng joker.RandSource) *TurnStrategy {
	return &TurnStrategy{profile: p, bidding: NewBiddingService(p), rng: rng}
}

// turnState is what every candidate of one decision shares.
type turnState struct {
	view      game.PlayView
	unseen    joker.CardSet
	draws     int // cards the seats still to act in this trick hold between them
	remaining int // tricks left in the round, the current one included
	need      int // tricks still needed to make the bid
}

func (ts *TurnStrategy) state(view game.PlayView) turnState {
	unseen := joker.FullCardSet()
	unseen.RemoveAll(view.Hand)
	unseen.RemoveAll(view.PlayedCards)

	remaining := view.CardsInRound - view.TricksPlayed
	followers := view.PlayerCount - len(view.Trick) - 1
	draws := max(followers, 0) * remaining
	draws = min(draws, unseen.Count())

	me := view.Me()
	return turnState{
		view:      view,
		unseen:    unseen,
		draws:     draws,
		remaining: remaining,
		need:      me.CurrentBid - me.TricksTaken,
	}
}

// Candidates scores every legal card with every legal joker style and
// declaration, best first. It has no side effects.
func (ts *TurnStrategy) Candidates(view game.PlayView) []Candidate {
	st := ts.state(view)
	leading := len(view.Trick) == 0

	var cands []Candidate
	for _, card := range view.LegalCards {
		if !card.IsJoker() {
			cands = append(cands, ts.evaluate(st, Candidate{Card: card, Style: rules.FaceUp}))
			continue
		}
		for i, opt := range rules.JokerOptions(leading) {
			cands = append(cands, ts.evaluate(st, Candidate{
				Card:        card,
				Style:       opt.Style,
				Declaration: opt.Declaration,
				option:      i,
			}))
		}
	}

	ts.applyUtility(st, cands)
	slices.SortStableFunc(cands, compareCandidates)
	return cands
}

// ChooseCard returns the best candidate. With a noisy profile the utilities
// are jittered before picking. ok is false when nothing is legal.
func (ts *TurnStrategy) ChooseCard(view game.PlayView) (Candidate, bool) {
	cands := ts.Candidates(view)
	if len(cands) == 0 {
		return Candidate{}, false
	}
	if ts.profile.Noise <= 0 || ts.rng == nil {
		return cands[0], true
	}
	for i := range cands {
		jitter := float64(ts.rng.Intn(2001)-1000) / 1000
		cands[i].Utility += jitter * ts.profile.Noise
	}
	slices.SortStableFunc(cands, compareCandidates)
	return cands[0], true
}

func (ts *TurnStrategy) evaluate(st turnState, c Candidate) Candidate {
	view := st.view
	trick := append(slices.Clone(view.Trick), rules.PlayedTrickCard{
		PlayerIndex: view.Seat,
		Card:        c.Card,
		Style:       c.Style,
		Declaration: c.Declaration,
	})

	winner, _ := rules.WinnerPlayerIndex(trick, view.Trump)
	c.WinsNow = winner == view.Seat
	c.Threat = ts.bidding.TrickChance(c.Card, view.Trump)

	if c.WinsNow {
		if st.draws == 0 {
			c.WinProbability = 1
		} else {
			safe := noBeaterProbability(st.unseen.Count(), ts.beaters(st, trick), st.draws)
			blend := ts.profile.WinProbBlend
			c.WinProbability = clamp01(blend*safe + (1-blend)*cardPower(trick, len(trick)-1, view.Trump))
		}
	}

	future := 0.0
	played := false
	for _, h := range view.Hand {
		if !played && h == c.Card {
			played = true
			continue
		}
		future += ts.bidding.TrickChance(h, view.Trump)
	}
	future = math.Min(future*ts.profile.FutureTrickWeight, float64(st.remaining-1))

	me := view.Me()
	projected := float64(me.TricksTaken) + c.WinProbability + future
	c.ProjectedTricks = math.Max(0, math.Min(projected, float64(view.CardsInRound)))
	c.ProjectedScore = scoring.RoundScore(view.CardsInRound, me.CurrentBid,
		int(math.Round(c.ProjectedTricks)), me.IsBlindBid)
	return c
}

// beaters counts unseen cards that would take trick from its last card if
// played next. Unseen jokers always can.
func (ts *TurnStrategy) beaters(st turnState, trick []rules.PlayedTrickCard) int {
	trial := append(slices.Clone(trick), rules.PlayedTrickCard{PlayerIndex: hypotheticalSeat, Style: rules.FaceUp})
	last := len(trial) - 1

	n := st.unseen.Jokers()
	for _, u := range st.unseen.Cards() {
		if u.IsJoker() {
			continue
		}
		trial[last].Card = u
		if w, _ := rules.WinnerPlayerIndex(trial, st.view.Trump); w == hypotheticalSeat {
			n++
		}
	}
	return n
}

// noBeaterProbability is the hypergeometric chance that draws cards taken from
// a population of size population contain none of its beaters.
func noBeaterProbability(population, beaters, draws int) float64 {
	if beaters <= 0 || draws <= 0 {
		return 1
	}
	if population-beaters < draws {
		return 0
	}
	p := 1.0
	for i := range draws {
		p *= float64(population-beaters-i) / float64(population-i)
	}
	return p
}

// cardPower is a rough confidence in the card at position pos holding trick.
func cardPower(trick []rules.PlayedTrickCard, pos int, trump *joker.Suit) float64 {
	pc := trick[pos]
	if pc.Card.IsJoker() {
		switch {
		case rules.IsWild(trick, pos):
			return 1
		case pc.Declaration != nil && pc.Declaration.Kind == rules.Above:
			return 0.85
		case pc.Declaration != nil && pc.Declaration.Kind == rules.Takes:
			return 0.25
		default:
			return 0
		}
	}
	rank, _ := pc.Card.Rank()
	if pc.Card.IsTrump(trump) {
		return 0.6 + 0.4*rank.Normalized()
	}
	return 0.2 + 0.6*rank.Normalized()
}

func (ts *TurnStrategy) applyUtility(st turnState, cands []Candidate) {
	p := ts.profile

	safeLoser := false
	for _, c := range cands {
		if !c.Card.IsJoker() && !c.WinsNow {
			safeLoser = true
			break
		}
	}

	for i := range cands {
		c := &cands[i]
		lose := 1 - c.WinProbability
		u := float64(c.ProjectedScore)
		if st.need > 0 {
			u += p.ChaseWeight * c.WinProbability
			u -= p.ThreatWeight * c.Threat * lose
			if c.Card.IsJoker() && st.need < st.remaining {
				u -= p.JokerSpendPenalty * (1 - float64(st.need)/float64(st.remaining))
			}
		} else {
			u += p.DumpWeight * lose
			u += p.ThreatWeight * c.Threat * lose
			if c.Card.IsJoker() && safeLoser {
				u -= p.JokerDumpPenalty
			}
		}
		c.Utility = u
	}
}

// compareCandidates orders by utility, then lower card, then face down before
// face up, then joker option order.
func compareCandidates(a, b Candidate) int {
	if math.Abs(a.Utility-b.Utility) > epsilon {
		if a.Utility > b.Utility {
			return -1
		}
		return 1
	}
	if c := compareLow(a.Card, b.Card); c != 0 {
		return c
	}
	if a.Style != b.Style {
		if a.Style == rules.FaceDown {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.option, b.option)
}

// compareLow orders cards by rank then suit, jokers last.
func compareLow(a, b joker.Card) int {
	switch {
	case a.IsJoker() && b.IsJoker():
		return 0
	case a.IsJoker():
		return 1
	case b.IsJoker():
		return -1
	}
	ra, _ := a.Rank()
	rb, _ := b.Rank()
	if c := cmp.Compare(ra, rb); c != 0 {
		return c
	}
	sa, _ := a.Suit()
	sb, _ := b.Suit()
	return cmp.Compare(sa, sb)
}
