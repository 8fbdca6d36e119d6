package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/joker"
)

func TestNoBeaterProbability(t *testing.T) {
	assert.Equal(t, 1.0, noBeaterProbability(10, 0, 3))
	assert.Equal(t, 1.0, noBeaterProbability(10, 4, 0))
	assert.Equal(t, 0.0, noBeaterProbability(10, 10, 1))
	assert.InDelta(t, 0.75, noBeaterProbability(4, 1, 1), 1e-9)
	assert.InDelta(t, 1.0/6, noBeaterProbability(4, 2, 2), 1e-9)
}

func TestChaseLeadsTheStrongTrump(t *testing.T) {
	ts := NewTurnStrategy(Normal, nil)
	view := playView(seatState{players: 4, seat: 0, cards: 2, bid: 2}, "Ah 7d", nil, suitPtr(joker.Hearts))

	cands := ts.Candidates(view)
	require.Len(t, cands, 2)
	best := cands[0]
	assert.Equal(t, joker.NewCard(joker.Hearts, joker.Ace), best.Card)
	assert.True(t, best.WinsNow)
	assert.Greater(t, best.WinProbability, cands[1].WinProbability)
	assert.Less(t, best.WinProbability, 1.0)
}

func TestDumpUnderTheLead(t *testing.T) {
	ts := NewTurnStrategy(Normal, nil)
	trick := []rules.PlayedTrickCard{played(1, "Kd")}
	view := playView(seatState{players: 4, seat: 2, cards: 2, bid: 0}, "Ad 7d", trick, nil)

	best, ok := ts.ChooseCard(view)
	require.True(t, ok)
	assert.Equal(t, joker.NewCard(joker.Diamonds, joker.Seven), best.Card)
	assert.False(t, best.WinsNow)
	assert.Zero(t, best.WinProbability)
}

func TestDumpKeepsTheJokerWhenACardLoses(t *testing.T) {
	ts := NewTurnStrategy(Normal, nil)
	trick := []rules.PlayedTrickCard{played(1, "Kd")}
	view := playView(seatState{players: 4, seat: 2, cards: 2, bid: 0}, "X 7d", trick, nil)

	cands := ts.Candidates(view)
	require.Len(t, cands, 3)
	assert.Equal(t, joker.NewCard(joker.Diamonds, joker.Seven), cands[0].Card)

	for _, c := range cands {
		if c.Card.IsJoker() && c.Style == rules.FaceUp {
			assert.True(t, c.WinsNow, "a following face-up joker takes the trick")
		}
		if c.Card.IsJoker() && c.Style == rules.FaceDown {
			assert.False(t, c.WinsNow)
		}
	}
}

func TestLastToActWinsWithCertainty(t *testing.T) {
	ts := NewTurnStrategy(Normal, nil)
	trick := []rules.PlayedTrickCard{played(1, "7d"), played(2, "8d"), played(3, "9d")}
	view := playView(seatState{players: 4, seat: 0, cards: 2, bid: 1}, "Td 6h", trick, nil)

	cands := ts.Candidates(view)
	require.Len(t, cands, 1, "must follow diamonds")
	assert.True(t, cands[0].WinsNow)
	assert.Equal(t, 1.0, cands[0].WinProbability)
	assert.Equal(t, 1.0, cands[0].ProjectedTricks)
}

func TestJokerCandidatesCoverEveryOption(t *testing.T) {
	ts := NewTurnStrategy(Normal, nil)

	lead := ts.Candidates(playView(seatState{players: 3, seat: 0, cards: 1, bid: 1}, "X", nil, nil))
	require.Len(t, lead, 9)
	for _, c := range lead {
		require.NotNil(t, c.Declaration)
		assert.NoError(t, rules.ValidateJokerPlay(0, c.Card, c.Style, c.Declaration))
	}

	trick := []rules.PlayedTrickCard{played(1, "Ah")}
	follow := ts.Candidates(playView(seatState{players: 3, seat: 2, cards: 1, bid: 1}, "X", trick, nil))
	require.Len(t, follow, 2)
	for _, c := range follow {
		assert.Nil(t, c.Declaration)
	}
}

func TestCandidatesArePure(t *testing.T) {
	ts := NewTurnStrategy(Normal, nil)
	trick := []rules.PlayedTrickCard{played(1, "Qs")}
	view := playView(seatState{players: 3, seat: 2, cards: 3, bid: 1}, "As 7s X", trick, suitPtr(joker.Clubs))

	first := ts.Candidates(view)
	second := ts.Candidates(view)
	assert.Equal(t, first, second)
	assert.Len(t, view.Trick, 1)
}

func TestNoiseKeepsChoicesLegal(t *testing.T) {
	ts := NewTurnStrategy(Easy, joker.NewSeededSource(7))
	trick := []rules.PlayedTrickCard{played(1, "Qs")}
	view := playView(seatState{players: 3, seat: 2, cards: 3, bid: 1}, "As 7s X", trick, nil)

	for range 20 {
		c, ok := ts.ChooseCard(view)
		require.True(t, ok)
		assert.Contains(t, view.LegalCards, c.Card)
	}
}

func TestCompareCandidatesTieBreaks(t *testing.T) {
	low := Candidate{Card: joker.NewCard(joker.Clubs, joker.Seven), Utility: 10}
	high := Candidate{Card: joker.NewCard(joker.Diamonds, joker.Ace), Utility: 10}
	assert.Negative(t, compareCandidates(low, high), "lower rank first")

	better := Candidate{Card: joker.NewCard(joker.Diamonds, joker.Ace), Utility: 11}
	assert.Negative(t, compareCandidates(better, low))

	down := Candidate{Card: joker.Joker(), Style: rules.FaceDown, Utility: 5}
	up := Candidate{Card: joker.Joker(), Style: rules.FaceUp, Utility: 5}
	assert.Negative(t, compareCandidates(down, up), "face down before face up")
	assert.Positive(t, compareCandidates(up, down))

	assert.Negative(t, compareCandidates(low, down.withUtility(10)), "regular cards before jokers")
}

func (c Candidate) withUtility(u float64) Candidate {
	c.Utility = u
	return c
}
