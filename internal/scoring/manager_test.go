package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/jokerforbots/internal/rules"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(3)
	require.NoError(t, err)
	for _, row := range sampleBlock() {
		require.NoError(t, m.RecordRound(rules.BlockAscending, row))
	}
	return m
}

func TestNewManagerRejectsNoPlayers(t *testing.T) {
	_, err := NewManager(0)
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)
}

func TestRecordRoundValidation(t *testing.T) {
	m, err := NewManager(3)
	require.NoError(t, err)

	assert.ErrorIs(t, m.RecordRound(rules.Block(7), make([]RoundResult, 3)), ErrInvalidBlock)
	assert.ErrorIs(t, m.RecordRound(rules.BlockAscending, make([]RoundResult, 2)), ErrResultCount)
}

func TestLiveBlockTotalsBeforeAndAfterFinalize(t *testing.T) {
	m := newTestManager(t)

	assert.Equal(t, []int{350, -40, 150}, m.LiveBlockTotals(rules.BlockAscending))

	res, first := m.FinalizeBlock(rules.BlockAscending)
	require.True(t, first)
	assert.Equal(t, []int{450, -60, 650}, res.FinalScores)
	assert.Equal(t, []int{450, -60, 650}, m.LiveBlockTotals(rules.BlockAscending))
	assert.Equal(t, []int{450, -60, 650}, m.Totals())
}

func TestFinalizeBlockIsIdempotent(t *testing.T) {
	m := newTestManager(t)

	first, ok := m.FinalizeBlock(rules.BlockAscending)
	require.True(t, ok)
	second, ok := m.FinalizeBlock(rules.BlockAscending)
	assert.False(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{450, -60, 650}, m.Totals())

	err := m.RecordRound(rules.BlockAscending, make([]RoundResult, 3))
	assert.ErrorIs(t, err, ErrBlockFinalized)
}

func TestSnapshotDoesNotMutate(t *testing.T) {
	m := newTestManager(t)
	m.FinalizeBlock(rules.BlockAscending)

	open := []RoundResult{
		{CardsInRound: 9, Bid: 2, TricksTaken: 2},
		{CardsInRound: 9, Bid: 3, TricksTaken: 1},
		{CardsInRound: 9, Bid: 4, TricksTaken: 6},
	}
	require.NoError(t, m.RecordRound(rules.BlockFullFirst, []RoundResult{
		{CardsInRound: 9, Bid: 1, TricksTaken: 1},
		{CardsInRound: 9, Bid: 1, TricksTaken: 1},
		{CardsInRound: 9, Bid: 1, TricksTaken: 7},
	}))

	snap := m.Snapshot(open)
	assert.Equal(t, []int{150, -150, 60}, snap.OpenRound)
	assert.Equal(t, []int{100 + 150, 100 - 150, 70 + 60}, snap.BlockTotal)
	assert.Equal(t, []int{450 + 100 + 150, -60 + 100 - 150, 650 + 70 + 60}, snap.Totals)

	assert.Equal(t, []int{450 + 100, -60 + 100, 650 + 70}, m.Totals())
	require.Len(t, m.History(), 2)
	assert.Len(t, m.History()[1].Rounds, 1)
}

func TestHistoryAndBlockResults(t *testing.T) {
	m := newTestManager(t)
	m.FinalizeBlock(rules.BlockAscending)

	hist := m.History()
	require.Len(t, hist, 1)
	assert.True(t, hist[0].Finalized)
	assert.Equal(t, 100, hist[0].Rounds[2][0].ScoreAdjustment)

	hist[0].Rounds[0][0].Bid = 99
	assert.Equal(t, 1, m.History()[0].Rounds[0][0].Bid)

	results := m.BlockResults()
	require.Len(t, results, 1)
	assert.Equal(t, rules.BlockAscending, results[0].Block)
	assert.True(t, results[0].IsPremium(2))
	assert.False(t, results[0].IsPremium(1))
}

func TestReset(t *testing.T) {
	m := newTestManager(t)
	m.FinalizeBlock(rules.BlockAscending)
	m.Reset()

	assert.Equal(t, []int{0, 0, 0}, m.Totals())
	assert.Empty(t, m.History())
	_, first := m.FinalizeBlock(rules.BlockAscending)
	assert.True(t, first)
}
