package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/jokerforbots/internal/rules"
)

func TestRoundScore(t *testing.T) {
	tests := []struct {
		cards, bid, tricks int
		want               int
	}{
		{3, 3, 3, 300},
		{3, 2, 2, 150},
		{3, 2, 3, 30},
		{3, 3, 0, -300},
		{3, 2, 1, -100},
		{3, 0, 0, 50},
		{3, 0, 2, 20},
		{3, 3, 1, -150},
		{9, 9, 9, 900},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundScore(tt.cards, tt.bid, tt.tricks, false), "C=%d V=%d K=%d", tt.cards, tt.bid, tt.tricks)
		assert.Equal(t, 2*tt.want, RoundScore(tt.cards, tt.bid, tt.tricks, true), "blind C=%d V=%d K=%d", tt.cards, tt.bid, tt.tricks)
	}
}

func TestRoundResultScoreIncludesAdjustment(t *testing.T) {
	r := RoundResult{CardsInRound: 3, Bid: 2, TricksTaken: 2, ScoreAdjustment: 100}
	assert.Equal(t, 150, r.BaseScore())
	assert.Equal(t, 250, r.Score())
	assert.True(t, r.Matched())
}

// sampleBlock: seat 0 matches every round, seat 1 misses, seat 2 bids and
// takes zero throughout.
func sampleBlock() [][]RoundResult {
	return [][]RoundResult{
		{
			{CardsInRound: 1, Bid: 1, TricksTaken: 1},
			{CardsInRound: 1, Bid: 0, TricksTaken: 1},
			{CardsInRound: 1, Bid: 0, TricksTaken: 0},
		},
		{
			{CardsInRound: 2, Bid: 1, TricksTaken: 1},
			{CardsInRound: 2, Bid: 1, TricksTaken: 0},
			{CardsInRound: 2, Bid: 0, TricksTaken: 0},
		},
		{
			{CardsInRound: 3, Bid: 2, TricksTaken: 2},
			{CardsInRound: 3, Bid: 0, TricksTaken: 0},
			{CardsInRound: 3, Bid: 0, TricksTaken: 0},
		},
	}
}

func TestComputeBlockPremiumAndPenalty(t *testing.T) {
	input := sampleBlock()
	res := ComputeBlock(rules.BlockAscending, 3, input)

	assert.Equal(t, []int{0, 2}, res.PremiumPlayers)
	assert.Equal(t, []int{2}, res.ZeroPremiumPlayers)
	assert.Equal(t, []int{100, 0, ZeroPremiumBonus}, res.Bonuses)

	// bonuses land on the last round only
	assert.Equal(t, 100, res.Rounds[2][0].ScoreAdjustment)
	assert.Equal(t, 250, res.Rounds[2][0].Score())
	assert.Equal(t, ZeroPremiumBonus, res.Rounds[2][2].ScoreAdjustment)
	assert.Zero(t, res.Rounds[1][0].ScoreAdjustment)

	// both premium earners hit seat 1; seat 2 skips over seat 0
	require.Len(t, res.Penalties, 2)
	assert.Equal(t, Penalty{Source: 0, Target: 1, Amount: 10, RoundIndex: 0}, res.Penalties[0])
	assert.Equal(t, Penalty{Source: 2, Target: 1, Amount: 10, RoundIndex: 0}, res.Penalties[1])
	assert.Equal(t, []int{0, 20, 0}, res.PenaltyTotals)

	assert.Equal(t, []int{450, -40, 650}, res.BaseScores)
	assert.Equal(t, []int{450, -60, 650}, res.FinalScores)

	// input untouched
	assert.Zero(t, input[2][0].ScoreAdjustment)
}

func TestComputeBlockNoZeroPremiumInFullBlocks(t *testing.T) {
	rounds := [][]RoundResult{
		{{CardsInRound: 9, Bid: 0, TricksTaken: 0}, {CardsInRound: 9, Bid: 9, TricksTaken: 9}, {CardsInRound: 9, Bid: 1, TricksTaken: 0}},
		{{CardsInRound: 9, Bid: 0, TricksTaken: 0}, {CardsInRound: 9, Bid: 2, TricksTaken: 5}, {CardsInRound: 9, Bid: 4, TricksTaken: 4}},
	}
	res := ComputeBlock(rules.BlockFullFirst, 3, rounds)

	assert.Equal(t, []int{0}, res.PremiumPlayers)
	assert.Empty(t, res.ZeroPremiumPlayers)
	assert.Equal(t, 50, res.Bonuses[0])
	assert.Equal(t, 150, res.BaseScores[0])
}

func TestComputeBlockPenaltyPicksEarliestBest(t *testing.T) {
	rounds := [][]RoundResult{
		{{CardsInRound: 4, Bid: 1, TricksTaken: 1}, {CardsInRound: 4, Bid: 1, TricksTaken: 1}, {CardsInRound: 4, Bid: 3, TricksTaken: 1}},
		{{CardsInRound: 4, Bid: 1, TricksTaken: 1}, {CardsInRound: 4, Bid: 1, TricksTaken: 1}, {CardsInRound: 4, Bid: 1, TricksTaken: 1}},
		{{CardsInRound: 4, Bid: 2, TricksTaken: 2}, {CardsInRound: 4, Bid: 3, TricksTaken: 0}, {CardsInRound: 4, Bid: 0, TricksTaken: 0}},
	}
	res := ComputeBlock(rules.BlockFullFirst, 3, rounds)

	require.Len(t, res.Penalties, 1)
	assert.Equal(t, Penalty{Source: 0, Target: 1, Amount: 100, RoundIndex: 0}, res.Penalties[0])
}

func TestComputeBlockNoPositiveRoundMeansNoPenalty(t *testing.T) {
	rounds := [][]RoundResult{
		{{CardsInRound: 1, Bid: 1, TricksTaken: 1}, {CardsInRound: 1, Bid: 1, TricksTaken: 0}, {CardsInRound: 1, Bid: 0, TricksTaken: 0}},
		{{CardsInRound: 2, Bid: 1, TricksTaken: 1}, {CardsInRound: 2, Bid: 0, TricksTaken: 0}, {CardsInRound: 2, Bid: 0, TricksTaken: 0}},
	}
	res := ComputeBlock(rules.BlockAscending, 3, rounds)

	assert.Equal(t, []int{0, 2}, res.PremiumPlayers)
	assert.Empty(t, res.Penalties)
	assert.Equal(t, []int{0, 0, 0}, res.PenaltyTotals)
}

func TestComputeBlockEveryonePremium(t *testing.T) {
	rounds := [][]RoundResult{
		{{CardsInRound: 9, Bid: 3, TricksTaken: 3}, {CardsInRound: 9, Bid: 3, TricksTaken: 3}, {CardsInRound: 9, Bid: 3, TricksTaken: 3}},
		{{CardsInRound: 9, Bid: 4, TricksTaken: 4}, {CardsInRound: 9, Bid: 2, TricksTaken: 2}, {CardsInRound: 9, Bid: 3, TricksTaken: 3}},
	}
	res := ComputeBlock(rules.BlockFullFirst, 3, rounds)

	assert.Len(t, res.PremiumPlayers, 3)
	assert.Empty(t, res.Penalties)
	assert.Equal(t, []int{200, 200, 200}, res.Bonuses)
	assert.Equal(t, []int{200 + 250 + 200, 200 + 150 + 200, 200 + 200 + 200}, res.FinalScores)
}

func TestComputeBlockSingleRoundHasNoOrdinaryBonus(t *testing.T) {
	rounds := [][]RoundResult{
		{{CardsInRound: 9, Bid: 3, TricksTaken: 3}, {CardsInRound: 9, Bid: 2, TricksTaken: 6}, {CardsInRound: 9, Bid: 0, TricksTaken: 0}},
	}
	res := ComputeBlock(rules.BlockFullFirst, 3, rounds)
	assert.Equal(t, []int{0, 0, 0}, res.Bonuses)
}

func TestComputeBlockEmpty(t *testing.T) {
	res := ComputeBlock(rules.BlockAscending, 4, nil)
	assert.Empty(t, res.PremiumPlayers)
	assert.Equal(t, []int{0, 0, 0, 0}, res.FinalScores)
}

func TestPenaltyTargetWalksLeft(t *testing.T) {
	target, ok := penaltyTarget(3, []bool{true, false, true, true})
	require.True(t, ok)
	assert.Equal(t, 1, target)

	_, ok = penaltyTarget(0, []bool{true, true, true})
	assert.False(t, ok)
}
