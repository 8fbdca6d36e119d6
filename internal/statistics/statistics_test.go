package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_Empty(t *testing.T) {
	var s Sample
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.Percentile(0.5))
}

func TestSample_Values(t *testing.T) {
	var s Sample
	for _, v := range []float64{100, -200, 300, 0, -100} {
		s.Add(v)
	}

	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 20, s.Mean(), 1e-9)
	// deviations 80, -220, 280, -20, -120: squares sum to 148000
	assert.InDelta(t, 37000, s.Variance(), 1e-6)
	assert.InDelta(t, math.Sqrt(37000), s.StdDev(), 1e-6)
	assert.InDelta(t, math.Sqrt(37000)/math.Sqrt(5), s.StdError(), 1e-6)
	assert.InDelta(t, 0, s.Median(), 1e-9)

	low, high := s.ConfidenceInterval95()
	assert.InDelta(t, 20, (low+high)/2, 1e-9)
	assert.InDelta(t, 2*1.96*s.StdError(), high-low, 1e-6)

	assert.InDelta(t, -200, s.Percentile(0), 1e-9)
	assert.InDelta(t, 300, s.Percentile(1), 1e-9)
	assert.InDelta(t, -100, s.Percentile(0.25), 1e-9)
	assert.InDelta(t, 200, s.Percentile(0.875), 1e-9)
}

func TestSample_SingleValue(t *testing.T) {
	var s Sample
	s.Add(250)
	assert.Equal(t, 250.0, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Equal(t, 250.0, s.Median())
}

func game(seed int64, seats ...SeatResult) GameResult {
	return GameResult{Seed: seed, Seats: seats}
}

func TestStatistics_Add(t *testing.T) {
	stats := &Statistics{}
	require.NoError(t, stats.Add(game(1,
		SeatResult{Seat: 0, Profile: "hard", Score: 900, Rank: 1, Premiums: 2},
		SeatResult{Seat: 1, Profile: "easy", Score: -100, Rank: 3, PenaltiesTaken: 150},
		SeatResult{Seat: 2, Profile: "normal", Score: 400, Rank: 2},
	)))
	require.NoError(t, stats.Add(game(2,
		SeatResult{Seat: 0, Profile: "easy", Score: 300, Rank: 1},
		SeatResult{Seat: 1, Profile: "normal", Score: 300, Rank: 1},
		SeatResult{Seat: 2, Profile: "hard", Score: 100, Rank: 3, Premiums: 1},
	)))

	assert.Equal(t, 2, stats.Games)
	assert.Equal(t, 3, stats.Players)
	assert.InDelta(t, 1900, stats.TotalScore, 1e-9)
	assert.True(t, stats.IsLedgerBalanced())
	require.NoError(t, stats.Validate())

	hard := stats.Profiles["hard"]
	assert.Equal(t, 2, hard.N)
	assert.InDelta(t, 500, hard.Mean(), 1e-9)
	assert.Equal(t, 1, hard.Wins)
	assert.Equal(t, 3, hard.Premiums)
	assert.InDelta(t, 0.5, hard.WinRate(), 1e-9)

	easy := stats.Profiles["easy"]
	assert.Equal(t, 150, easy.PenaltiesTaken)
	assert.Equal(t, 1, stats.Profiles["normal"].Wins, "tied winners both count")

	assert.InDelta(t, 600, stats.Seats[0].Mean(), 1e-9)
	assert.Equal(t, []string{"hard", "normal", "easy"}, stats.ProfileNames())
}

func TestStatistics_AddRejectsMismatchedGames(t *testing.T) {
	stats := &Statistics{}
	assert.Error(t, stats.Add(GameResult{}))

	require.NoError(t, stats.Add(game(1,
		SeatResult{Seat: 0, Profile: "a", Rank: 1},
		SeatResult{Seat: 1, Profile: "b", Rank: 2},
		SeatResult{Seat: 2, Profile: "c", Rank: 3},
	)))
	assert.Error(t, stats.Add(game(2,
		SeatResult{Seat: 0, Profile: "a", Rank: 1},
		SeatResult{Seat: 1, Profile: "b", Rank: 2},
	)))
	assert.Error(t, stats.Add(game(3,
		SeatResult{Seat: 0, Profile: "a", Rank: 1},
		SeatResult{Seat: 1, Profile: "b", Rank: 2},
		SeatResult{Seat: 5, Profile: "c", Rank: 3},
	)))
	assert.Equal(t, 1, stats.Games)
}

func TestStatistics_Validate(t *testing.T) {
	empty := &Statistics{}
	assert.Error(t, empty.Validate())

	stats := &Statistics{}
	require.NoError(t, stats.Add(game(1,
		SeatResult{Seat: 0, Profile: "a", Score: 10, Rank: 1},
		SeatResult{Seat: 1, Profile: "b", Score: 5, Rank: 2},
		SeatResult{Seat: 2, Profile: "c", Score: 0, Rank: 3},
	)))
	require.NoError(t, stats.Validate())

	stats.TotalScore += 1
	assert.False(t, stats.IsLedgerBalanced())
	assert.Error(t, stats.Validate())
	stats.TotalScore -= 1

	stats.Profiles["a"].Wins = 0
	assert.Error(t, stats.Validate(), "every game has a winner")
}
