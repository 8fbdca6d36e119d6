package statistics

import (
	"fmt"
	"math"
	"sort"
)

// SeatResult is one seat's outcome of a finished game
type SeatResult struct {
	Seat           int    `json:"seat"`
	Profile        string `json:"profile"`         // bot profile that played the seat
	Score          int    `json:"score"`           // final game total
	Rank           int    `json:"rank"`            // 1 for the winner; tied seats share a rank
	Premiums       int    `json:"premiums"`        // blocks in which every bid was made
	PenaltiesTaken int    `json:"penalties_taken"` // points lost to neighbours' premiums
}

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed  int64        `json:"seed"` // RNG seed for this game (for replay)
	Seats []SeatResult `json:"seats"`
}

// Sample accumulates a stream of values for summary statistics
type Sample struct {
	N      int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation
}

// Add records one value
func (s *Sample) Add(v float64) {
	s.N++
	s.Sum += v
	s.Sum2 += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean of all values
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance of all values
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.Sum2 - float64(s.N)*mean*mean) / float64(s.N-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of all values
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Sample) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Sample) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value
func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0), with
// linear interpolation between neighbours
func (s *Sample) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(1, p))
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ProfileStats tracks the results of every seat a profile played
type ProfileStats struct {
	Sample
	Wins           int
	Premiums       int
	PenaltiesTaken int
}

// WinRate returns the share of seats played that finished first
func (p *ProfileStats) WinRate() float64 {
	if p.N == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.N)
}

// Statistics tracks simulation results per profile and per seat
type Statistics struct {
	Games      int
	Players    int
	Profiles   map[string]*ProfileStats
	Seats      []Sample // by seat number, to expose positional bias
	TotalScore float64  // every seat's score, for the ledger check
}

// Add incorporates a finished game. Every game must seat the same number of
// players.
func (s *Statistics) Add(result GameResult) error {
	if len(result.Seats) == 0 {
		return fmt.Errorf("game %d has no seats", result.Seed)
	}
	if s.Players == 0 {
		s.Players = len(result.Seats)
		s.Seats = make([]Sample, s.Players)
		s.Profiles = make(map[string]*ProfileStats)
	}
	if len(result.Seats) != s.Players {
		return fmt.Errorf("game %d has %d seats, expected %d", result.Seed, len(result.Seats), s.Players)
	}
	for _, r := range result.Seats {
		if r.Seat < 0 || r.Seat >= s.Players {
			return fmt.Errorf("game %d: seat %d out of range", result.Seed, r.Seat)
		}
	}

	s.Games++
	for _, r := range result.Seats {
		score := float64(r.Score)
		s.TotalScore += score
		s.Seats[r.Seat].Add(score)

		ps, ok := s.Profiles[r.Profile]
		if !ok {
			ps = &ProfileStats{}
			s.Profiles[r.Profile] = ps
		}
		ps.Add(score)
		ps.Premiums += r.Premiums
		ps.PenaltiesTaken += r.PenaltiesTaken
		if r.Rank == 1 {
			ps.Wins++
		}
	}
	return nil
}

// ProfileNames returns the profiles seen, sorted by mean score, best first
func (s *Statistics) ProfileNames() []string {
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		mi, mj := s.Profiles[names[i]].Mean(), s.Profiles[names[j]].Mean()
		if mi != mj {
			return mi > mj
		}
		return names[i] < names[j]
	})
	return names
}

// IsLedgerBalanced checks that per-profile and per-seat sums both add up to
// the total score
func (s *Statistics) IsLedgerBalanced() bool {
	var byProfile, bySeat float64
	for _, ps := range s.Profiles {
		byProfile += ps.Sum
	}
	for i := range s.Seats {
		bySeat += s.Seats[i].Sum
	}
	return math.Abs(byProfile-s.TotalScore) <= 1e-6 && math.Abs(bySeat-s.TotalScore) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: total score %.0f does not match profile and seat sums", s.TotalScore)
	}

	for seat := range s.Seats {
		if n := s.Seats[seat].N; n != s.Games {
			return fmt.Errorf("seat %d has %d results, expected %d", seat, n, s.Games)
		}
	}

	seatsPlayed, wins := 0, 0
	for name, ps := range s.Profiles {
		if len(ps.Values) != ps.N {
			return fmt.Errorf("profile %q: values array length (%d) does not match count (%d)",
				name, len(ps.Values), ps.N)
		}
		seatsPlayed += ps.N
		wins += ps.Wins
	}
	if seatsPlayed != s.Games*s.Players {
		return fmt.Errorf("profile seats total (%d) does not match games x players (%d)",
			seatsPlayed, s.Games*s.Players)
	}
	if wins < s.Games {
		return fmt.Errorf("fewer winners (%d) than games (%d)", wins, s.Games)
	}

	return nil
}
