package scoring

import (
	"errors"
	"fmt"

	"github.com/lox/jokerforbots/internal/rules"
)

var (
	ErrInvalidPlayerCount = errors.New("player count must be positive")
	ErrInvalidBlock       = errors.New("invalid block")
	ErrBlockFinalized     = errors.New("block already finalized")
	ErrResultCount        = errors.New("one round result per player required")
)

// BlockRounds is the raw round history of one block.
type BlockRounds struct {
	Block     rules.Block
	Rounds    [][]RoundResult
	Finalized bool
}

// Snapshot is a read-only view of the scores, optionally including a round
// that has not been recorded yet.
type Snapshot struct {
	Totals     []int
	BlockTotal []int // totals of the block in progress
	OpenRound  []int // scores of the open round, nil when none was given
}

// Manager accumulates round results per block and settles blocks. It is not
// safe for concurrent use.
type Manager struct {
	playerCount int
	rounds      map[rules.Block][][]RoundResult
	finalized   map[rules.Block]BlockResult
	current     rules.Block
}

// NewManager creates a manager for playerCount seats.
func NewManager(playerCount int) (*Manager, error) {
	if playerCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, playerCount)
	}
	return &Manager{
		playerCount: playerCount,
		rounds:      make(map[rules.Block][][]RoundResult),
		finalized:   make(map[rules.Block]BlockResult),
		current:     rules.BlockAscending,
	}, nil
}

// PlayerCount returns the number of seats.
func (m *Manager) PlayerCount() int {
	return m.playerCount
}

// RecordRound appends one round, one result per seat, to block.
func (m *Manager) RecordRound(block rules.Block, results []RoundResult) error {
	if !block.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidBlock, block)
	}
	if len(results) != m.playerCount {
		return fmt.Errorf("%w: got %d, want %d", ErrResultCount, len(results), m.playerCount)
	}
	if _, done := m.finalized[block]; done {
		return fmt.Errorf("%w: %s", ErrBlockFinalized, block)
	}
	row := make([]RoundResult, len(results))
	copy(row, results)
	m.rounds[block] = append(m.rounds[block], row)
	m.current = block
	return nil
}

// FinalizeBlock settles block. A block is settled once: later calls return
// the stored result and false.
func (m *Manager) FinalizeBlock(block rules.Block) (BlockResult, bool) {
	if res, done := m.finalized[block]; done {
		return res, false
	}
	res := ComputeBlock(block, m.playerCount, m.rounds[block])
	m.finalized[block] = res
	return res, true
}

// IsFinalized reports whether block has been settled.
func (m *Manager) IsFinalized(block rules.Block) bool {
	_, done := m.finalized[block]
	return done
}

// LiveBlockTotals returns the per-seat totals of block: its final scores once
// settled, otherwise the sum of its recorded round scores.
func (m *Manager) LiveBlockTotals(block rules.Block) []int {
	if res, done := m.finalized[block]; done {
		return append([]int(nil), res.FinalScores...)
	}
	totals := make([]int, m.playerCount)
	for _, row := range m.rounds[block] {
		for seat, r := range row {
			totals[seat] += r.Score()
		}
	}
	return totals
}

// Totals returns the per-seat game totals over every block.
func (m *Manager) Totals() []int {
	totals := make([]int, m.playerCount)
	for b := rules.BlockAscending; b <= rules.BlockFullBlind; b++ {
		for seat, s := range m.LiveBlockTotals(b) {
			totals[seat] += s
		}
	}
	return totals
}

// Snapshot returns the current totals with openRound, when non-nil, counted
// on top. Nothing is recorded.
func (m *Manager) Snapshot(openRound []RoundResult) Snapshot {
	snap := Snapshot{
		Totals:     m.Totals(),
		BlockTotal: m.LiveBlockTotals(m.current),
	}
	if openRound == nil {
		return snap
	}
	snap.OpenRound = make([]int, m.playerCount)
	for seat, r := range openRound {
		if seat >= m.playerCount {
			break
		}
		s := r.Score()
		snap.OpenRound[seat] = s
		snap.Totals[seat] += s
		if !m.IsFinalized(m.current) {
			snap.BlockTotal[seat] += s
		}
	}
	return snap
}

// BlockResults returns the settled blocks in block order.
func (m *Manager) BlockResults() []BlockResult {
	out := make([]BlockResult, 0, len(m.finalized))
	for b := rules.BlockAscending; b <= rules.BlockFullBlind; b++ {
		if res, done := m.finalized[b]; done {
			out = append(out, res)
		}
	}
	return out
}

// History returns a copy of every recorded round grouped by block. Settled
// blocks carry their adjusted rounds.
func (m *Manager) History() []BlockRounds {
	var out []BlockRounds
	for b := rules.BlockAscending; b <= rules.BlockFullBlind; b++ {
		src := m.rounds[b]
		res, done := m.finalized[b]
		if done {
			src = res.Rounds
		}
		if len(src) == 0 && !done {
			continue
		}
		rounds := make([][]RoundResult, len(src))
		for i, row := range src {
			rounds[i] = append([]RoundResult(nil), row...)
		}
		out = append(out, BlockRounds{Block: b, Rounds: rounds, Finalized: done})
	}
	return out
}

// Reset drops all recorded rounds and settled blocks.
func (m *Manager) Reset() {
	m.rounds = make(map[rules.Block][][]RoundResult)
	m.finalized = make(map[rules.Block]BlockResult)
	m.current = rules.BlockAscending
}
