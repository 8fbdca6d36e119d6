package game

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/jokerforbots/internal/rules"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func agentsFor(n int, a Agent) []Agent {
	agents := make([]Agent, n)
	for i := range agents {
		agents[i] = a
	}
	return agents
}

func TestNewEngineRequiresOneAgentPerSeat(t *testing.T) {
	g, _ := newTestGame(t, 4)
	_, err := NewEngine(g, agentsFor(3, firstLegalAgent{}), testLogger())
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)

	_, err = NewEngine(g, []Agent{firstLegalAgent{}, nil, firstLegalAgent{}, firstLegalAgent{}}, testLogger())
	assert.Error(t, err)
}

func TestEngineRunsFullGame(t *testing.T) {
	for _, players := range []int{3, 4} {
		t.Run(strings.Repeat("p", players), func(t *testing.T) {
			g, rec := newTestGame(t, players)
			history := NewHistory()
			g.EventBus().Subscribe(history)

			engine, err := NewEngine(g, agentsFor(players, firstLegalAgent{}), testLogger())
			require.NoError(t, err)

			result, err := engine.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, PhaseGameEnd, g.Phase())
			assert.Equal(t, rules.TotalRounds(players), result.Rounds)
			assert.Zero(t, result.Fallbacks)
			assert.Len(t, result.Blocks, rules.BlockCount)
			assert.Len(t, result.Standings, players)

			assert.Equal(t, rules.TotalRounds(players), rec.count(EventTypeRoundCompleted))
			assert.Equal(t, rules.BlockCount, rec.count(EventTypeBlockCompleted))
			assert.Equal(t, 1, rec.count(EventTypeGameCompleted))

			// tricks per round match the schedule
			require.Len(t, history.Deals, rules.TotalRounds(players))
			for _, d := range history.Deals {
				cards := rules.CardsSchedule(d.Block, players)[d.RoundInBlock]
				assert.Len(t, d.Tricks, cards)
				taken := 0
				for _, r := range d.Results {
					taken += r.TricksTaken
				}
				assert.Equal(t, cards, taken)
			}
			assert.True(t, history.IsComplete())

			// final totals are the sum of settled blocks
			sums := make([]int, players)
			for _, b := range result.Blocks {
				for seat, s := range b.FinalScores {
					sums[seat] += s
				}
			}
			for _, s := range result.Standings {
				assert.Equal(t, sums[s.PlayerNumber], s.Score)
			}

			assert.ErrorIs(t, g.StartNewRound(), ErrGameOver)
			assert.ErrorIs(t, g.PlaceBid(0, 0, false), ErrGameOver)
		})
	}
}

func TestEngineFallsBackOnIllegalDecisions(t *testing.T) {
	g, _ := newTestGame(t, 4)
	engine, err := NewEngine(g, agentsFor(4, illegalAgent{}), testLogger())
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseGameEnd, g.Phase())
	assert.Positive(t, result.Fallbacks)
}

func TestEngineStopsOnCancelledContext(t *testing.T) {
	g, _ := newTestGame(t, 3)
	engine, err := NewEngine(g, agentsFor(3, firstLegalAgent{}), testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, PhaseBidding, g.Phase())

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rules.TotalRounds(3), result.Rounds)
}

func TestHistorySummaryAndFormatter(t *testing.T) {
	g, _ := newTestGame(t, 3)
	history := NewHistory()
	g.EventBus().Subscribe(history)

	names := []string{"Ann", "Bo", "Cy"}
	formatter := NewEventFormatter(FormattingOptions{Names: names, ShowTricks: true})
	var lines []string
	g.EventBus().Subscribe(EventSubscriberFunc(func(e GameEvent) {
		if s := formatter.Format(e); s != "" {
			lines = append(lines, s)
		}
	}))

	engine, err := NewEngine(g, agentsFor(3, firstLegalAgent{}), testLogger())
	require.NoError(t, err)
	_, err = engine.Run(context.Background())
	require.NoError(t, err)

	summary := history.Summary(names)
	assert.Contains(t, summary, "Game test-game")
	assert.Contains(t, summary, "Final standings")
	assert.Contains(t, summary, "Block 4 round 3")

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "trick 1")
	assert.Contains(t, lines[len(lines)-1], "FINAL STANDINGS")
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	rec := &eventRecorder{}
	bus.Subscribe(rec)
	bus.Subscribe(EventSubscriberFunc(func(GameEvent) {}))
	bus.Publish(GameCompletedEvent{})
	bus.Unsubscribe(rec)
	bus.Publish(GameCompletedEvent{})
	assert.Len(t, rec.events, 1)
}
