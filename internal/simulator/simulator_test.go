package simulator

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/jokerforbots/internal/bot"
	"github.com/lox/jokerforbots/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func testConfig(t *testing.T) Config {
	return Config{
		Games:    3,
		Profiles: []string{"hard", "normal", RandomProfile},
		Seed:     12345,
		Workers:  2,
		Logger:   testLogger(),
		Clock:    quartz.NewMock(t),
	}
}

func TestNew(t *testing.T) {
	sim, err := New(Config{Games: 10})
	require.NoError(t, err)

	cfg := sim.Config()
	assert.Equal(t, 4, cfg.Players)
	assert.Equal(t, []string{"normal", "normal", "normal", "normal"}, cfg.Profiles)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.Clock)

	sim, err = New(Config{Games: 1, Players: 3})
	require.NoError(t, err)
	assert.Len(t, sim.Config().Profiles, 3)
}

func TestNewRejectsBadConfigs(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoGames)

	_, err = New(Config{Games: 1, Profiles: []string{"normal", "grandmaster", "easy"}})
	assert.ErrorIs(t, err, bot.ErrUnknownProfile)

	_, err = New(Config{Games: 1, Players: 4, Profiles: []string{"normal", "easy", "hard"}})
	assert.Error(t, err)

	_, err = New(Config{Games: 1, Profiles: []string{"normal", "normal"}})
	assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)
}

func TestNewUsesCustomProfiles(t *testing.T) {
	custom := bot.Hard
	custom.Name = "grandmaster"
	_, err := New(Config{
		Games:    1,
		Profiles: []string{"normal", "grandmaster", "easy"},
		Custom:   map[string]bot.Profile{"grandmaster": custom},
	})
	assert.NoError(t, err)
}

func TestLineupRotates(t *testing.T) {
	sim, err := New(testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"hard", "normal", "random"}, sim.Lineup(0))
	assert.Equal(t, []string{"normal", "random", "hard"}, sim.Lineup(1))
	assert.Equal(t, []string{"random", "hard", "normal"}, sim.Lineup(2))
	assert.Equal(t, sim.Lineup(0), sim.Lineup(3))
}

func TestRun(t *testing.T) {
	sim, err := New(testConfig(t))
	require.NoError(t, err)

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Zero(t, report.Fallbacks)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 3, report.Stats.Games)
	require.NoError(t, report.Stats.Validate())

	for i, res := range report.Results {
		assert.Equal(t, int64(12345+i), res.Seed)
		ranked := false
		for seat, sr := range res.Seats {
			assert.Equal(t, seat, sr.Seat)
			assert.Equal(t, sim.Lineup(i)[seat], sr.Profile)
			if sr.Rank == 1 {
				ranked = true
			}
		}
		assert.True(t, ranked)
	}

	for _, name := range []string{"hard", "normal", "random"} {
		require.Contains(t, report.Stats.Profiles, name)
		assert.Equal(t, 3, report.Stats.Profiles[name].N)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := New(testConfig(t))
	require.NoError(t, err)
	a, err := first.Run(context.Background())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Workers = 1
	second, err := New(cfg)
	require.NoError(t, err)
	b, err := second.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.ID, b.ID)

	cfg = testConfig(t)
	cfg.Seed++
	third, err := New(cfg)
	require.NoError(t, err)
	c, err := third.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	sim, err := New(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseConfig(t *testing.T) {
	src := []byte(`
simulation {
  games   = 50
  seed    = 7
  workers = 3
  timeout = "5s"
  seats   = ["cautious", "normal", "random"]
}

profile "cautious" {
  base         = "hard"
  chase_weight = 90
}
`)
	cfg, err := ParseConfig(src, "sim.hcl")
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Games)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"cautious", "normal", "random"}, cfg.Profiles)
	require.Contains(t, cfg.Custom, "cautious")
	assert.Equal(t, 90.0, cfg.Custom["cautious"].ChaseWeight)

	cfg.Logger = testLogger()
	cfg.Clock = quartz.NewMock(t)
	_, err = New(cfg)
	assert.NoError(t, err)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("simulation {}\n"), "sim.hcl")
	require.NoError(t, err)
	assert.Equal(t, DefaultGames, cfg.Games)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Custom)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "simulation {"},
		{"missing simulation block", `profile "x" {}`},
		{"bad timeout", "simulation {\n  timeout = \"soon\"\n}"},
		{"negative games", "simulation {\n  games = -1\n}"},
		{"unknown block", "simulation {}\ntable \"main\" {}"},
		{"bad profile", "simulation {}\nprofile \"x\" {\n  win_prob_blend = 3\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.src), "sim.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.hcl")
	require.NoError(t, os.WriteFile(path, []byte("simulation {\n  games = 2\n}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Games)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	sim, err := New(testConfig(t))
	require.NoError(t, err)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(path, sim.Config(), report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved ReportFile
	require.NoError(t, json.Unmarshal(data, &saved))

	assert.Equal(t, report.ID, saved.ID)
	assert.Equal(t, int64(12345), saved.Seed)
	assert.Equal(t, 3, saved.Games)
	assert.Len(t, saved.Profiles, 3)
	assert.Len(t, saved.SeatMeans, 3)
	assert.Equal(t, report.Results, saved.Results)
	for _, p := range saved.Profiles {
		assert.Equal(t, 3, p.Seats)
		assert.LessOrEqual(t, p.CILow, p.CIHigh)
	}
}
