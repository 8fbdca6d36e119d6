package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/jokerforbots/internal/bot"
	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/internal/gameid"
	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/internal/statistics"
	"github.com/lox/jokerforbots/joker"
)

// RandomProfile seats a bot that plays uniformly random legal moves.
const RandomProfile = "random"

// DefaultTimeout bounds a single game.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Players  int                    // defaults to the number of profiles
	Profiles []string               // line-up by seat; rotates one seat per game
	Custom   map[string]bot.Profile // looked up before the presets
	Seed     int64
	Workers  int // games played concurrently; defaults to the CPU count
	Timeout  time.Duration
	Logger   *log.Logger
	Clock    quartz.Clock
}

// Report is the outcome of a simulation run
type Report struct {
	ID        string
	Stats     *statistics.Statistics
	Results   []statistics.GameResult // in game order
	Fallbacks int                     // bot decisions the engine replaced
	Elapsed   time.Duration
}

// Simulator runs bot-only games
type Simulator struct {
	config Config
	agents []agentFactory
}

type agentFactory func(rng joker.RandSource, logger *log.Logger) game.Agent

// ErrNoGames is returned when a simulation has nothing to play.
var ErrNoGames = errors.New("simulation needs at least one game")

// New creates a new simulator with the given configuration. Defaults are
// filled in and every profile name is resolved up front.
func New(config Config) (*Simulator, error) {
	if config.Games <= 0 {
		return nil, ErrNoGames
	}
	if len(config.Profiles) == 0 {
		players := config.Players
		if players == 0 {
			players = rules.MaxPlayers
		}
		for range players {
			config.Profiles = append(config.Profiles, bot.Normal.Name)
		}
	}
	if config.Players == 0 {
		config.Players = len(config.Profiles)
	}
	if config.Players != len(config.Profiles) {
		return nil, fmt.Errorf("%d profiles for %d players", len(config.Profiles), config.Players)
	}
	if config.Players < rules.MinPlayers || config.Players > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: %d", game.ErrInvalidPlayerCount, config.Players)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}

	s := &Simulator{config: config}
	for _, name := range config.Profiles {
		f, err := agentFor(name, config.Custom)
		if err != nil {
			return nil, err
		}
		s.agents = append(s.agents, f)
	}
	return s, nil
}

// NewAgent creates the agent for a profile name: RandomProfile, a custom
// profile or a preset.
func NewAgent(name string, custom map[string]bot.Profile, rng joker.RandSource, logger *log.Logger) (game.Agent, error) {
	f, err := agentFor(name, custom)
	if err != nil {
		return nil, err
	}
	return f(rng, logger), nil
}

func agentFor(name string, custom map[string]bot.Profile) (agentFactory, error) {
	if name == RandomProfile {
		return func(rng joker.RandSource, logger *log.Logger) game.Agent {
			return bot.NewRandBot(rng, logger)
		}, nil
	}
	p, ok := custom[name]
	if !ok {
		var err error
		if p, err = bot.ProfileByName(name); err != nil {
			return nil, err
		}
	}
	return func(rng joker.RandSource, logger *log.Logger) game.Agent {
		return bot.NewBot(p, logger, rng)
	}, nil
}

// Config returns the configuration with defaults applied.
func (s *Simulator) Config() Config {
	return s.config
}

// Run plays every game and aggregates the results. Games run on up to
// Workers goroutines; results are recorded in game order so a seed always
// yields the same report.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	logger := s.config.Logger.WithPrefix("simulator")
	start := s.config.Clock.Now()
	report := &Report{ID: s.reportID()}

	results := make([]statistics.GameResult, s.config.Games)
	fallbacks := make([]int, s.config.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Games {
		g.Go(func() error {
			res, fb, err := s.playGame(gctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			fallbacks[i] = fb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for i, res := range results {
		if err := stats.Add(res); err != nil {
			return nil, err
		}
		report.Fallbacks += fallbacks[i]
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	report.Stats = stats
	report.Results = results
	report.Elapsed = s.config.Clock.Since(start)
	logger.Info("Simulation complete",
		"id", report.ID,
		"games", s.config.Games,
		"fallbacks", report.Fallbacks,
		"elapsed", report.Elapsed)
	return report, nil
}

// reportID names a run by what determines its results, so the same seed and
// lineup always produce the same ID.
func (s *Simulator) reportID() string {
	key := fmt.Sprintf("jokerforbots/simulation/%d/%d/%s",
		s.config.Seed, s.config.Games, strings.Join(s.config.Profiles, ","))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// Lineup returns the profile seated at each seat in game i.
func (s *Simulator) Lineup(i int) []string {
	n := s.config.Players
	lineup := make([]string, n)
	for seat := range lineup {
		lineup[seat] = s.config.Profiles[(seat+i)%n]
	}
	return lineup
}

// playGame plays game i with its own seeded sources and a timeout.
func (s *Simulator) playGame(ctx context.Context, i int) (statistics.GameResult, int, error) {
	seed := s.config.Seed + int64(i)
	n := s.config.Players
	lineup := s.Lineup(i)

	logger := s.config.Logger
	debug := logger.WithPrefix("simulator")
	names := make([]string, n)
	agents := make([]game.Agent, n)
	botRng := joker.NewSeededSource(^seed)
	for seat := range agents {
		names[seat] = fmt.Sprintf("%s-%d", lineup[seat], seat+1)
		agents[seat] = s.agents[(seat+i)%n](botRng, logger)
	}

	g, err := game.NewGame(names,
		game.WithGameID(gameid.NewGenerator(s.config.Clock, joker.NewSeededSource(seed)).Generate()),
		game.WithRandSource(joker.NewSeededSource(seed)),
		game.WithClock(s.config.Clock),
		game.WithLogger(logger))
	if err != nil {
		return statistics.GameResult{}, 0, err
	}
	engine, err := game.NewEngine(g, agents, logger)
	if err != nil {
		return statistics.GameResult{}, 0, err
	}

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()
	timer := s.config.Clock.AfterFunc(s.config.Timeout, cancel, "simulator", "timeout")
	defer timer.Stop()

	result, err := engine.Run(gctx)
	if err != nil {
		if ctx.Err() == nil && gctx.Err() != nil {
			err = fmt.Errorf("timed out after %v: %w", s.config.Timeout, err)
		}
		return statistics.GameResult{}, 0, fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
	}

	debug.Debug("Game finished", "game", i+1, "seed", seed, "id", result.GameID, "fallbacks", result.Fallbacks)
	return gameResult(seed, lineup, result), result.Fallbacks, nil
}

func gameResult(seed int64, lineup []string, result *game.Result) statistics.GameResult {
	seats := make([]statistics.SeatResult, len(lineup))
	for seat := range seats {
		seats[seat] = statistics.SeatResult{Seat: seat, Profile: lineup[seat]}
		for _, b := range result.Blocks {
			if b.IsPremium(seat) {
				seats[seat].Premiums++
			}
			seats[seat].PenaltiesTaken += b.PenaltyTotals[seat]
		}
	}
	for _, st := range result.Standings {
		seats[st.PlayerNumber].Score = st.Score
		seats[st.PlayerNumber].Rank = st.Rank
	}
	return statistics.GameResult{Seed: seed, Seats: seats}
}
