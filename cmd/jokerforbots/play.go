package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/bot"
	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/internal/simulator"
	"github.com/lox/jokerforbots/joker"
)

type PlayCmd struct {
	Seats    []string `default:"hard,normal,normal,easy" help:"Profile per seat: easy, normal, hard, random or a custom profile"`
	Profiles string   `type:"existingfile" help:"HCL file with custom profiles"`
	Seed     int64    `default:"0" help:"RNG seed (0 shuffles with crypto/rand)"`
	Tricks   bool     `help:"Print every trick"`
	Summary  bool     `help:"Print the deal history after the game"`
}

func (c *PlayCmd) Run(logger *log.Logger) error {
	custom := map[string]bot.Profile{}
	if c.Profiles != "" {
		loaded, err := bot.LoadProfiles(c.Profiles)
		if err != nil {
			return err
		}
		custom = loaded
	}

	names := make([]string, len(c.Seats))
	agents := make([]game.Agent, len(c.Seats))
	shuffle, rng := c.sources()
	for seat, name := range c.Seats {
		names[seat] = fmt.Sprintf("%s-%d", name, seat+1)
		agent, err := simulator.NewAgent(name, custom, rng, logger)
		if err != nil {
			return err
		}
		agents[seat] = agent
	}

	g, err := game.NewGame(names,
		game.WithRandSource(shuffle),
		game.WithLogger(logger))
	if err != nil {
		return err
	}

	formatter := game.NewEventFormatter(game.FormattingOptions{Names: names, ShowTricks: c.Tricks})
	g.EventBus().Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		if s := formatter.Format(e); s != "" {
			fmt.Println(s)
		}
	}))
	history := game.NewHistory()
	g.EventBus().Subscribe(history)

	engine, err := game.NewEngine(g, agents, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	title := fmt.Sprintf("GAME %s", g.ID())
	if c.Seed != 0 {
		title += fmt.Sprintf(" (seed %d)", c.Seed)
	}
	fmt.Println(headerStyle.Render(title))
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if c.Summary {
		fmt.Println()
		fmt.Println(history.Summary(names))
	}
	if result.Fallbacks > 0 {
		logger.Warn("Engine replaced bot decisions", "count", result.Fallbacks)
	}
	return nil
}

// sources returns the shuffle and bot randomness. Only an explicit seed
// makes them reproducible; otherwise both come from crypto/rand.
func (c *PlayCmd) sources() (shuffle, bots joker.RandSource) {
	if c.Seed == 0 {
		return joker.NewCryptoSource(), joker.NewCryptoSource()
	}
	return joker.NewSeededSource(c.Seed), joker.NewSeededSource(^c.Seed)
}
