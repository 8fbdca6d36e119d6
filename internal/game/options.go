package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/jokerforbots/internal/gameid"
	"github.com/lox/jokerforbots/joker"
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	deck   *joker.Deck
	src    joker.RandSource
	clock  quartz.Clock
	logger *log.Logger
	bus    EventBus
	id     string
}

func defaultConfig() *gameConfig {
	return &gameConfig{
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
}

// WithDeck sets the deck to deal from. It is reset and reshuffled before
// every round.
func WithDeck(d *joker.Deck) Option {
	return func(c *gameConfig) {
		c.deck = d
	}
}

// WithRandSource sets the shuffle randomness when no deck is given. The
// default is the cryptographic source.
func WithRandSource(src joker.RandSource) Option {
	return func(c *gameConfig) {
		c.src = src
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) {
		c.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithEventBus publishes game events on bus instead of a private one.
func WithEventBus(bus EventBus) Option {
	return func(c *gameConfig) {
		c.bus = bus
	}
}

// WithGameID overrides the generated game ID.
func WithGameID(id string) Option {
	return func(c *gameConfig) {
		c.id = id
	}
}

func (c *gameConfig) finish() {
	if c.id == "" {
		c.id = gameid.NewGenerator(c.clock, nil).Generate()
	}
	if c.bus == nil {
		c.bus = NewEventBus()
	}
	if c.deck == nil {
		c.deck = joker.NewDeck(c.src)
	}
}
