package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/internal/scoring"
)

// Result is the outcome of a game driven by an Engine.
type Result struct {
	GameID    string
	Standings []Standing
	Blocks    []scoring.BlockResult
	Rounds    int
	Fallbacks int // decisions the engine had to replace
}

// Engine drives a Game with one Agent per seat from the first-dealer draw to
// the final scoreboard.
type Engine struct {
	game   *Game
	agents []Agent
	logger *log.Logger

	fallbacks int
}

// NewEngine creates an engine. agents[i] plays seat i.
func NewEngine(game *Game, agents []Agent, logger *log.Logger) (*Engine, error) {
	if len(agents) != game.PlayerCount() {
		return nil, fmt.Errorf("%w: %d agents for %d seats", ErrInvalidPlayerCount, len(agents), game.PlayerCount())
	}
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("agent for seat %d is nil", i)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		game:   game,
		agents: agents,
		logger: logger.WithPrefix("engine"),
	}, nil
}

// Game returns the game being driven.
func (e *Engine) Game() *Game {
	return e.game
}

// Run plays the game to the end. The context is checked between settled
// transitions; a cancelled game stays where it stopped and can be resumed by
// calling Run again.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	g := e.game
	if g.Phase() == PhaseNotStarted {
		sel, err := g.SelectFirstDealer()
		if err != nil {
			return nil, err
		}
		e.logger.Debug("First dealer drawn", "tableCard", sel.TableCard, "dealer", sel.Dealer)
		if err := g.StartGame(sel.Dealer); err != nil {
			return nil, err
		}
	}

	for g.Phase() != PhaseGameEnd {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.step(); err != nil {
			return nil, err
		}
	}

	return &Result{
		GameID:    g.ID(),
		Standings: g.Standings(),
		Blocks:    g.BlockResults(),
		Rounds:    g.RoundNumber(),
		Fallbacks: e.fallbacks,
	}, nil
}

// step performs exactly one transition.
func (e *Engine) step() error {
	g := e.game
	switch g.Phase() {
	case PhaseBlindBidding:
		return e.blindBid()
	case PhaseBidding:
		if g.NeedsTrumpChoice() {
			return e.chooseTrump()
		}
		return e.bid()
	case PhasePlaying:
		switch {
		case len(g.trick) == g.PlayerCount():
			_, err := g.ResolveTrick()
			return err
		case g.TricksPlayed() == g.CardsInRound():
			return g.CompleteRound()
		default:
			return e.play()
		}
	case PhaseRoundEnd:
		return g.StartNewRound()
	default:
		return fmt.Errorf("%w: engine cannot act in %s", ErrWrongPhase, g.Phase())
	}
}

func (e *Engine) chooseTrump() error {
	g := e.game
	seat := g.CurrentPlayer()
	suit := e.agents[seat].ChooseTrump(g.RoundView(seat))
	err := g.ChooseTrump(seat, suit)
	if err == nil {
		return nil
	}

	e.logger.Error("Failed to apply trump choice", "error", err, "seat", seat)
	e.fallbacks++
	return g.ChooseTrump(seat, nil)
}

func (e *Engine) blindBid() error {
	g := e.game
	seat := g.CurrentPlayer()
	decision := e.agents[seat].ChooseBid(g.BidView(seat))
	if !decision.Blind {
		return g.DeclineBlind(seat)
	}

	err := g.PlaceBid(seat, decision.Value, true)
	if err == nil {
		e.logger.Debug("Player bid blind",
			"seat", seat,
			"bid", decision.Value,
			"reasoning", decision.Reasoning)
		return nil
	}

	e.logger.Error("Failed to apply agent blind bid", "error", err, "seat", seat, "bid", decision.Value)
	e.fallbacks++
	return g.DeclineBlind(seat)
}

func (e *Engine) bid() error {
	g := e.game
	seat := g.CurrentPlayer()
	view := g.BidView(seat)
	decision := e.agents[seat].ChooseBid(view)

	err := g.PlaceBid(seat, decision.Value, decision.Blind)
	if err == nil {
		e.logger.Debug("Player bid",
			"seat", seat,
			"bid", decision.Value,
			"blind", decision.Blind,
			"reasoning", decision.Reasoning)
		return nil
	}

	// Log error and use first valid bid as fallback
	e.logger.Error("Failed to apply agent bid", "error", err, "seat", seat, "bid", decision.Value)
	if len(view.AllowedBids) == 0 {
		return errors.New("no valid bids available")
	}
	e.fallbacks++
	if err := g.PlaceBid(seat, view.AllowedBids[0], false); err != nil {
		return fmt.Errorf("fallback bid also failed: %w", err)
	}
	return nil
}

func (e *Engine) play() error {
	g := e.game
	seat := g.CurrentPlayer()
	view := g.PlayView(seat)
	decision := e.agents[seat].ChoosePlay(view)

	err := g.PlayCard(seat, decision.Card, decision.Style, decision.Declaration)
	if err == nil {
		e.logger.Debug("Player action",
			"seat", seat,
			"card", decision.Card,
			"style", decision.Style,
			"declaration", decision.Declaration,
			"reasoning", decision.Reasoning)
		return nil
	}

	e.logger.Error("Failed to apply agent play", "error", err, "seat", seat, "card", decision.Card)
	if len(view.LegalCards) == 0 {
		return errors.New("no valid cards available")
	}
	e.fallbacks++
	card := view.LegalCards[0]
	fallback := PlayDecision{Card: card}
	if card.IsJoker() {
		opt := rules.JokerOptions(len(view.Trick) == 0)[0]
		fallback.Style = opt.Style
		fallback.Declaration = opt.Declaration
	}
	if err := g.PlayCard(seat, fallback.Card, fallback.Style, fallback.Declaration); err != nil {
		return fmt.Errorf("fallback play also failed: %w", err)
	}
	return nil
}
