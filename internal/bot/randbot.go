package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/joker"
)

// RandBot is a simple bot that makes uniform random legal decisions. It never
// bids blind.
type RandBot struct {
	rng    joker.RandSource
	logger *log.Logger
}

var _ game.Agent = (*RandBot)(nil)

// NewRandBot creates a new RandBot instance
func NewRandBot(rng joker.RandSource, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

// ChooseTrump picks one of the four suits or no trump with equal odds.
func (r *RandBot) ChooseTrump(game.RoundView) *joker.Suit {
	i := r.rng.Intn(len(joker.Suits) + 1)
	if i == len(joker.Suits) {
		return nil
	}
	suit := joker.Suits[i]
	return &suit
}

func (r *RandBot) ChooseBid(view game.BidView) game.BidDecision {
	if view.PreDeal {
		return game.BidDecision{Reasoning: "rand-bot never bids blind"}
	}
	if len(view.AllowedBids) == 0 {
		return game.BidDecision{Reasoning: "rand-bot no legal bids"}
	}
	bid := view.AllowedBids[r.rng.Intn(len(view.AllowedBids))]
	return game.BidDecision{Value: bid, Reasoning: "rand-bot random bid"}
}

func (r *RandBot) ChoosePlay(view game.PlayView) game.PlayDecision {
	if len(view.LegalCards) == 0 {
		return game.PlayDecision{Reasoning: "rand-bot no legal cards"}
	}
	card := view.LegalCards[r.rng.Intn(len(view.LegalCards))]
	decision := game.PlayDecision{Card: card, Style: rules.FaceUp, Reasoning: "rand-bot random card"}
	if card.IsJoker() {
		opts := rules.JokerOptions(len(view.Trick) == 0)
		opt := opts[r.rng.Intn(len(opts))]
		decision.Style = opt.Style
		decision.Declaration = opt.Declaration
	}
	if r.logger != nil {
		r.logger.Debug("Random play", "seat", view.Seat, "card", card.String())
	}
	return decision
}
