package bot

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/joker"
)

// Bot plays a seat with the bidding, trump and turn services of one profile.
// It satisfies game.Agent.
type Bot struct {
	profile Profile
	bidding *BiddingService
	trump   *TrumpService
	turn    *TurnStrategy
	logger  *log.Logger
}

var _ game.Agent = (*Bot)(nil)

// NewBot creates a new bot. rng feeds the profile's noise and may be nil.
func NewBot(profile Profile, logger *log.Logger, rng joker.RandSource) *Bot {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bot{
		profile: profile,
		bidding: NewBiddingService(profile),
		trump:   NewTrumpService(profile),
		turn:    NewTurnStrategy(profile, rng),
		logger:  logger.WithPrefix("bot"),
	}
}

// Profile returns the bot's profile.
func (b *Bot) Profile() Profile {
	return b.profile
}

// ChooseTrump looks at the first dealt cards only, like a player who must
// name trump before the rest of the hand is turned over.
func (b *Bot) ChooseTrump(view game.RoundView) *joker.Suit {
	visible := view.Hand[:min(VisibleTrumpCards, len(view.Hand))]
	suit := b.trump.ChooseTrump(visible, len(visible) < len(view.Hand))

	choice := "no trump"
	if suit != nil {
		choice = suit.String()
	}
	b.logger.Debug("Bot trump choice",
		"seat", view.Seat,
		"profile", b.profile.Name,
		"visible", joker.FormatCards(visible),
		"trump", choice)
	return suit
}

// ChooseBid returns the bid with the best expected score.
func (b *Bot) ChooseBid(view game.BidView) game.BidDecision {
	decision := b.bidding.ChooseBid(view)
	b.logger.Debug("Bot bid",
		"seat", view.Seat,
		"profile", b.profile.Name,
		"cards", view.CardsInRound,
		"bid", decision.Value,
		"blind", decision.Blind,
		"reasoning", decision.Reasoning)
	return decision
}

// ChoosePlay returns the card with the highest utility.
func (b *Bot) ChoosePlay(view game.PlayView) game.PlayDecision {
	thinking := &ThinkingContext{}

	best, ok := b.turn.ChooseCard(view)
	if !ok {
		return game.PlayDecision{Reasoning: "no legal cards"}
	}

	me := view.Me()
	switch need := me.CurrentBid - me.TricksTaken; {
	case need > 0:
		thinking.AddThought(fmt.Sprintf("Need %d more tricks", need))
	case need == 0:
		thinking.AddThought("Bid made, avoiding tricks")
	default:
		thinking.AddThought(fmt.Sprintf("Over the bid by %d", -need))
	}
	if best.WinsNow {
		thinking.AddThought(fmt.Sprintf("%s wins now, holds with %.0f%%", best.Card, best.WinProbability*100))
	} else {
		thinking.AddThought(fmt.Sprintf("%s does not take the trick", best.Card))
	}
	if best.Declaration != nil {
		thinking.AddThought("Declaring " + best.Declaration.String())
	} else if best.Card.IsJoker() {
		thinking.AddThought("Joker " + best.Style.String())
	}

	decision := best.Decision()
	decision.Reasoning = thinking.GetThoughts()

	b.logger.Debug("Bot play",
		"seat", view.Seat,
		"profile", b.profile.Name,
		"card", best.Card.String(),
		"utility", best.Utility,
		"projectedTricks", best.ProjectedTricks,
		"reasoning", decision.Reasoning)
	return decision
}

// ThinkingContext accumulates bot thoughts during decision making
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(thought string) {
	tc.thoughts = append(tc.thoughts, thought)
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(tc.thoughts, ". ")
}
