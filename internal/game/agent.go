package game

import (
	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/joker"
)

// RoundView is the read-only state of a round as one seat sees it.
type RoundView struct {
	Seat         int
	PlayerCount  int
	Block        rules.Block
	RoundInBlock int
	CardsInRound int
	Dealer       int
	Trump        *joker.Suit
	TrumpCard    *joker.Card
	Hand         []joker.Card // only the acting seat's cards
	Players      []PlayerInfo
	Totals       []int
}

// IsDealer reports whether the viewing seat deals this round.
func (v RoundView) IsDealer() bool { return v.Seat == v.Dealer }

// Me returns the viewing seat's public state.
func (v RoundView) Me() PlayerInfo { return v.Players[v.Seat] }

// BidView is what a seat sees when asked to bid. During blind bidding
// PreDeal is set and the view holds no hand and no trump; a decision without
// Blind declines the blind bid.
type BidView struct {
	RoundView
	AllowedBids  []int
	CanBlind     bool
	PreDeal      bool
	OtherBidsSum int
}

// PlayView is what a seat sees when asked to play a card.
type PlayView struct {
	RoundView
	Trick        []rules.PlayedTrickCard
	LegalCards   []joker.Card
	PlayedCards  []joker.Card // every card played this round, trick included
	TricksPlayed int
}

// BidDecision is a bid with reasoning
type BidDecision struct {
	Value     int
	Blind     bool
	Reasoning string
}

// PlayDecision is a card play with reasoning
type PlayDecision struct {
	Card        joker.Card
	Style       rules.JokerStyle
	Declaration *rules.LeadDeclaration
	Reasoning   string
}

// Agent represents any entity (human or bot) that can make decisions for a
// seat. Agents receive immutable views and return decisions; the engine
// applies them.
type Agent interface {
	// ChooseTrump picks the trump of a round dealt without a trump card; nil
	// means no trump.
	ChooseTrump(view RoundView) *joker.Suit
	ChooseBid(view BidView) BidDecision
	ChoosePlay(view PlayView) PlayDecision
}

// RoundView returns the view of seat. Hands of other seats are never exposed.
func (g *Game) RoundView(seat int) RoundView {
	hand, _ := g.Hand(seat)
	return RoundView{
		Seat:         seat,
		PlayerCount:  len(g.players),
		Block:        g.block,
		RoundInBlock: g.roundInBlock,
		CardsInRound: g.CardsInRound(),
		Dealer:       g.dealer,
		Trump:        g.Trump(),
		TrumpCard:    g.TrumpCard(),
		Hand:         hand,
		Players:      g.Players(),
		Totals:       g.Totals(),
	}
}

// BidView returns the bidding view of seat.
func (g *Game) BidView(seat int) BidView {
	return BidView{
		RoundView:    g.RoundView(seat),
		AllowedBids:  g.AllowedBids(seat),
		CanBlind:     g.CanBidBlind(seat),
		PreDeal:      g.phase == PhaseBlindBidding,
		OtherBidsSum: g.otherBidsSum(seat),
	}
}

// PlayView returns the card play view of seat.
func (g *Game) PlayView(seat int) PlayView {
	return PlayView{
		RoundView:    g.RoundView(seat),
		Trick:        g.Trick(),
		LegalCards:   g.LegalCards(seat),
		PlayedCards:  g.PlayedCards(),
		TricksPlayed: g.tricksPlayed,
	}
}
