package bot

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/joker"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func suitPtr(s joker.Suit) *joker.Suit { return &s }

func played(seat int, card string) rules.PlayedTrickCard {
	c := joker.MustParseCards(card)[0]
	return rules.PlayedTrickCard{PlayerIndex: seat, Card: c}
}

// seatState describes the viewing seat of a test view.
type seatState struct {
	players int
	seat    int
	cards   int
	bid     int
	taken   int
}

func roundView(st seatState, hand string, trump *joker.Suit) game.RoundView {
	infos := make([]game.PlayerInfo, st.players)
	for i := range infos {
		infos[i].PlayerNumber = i
	}
	infos[st.seat].CurrentBid = st.bid
	infos[st.seat].HasBid = true
	infos[st.seat].TricksTaken = st.taken
	return game.RoundView{
		Seat:         st.seat,
		PlayerCount:  st.players,
		Block:        rules.BlockAscending,
		CardsInRound: st.cards,
		Trump:        trump,
		Hand:         joker.MustParseCards(hand),
		Players:      infos,
		Totals:       make([]int, st.players),
	}
}

// playView builds the view of a seat about to play with hand into trick. The
// hand must hold one card per trick left.
func playView(st seatState, hand string, trick []rules.PlayedTrickCard, trump *joker.Suit) game.PlayView {
	rv := roundView(st, hand, trump)
	var cards []joker.Card
	for _, pc := range trick {
		cards = append(cards, pc.Card)
	}
	return game.PlayView{
		RoundView:    rv,
		Trick:        trick,
		LegalCards:   rules.LegalCards(rv.Hand, trick, trump),
		PlayedCards:  cards,
		TricksPlayed: st.cards - len(rv.Hand),
	}
}

func bidView(st seatState, hand string, trump *joker.Suit, isDealer bool, otherBids int) game.BidView {
	rv := roundView(st, hand, trump)
	rv.Players[st.seat].HasBid = false
	if isDealer {
		rv.Dealer = st.seat
	} else {
		rv.Dealer = (st.seat + 1) % st.players
	}
	return game.BidView{
		RoundView:    rv,
		AllowedBids:  rules.AllowedBids(st.cards, isDealer, otherBids),
		OtherBidsSum: otherBids,
	}
}
