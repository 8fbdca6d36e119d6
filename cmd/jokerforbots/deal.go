package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/joker"
)

type DealCmd struct {
	Players int   `default:"4" help:"Number of players (3 or 4)"`
	Cards   int   `default:"0" help:"Cards per player (0 deals the whole deck)"`
	Seed    int64 `default:"0" help:"RNG seed (0 shuffles with crypto/rand)"`
}

func (c *DealCmd) Run(logger *log.Logger) error {
	n := c.Players
	if n < rules.MinPlayers || n > rules.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d, got %d", rules.MinPlayers, rules.MaxPlayers, n)
	}
	cards := c.Cards
	if cards == 0 {
		cards = rules.MaxCardsPerRound(n)
	}
	if cards < 1 || cards > rules.MaxCardsPerRound(n) {
		return fmt.Errorf("cards must be between 1 and %d for %d players", rules.MaxCardsPerRound(n), n)
	}

	var src joker.RandSource = joker.NewCryptoSource()
	if c.Seed != 0 {
		src = joker.NewSeededSource(c.Seed)
	}
	deck := joker.NewShuffledDeck(src)

	sel, ok := deck.PrepareFirstDealerSelection(n, 0)
	if !ok {
		return fmt.Errorf("no ace left to choose a dealer")
	}
	fmt.Println(headerStyle.Render("FIRST DEALER"))
	fmt.Printf("%s %s\n", labelStyle.Render("table card"), renderCard(sel.TableCard))
	for seat, dealt := range sel.Dealt {
		fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("seat %d    ", seat+1)), renderCards(dealt))
	}
	fmt.Printf("seat %d draws the first ace and deals\n\n", sel.Dealer+1)

	deck.Reset()
	if err := deck.Validate(); err != nil {
		return err
	}
	hands, trump, ok := deck.Deal(n, cards, rules.LeftOf(sel.Dealer, n))
	if !ok {
		return fmt.Errorf("deck cannot deal %d cards to %d players", cards, n)
	}
	logger.Debug("Dealt round", "players", n, "cards", cards, "remaining", deck.CardsRemaining())

	fmt.Println(headerStyle.Render(fmt.Sprintf("DEAL: %d CARDS", cards)))
	for seat, hand := range hands {
		sorted := append([]joker.Card(nil), hand...)
		joker.SortCards(sorted)
		fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("seat %d    ", seat+1)), renderCards(sorted))
	}

	switch {
	case trump == nil:
		fmt.Println(infoStyle.Render("every card dealt: the first bidder names trump"))
	case trump.IsJoker():
		fmt.Printf("trump card %s: no trump\n", renderCard(*trump))
	default:
		s, _ := trump.Suit()
		fmt.Printf("trump card %s: %s are trump\n", renderCard(*trump), s)
	}
	return nil
}
