package joker

import "fmt"

// DeckSize is the number of cards in a full deck, jokers included.
const DeckSize = 36

// JokerCount is the number of jokers in a full deck.
const JokerCount = 2

// jokerSlots are the regular cards whose places the jokers take.
var jokerSlots = [JokerCount]Card{
	NewCard(Spades, Six),
	NewCard(Clubs, Six),
}

// IsJokerSlot reports whether c is one of the sixes removed from the deck.
func IsJokerSlot(c Card) bool {
	return c == jokerSlots[0] || c == jokerSlots[1]
}

// Deck is the 36-card deck: 6 through Ace in each suit with two of the sixes
// replaced by jokers.
type Deck struct {
	cards [DeckSize]Card
	next  int
	src   RandSource
}

// NewDeck creates an ordered deck. A nil source uses crypto/rand.
func NewDeck(src RandSource) *Deck {
	if src == nil {
		src = NewCryptoSource()
	}
	d := &Deck{src: src}
	d.fill()
	return d
}

// NewShuffledDeck creates a deck and shuffles it once.
func NewShuffledDeck(src RandSource) *Deck {
	d := NewDeck(src)
	d.Shuffle()
	return d
}

// FullDeck returns the 36 cards in creation order.
func FullDeck() []Card {
	var d Deck
	d.fill()
	return d.Cards()
}

func (d *Deck) fill() {
	i := 0
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			c := NewCard(suit, rank)
			if IsJokerSlot(c) {
				c = Joker()
			}
			d.cards[i] = c
			i++
		}
	}
	d.next = 0
}

// Shuffle puts every card back and mixes the deck. A few cut and riffle passes
// imitate a physical shuffle; the final Fisher-Yates pass over the random
// source is what makes every permutation equally likely.
func (d *Deck) Shuffle() {
	d.next = 0
	passes := 2 + d.src.Intn(3)
	for range passes {
		d.cutAndRiffle()
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.src.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// cutAndRiffle cuts near the middle (±20%) and interleaves the two packets in
// chunks of one to three cards.
func (d *Deck) cutAndRiffle() {
	n := len(d.cards)
	spread := n / 5
	cut := n/2 - spread + d.src.Intn(2*spread+1)

	left := append([]Card(nil), d.cards[:cut]...)
	right := append([]Card(nil), d.cards[cut:]...)
	fromLeft := d.src.Intn(2) == 0

	out := d.cards[:0]
	for len(left) > 0 || len(right) > 0 {
		pile := &right
		if fromLeft {
			pile = &left
		}
		chunk := min(1+d.src.Intn(3), len(*pile))
		out = append(out, (*pile)[:chunk]...)
		*pile = (*pile)[chunk:]
		fromLeft = !fromLeft
	}
}

// Reset rebuilds the full deck and shuffles it
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}

// DrawCard removes and returns the top card. ok is false on an empty deck.
func (d *Deck) DrawCard() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	c := d.cards[d.next]
	d.next++
	return c, true
}

// Peek returns the top card without removing it from the deck
func (d *Deck) Peek() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	return d.cards[d.next], true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undealt cards, top first.
func (d *Deck) Cards() []Card {
	out := make([]Card, d.CardsRemaining())
	copy(out, d.cards[d.next:])
	return out
}

// Deal hands out perPlayer cards to each of playerCount seats, one at a time,
// starting with startIndex. The trump card is the new top of the deck when any
// cards remain; it stays in the deck. Nothing is dealt and ok is false when
// the arguments are out of range or the deck is too short.
func (d *Deck) Deal(playerCount, perPlayer, startIndex int) (hands [][]Card, trump *Card, ok bool) {
	if playerCount <= 0 || perPlayer < 0 || startIndex < 0 || startIndex >= playerCount {
		return nil, nil, false
	}
	if playerCount*perPlayer > d.CardsRemaining() {
		return nil, nil, false
	}

	hands = make([][]Card, playerCount)
	for i := range hands {
		hands[i] = make([]Card, 0, perPlayer)
	}
	for range perPlayer {
		for i := range playerCount {
			seat := (startIndex + i) % playerCount
			c, _ := d.DrawCard()
			hands[seat] = append(hands[seat], c)
		}
	}

	if top, ok := d.Peek(); ok {
		trump = &top
	}
	return hands, trump, true
}

// FirstDealerSelection records the ritual used to pick the first dealer.
type FirstDealerSelection struct {
	TableCard Card     // discarded face up before dealing starts
	Dealt     [][]Card // cards each seat received, in order
	Order     []int    // seat that received each dealt card
	Dealer    int      // first seat to receive an ace
}

// PrepareFirstDealerSelection puts one card on the table, then deals single
// cards around the circle from startIndex until a seat receives an ace. That
// seat deals first. A full deck holds four aces, so this always finishes; ok is
// false only when the remaining cards contain no ace.
func (d *Deck) PrepareFirstDealerSelection(playerCount, startIndex int) (FirstDealerSelection, bool) {
	if playerCount <= 0 || startIndex < 0 || startIndex >= playerCount {
		return FirstDealerSelection{}, false
	}
	if !d.hasAceRemaining() {
		return FirstDealerSelection{}, false
	}

	table, ok := d.DrawCard()
	if !ok {
		return FirstDealerSelection{}, false
	}
	sel := FirstDealerSelection{
		TableCard: table,
		Dealt:     make([][]Card, playerCount),
	}
	for i := 0; ; i++ {
		c, ok := d.DrawCard()
		if !ok {
			return FirstDealerSelection{}, false
		}
		seat := (startIndex + i) % playerCount
		sel.Dealt[seat] = append(sel.Dealt[seat], c)
		sel.Order = append(sel.Order, seat)
		if r, ok := c.Rank(); ok && r == Ace {
			sel.Dealer = seat
			return sel, true
		}
	}
}

// hasAceRemaining reports whether an ace is still undealt below the top card,
// which the ritual discards.
func (d *Deck) hasAceRemaining() bool {
	for _, c := range d.cards[min(d.next+1, len(d.cards)):] {
		if r, ok := c.Rank(); ok && r == Ace {
			return true
		}
	}
	return false
}

// Validate checks the composition of a full, undealt deck.
func (d *Deck) Validate() error {
	return ValidateComposition(d.cards[:])
}

// ValidateComposition checks that cards form exactly one deck: 2 jokers, 34
// distinct regular cards and none of the replaced sixes.
func ValidateComposition(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("deck has %d cards, want %d", len(cards), DeckSize)
	}
	jokers := 0
	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("invalid card %v", c)
		}
		if c.IsJoker() {
			jokers++
			continue
		}
		if IsJokerSlot(c) {
			return fmt.Errorf("card %v should have been replaced by a joker", c)
		}
		if seen[c] {
			return fmt.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if jokers != JokerCount {
		return fmt.Errorf("deck has %d jokers, want %d", jokers, JokerCount)
	}
	return nil
}
