package joker

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Diamonds Suit = iota
	Hearts
	Spades
	Clubs
)

// Suits lists every suit in table order.
var Suits = [4]Suit{Diamonds, Hearts, Spades, Clubs}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single-letter code used by ParseCard.
func (s Suit) Letter() string {
	switch s {
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// IsRed returns true for diamonds and hearts
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s <= Clubs
}

// Rank represents a card rank, 6 through Ace.
type Rank uint8

const (
	Six Rank = iota + 6
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// MinRank and MaxRank bound the ranks present in the deck.
const (
	MinRank = Six
	MaxRank = Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether r lies in 6..Ace.
func (r Rank) Valid() bool {
	return r >= MinRank && r <= MaxRank
}

// Normalized maps the rank onto [0, 1], six being 0 and ace 1.
func (r Rank) Normalized() float64 {
	return float64(r-MinRank) / float64(MaxRank-MinRank)
}

// Kind tags the two card variants.
type Kind uint8

const (
	Regular Kind = iota
	JokerKind
)

// Card is either a regular suit/rank card or a joker. The zero value is not a
// valid card; use NewCard or Joker.
type Card struct {
	kind Kind
	suit Suit
	rank Rank
}

// NewCard creates a regular card
func NewCard(suit Suit, rank Rank) Card {
	return Card{kind: Regular, suit: suit, rank: rank}
}

// Joker returns the joker card. All jokers compare equal.
func Joker() Card {
	return Card{kind: JokerKind}
}

// Kind returns the card variant.
func (c Card) Kind() Kind { return c.kind }

// IsJoker reports whether the card is a joker.
func (c Card) IsJoker() bool { return c.kind == JokerKind }

// Suit returns the suit of a regular card. ok is false for jokers.
func (c Card) Suit() (Suit, bool) {
	if c.kind == JokerKind {
		return 0, false
	}
	return c.suit, true
}

// Rank returns the rank of a regular card. ok is false for jokers.
func (c Card) Rank() (Rank, bool) {
	if c.kind == JokerKind {
		return 0, false
	}
	return c.rank, true
}

// HasSuit reports whether c is a regular card of suit s.
func (c Card) HasSuit(s Suit) bool {
	return c.kind == Regular && c.suit == s
}

// IsTrump reports whether c is a regular card of the trump suit. A nil trump
// means the round is played without trump.
func (c Card) IsTrump(trump *Suit) bool {
	return trump != nil && c.HasSuit(*trump)
}

// Valid reports whether the card is a joker or a card that exists in the deck.
func (c Card) Valid() bool {
	switch c.kind {
	case JokerKind:
		return true
	case Regular:
		return c.suit.Valid() && c.rank.Valid()
	default:
		return false
	}
}

// String returns the string representation of a card (e.g., "A♠", "JK")
func (c Card) String() string {
	switch c.kind {
	case JokerKind:
		return "JK"
	default:
		return c.rank.String() + c.suit.String()
	}
}

// Code returns the ASCII form accepted by ParseCard, e.g. "As" or "X".
func (c Card) Code() string {
	if c.kind == JokerKind {
		return "X"
	}
	return c.rank.String() + c.suit.Letter()
}

// Compare orders regular cards by suit then rank, with jokers after every
// regular card.
func Compare(a, b Card) int {
	switch {
	case a.kind == JokerKind && b.kind == JokerKind:
		return 0
	case a.kind == JokerKind:
		return 1
	case b.kind == JokerKind:
		return -1
	}
	if c := cmp.Compare(a.suit, b.suit); c != 0 {
		return c
	}
	return cmp.Compare(a.rank, b.rank)
}

// Less reports whether c sorts before other.
func (c Card) Less(other Card) bool {
	return Compare(c, other) < 0
}

// Beats reports whether c beats other when both are in the same trick. Jokers
// beat everything except another joker, trump beats non-trump and cards of the
// same suit compare by rank. Cards of two different non-trump suits never beat
// each other; the resolver settles that case by play order.
func (c Card) Beats(other Card, trump *Suit) bool {
	switch {
	case c.kind == JokerKind:
		return other.kind != JokerKind
	case other.kind == JokerKind:
		return false
	}
	if c.suit == other.suit {
		return c.rank > other.rank
	}
	return c.IsTrump(trump)
}

// SortCards sorts cards in place using Compare.
func SortCards(cards []Card) {
	slices.SortFunc(cards, Compare)
}

// ContainsCard reports whether hand holds c.
func ContainsCard(hand []Card, c Card) bool {
	return slices.Contains(hand, c)
}

// RemoveCard returns hand without the first occurrence of c.
func RemoveCard(hand []Card, c Card) ([]Card, bool) {
	idx := slices.Index(hand, c)
	if idx < 0 {
		return hand, false
	}
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	return append(out, hand[idx+1:]...), true
}

// FormatCards joins the cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCard parses a two-character card like "As", "Td" or "6h". Jokers are
// written "X" or "JK".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "X", "JK":
		return Joker(), nil
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var rank Rank
	switch strings.ToUpper(s[:1]) {
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	var suit Suit
	switch strings.ToLower(s[1:]) {
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	case "c":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a whitespace separated list such as "As Kd X 6h".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
