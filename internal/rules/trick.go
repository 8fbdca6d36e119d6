package rules

import (
	"errors"
	"fmt"

	"github.com/lox/jokerforbots/joker"
)

// JokerStyle is how a joker is put on the table. It is ignored for regular
// cards.
type JokerStyle uint8

const (
	FaceUp JokerStyle = iota
	FaceDown
)

// String returns the string representation of a joker style
func (s JokerStyle) String() string {
	switch s {
	case FaceUp:
		return "face-up"
	case FaceDown:
		return "face-down"
	default:
		return "unknown"
	}
}

// DeclarationKind names what a leading joker asks of the trick.
type DeclarationKind uint8

const (
	// Wish: the joker wants the trick and sets no suit.
	Wish DeclarationKind = iota
	// Above: the joker plays as a card of the named suit above every real card.
	Above
	// Takes: the joker plays as a card of the named suit below every real card.
	Takes
)

// String returns the string representation of a declaration kind
func (k DeclarationKind) String() string {
	switch k {
	case Wish:
		return "wish"
	case Above:
		return "above"
	case Takes:
		return "takes"
	default:
		return "unknown"
	}
}

// LeadDeclaration is only legal on a joker that leads a trick.
type LeadDeclaration struct {
	Kind DeclarationKind
	Suit joker.Suit // unused for Wish
}

// String returns e.g. "wish", "above ♥", "takes ♠".
func (d LeadDeclaration) String() string {
	if d.Kind == Wish {
		return d.Kind.String()
	}
	return d.Kind.String() + " " + d.Suit.String()
}

// DeclareWish returns a wish declaration.
func DeclareWish() *LeadDeclaration {
	return &LeadDeclaration{Kind: Wish}
}

// DeclareAbove returns an above declaration for suit s.
func DeclareAbove(s joker.Suit) *LeadDeclaration {
	return &LeadDeclaration{Kind: Above, Suit: s}
}

// DeclareTakes returns a takes declaration for suit s.
func DeclareTakes(s joker.Suit) *LeadDeclaration {
	return &LeadDeclaration{Kind: Takes, Suit: s}
}

// PlayedTrickCard is one card on the table. Style and Declaration only matter
// for jokers.
type PlayedTrickCard struct {
	PlayerIndex int
	Card        joker.Card
	Style       JokerStyle
	Declaration *LeadDeclaration
}

// String returns a compact description such as "2:JK(above ♥)".
func (p PlayedTrickCard) String() string {
	s := fmt.Sprintf("%d:%s", p.PlayerIndex, p.Card)
	if !p.Card.IsJoker() {
		return s
	}
	if p.Declaration != nil {
		return s + "(" + p.Declaration.String() + ")"
	}
	return s + "(" + p.Style.String() + ")"
}

// JokerPlay is one way of playing a joker.
type JokerPlay struct {
	Style       JokerStyle
	Declaration *LeadDeclaration
}

// JokerOptions lists every legal way to play a joker. A leading joker must
// declare wish, or above/takes for a suit; a following joker goes face down or
// face up. Face down comes first.
func JokerOptions(leading bool) []JokerPlay {
	if !leading {
		return []JokerPlay{{Style: FaceDown}, {Style: FaceUp}}
	}
	opts := []JokerPlay{{Style: FaceUp, Declaration: DeclareWish()}}
	for _, s := range joker.Suits {
		opts = append(opts, JokerPlay{Style: FaceUp, Declaration: DeclareAbove(s)})
	}
	for _, s := range joker.Suits {
		opts = append(opts, JokerPlay{Style: FaceUp, Declaration: DeclareTakes(s)})
	}
	return opts
}

// Joker play errors.
var (
	ErrDeclarationRequired = errors.New("leading joker must declare wish, above or takes")
	ErrDeclarationNotLead  = errors.New("only a leading joker may declare")
	ErrInvalidDeclaration  = errors.New("invalid joker declaration")
	ErrStyleOnRegularCard  = errors.New("only jokers can be played face down")
)

// ValidateJokerPlay checks the style and declaration of a card about to join
// a trick that already holds trickLen cards.
func ValidateJokerPlay(trickLen int, card joker.Card, style JokerStyle, decl *LeadDeclaration) error {
	if !card.IsJoker() {
		if decl != nil {
			return ErrDeclarationNotLead
		}
		if style != FaceUp {
			return ErrStyleOnRegularCard
		}
		return nil
	}
	if style != FaceUp && style != FaceDown {
		return fmt.Errorf("%w: style %d", ErrInvalidDeclaration, style)
	}
	if trickLen > 0 {
		if decl != nil {
			return ErrDeclarationNotLead
		}
		return nil
	}
	if decl == nil {
		return ErrDeclarationRequired
	}
	if style != FaceUp {
		return fmt.Errorf("%w: a leading joker is played face up", ErrInvalidDeclaration)
	}
	switch decl.Kind {
	case Wish:
		return nil
	case Above, Takes:
		if !decl.Suit.Valid() {
			return fmt.Errorf("%w: suit %d", ErrInvalidDeclaration, decl.Suit)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidDeclaration, decl.Kind)
	}
}

// LeadContext is what the first card of a trick asks of the others.
type LeadContext struct {
	Suit    joker.Suit
	HasSuit bool // false when the lead sets no suit (wish)
}

// Lead returns the lead context of a trick. ok is false for an empty trick.
func Lead(trick []PlayedTrickCard) (ctx LeadContext, ok bool) {
	if len(trick) == 0 {
		return LeadContext{}, false
	}
	first := trick[0]
	if s, isRegular := first.Card.Suit(); isRegular {
		return LeadContext{Suit: s, HasSuit: true}, true
	}
	if d := first.Declaration; d != nil && (d.Kind == Above || d.Kind == Takes) {
		return LeadContext{Suit: d.Suit, HasSuit: true}, true
	}
	return LeadContext{}, true
}

// CanPlayCard reports whether card may join trick. The card must be in hand.
// Leading is free and a joker is always legal. Otherwise the lead suit must
// be followed; without it a player holding trump must play trump; holding
// neither, anything goes.
func CanPlayCard(hand []joker.Card, trick []PlayedTrickCard, trump *joker.Suit, card joker.Card) bool {
	if !joker.ContainsCard(hand, card) {
		return false
	}
	if card.IsJoker() {
		return true
	}
	lead, ok := Lead(trick)
	if !ok || !lead.HasSuit {
		return true
	}
	if card.HasSuit(lead.Suit) {
		return true
	}
	if holdsSuit(hand, lead.Suit) {
		return false
	}
	if trump != nil && holdsSuit(hand, *trump) {
		return card.IsTrump(trump)
	}
	return true
}

// LegalCards returns the distinct cards of hand that may join trick, in hand
// order.
func LegalCards(hand []joker.Card, trick []PlayedTrickCard, trump *joker.Suit) []joker.Card {
	out := make([]joker.Card, 0, len(hand))
	for _, c := range hand {
		if joker.ContainsCard(out, c) {
			continue
		}
		if CanPlayCard(hand, trick, trump, c) {
			out = append(out, c)
		}
	}
	return out
}

func holdsSuit(hand []joker.Card, s joker.Suit) bool {
	for _, c := range hand {
		if c.HasSuit(s) {
			return true
		}
	}
	return false
}

// IsWild reports whether the card at position i of a trick wins outright: a
// leading joker declaring wish (or nothing), or a following joker played face
// up.
func IsWild(trick []PlayedTrickCard, i int) bool {
	pc := trick[i]
	if !pc.Card.IsJoker() {
		return false
	}
	if i == 0 {
		return pc.Declaration == nil || pc.Declaration.Kind == Wish
	}
	return pc.Style == FaceUp
}

// Virtual ranks for declared jokers, outside the 6..14 range of real cards.
const (
	rankBelowAll = 0
	rankAboveAll = 20
)

// strength classes for ordinary resolution
const (
	classNone = iota
	classLead
	classTrump
)

// WinnerPlayerIndex returns the PlayerIndex of the card that takes the trick.
//
// The last wild joker wins if there is one. Otherwise a leading "above" joker
// counts as a card of its suit above every real card, and a leading "takes"
// joker as one below every real card of its suit. Face-down jokers rank
// nothing. Trump beats the lead suit, the highest card wins within a class,
// and if nothing else qualifies the leader keeps the trick. ok is false for an
// empty trick.
func WinnerPlayerIndex(trick []PlayedTrickCard, trump *joker.Suit) (int, bool) {
	if len(trick) == 0 {
		return 0, false
	}
	if i := lastWild(trick); i >= 0 {
		return trick[i].PlayerIndex, true
	}

	lead, _ := Lead(trick)
	best, bestClass, bestRank := 0, classNone, 0
	for i, pc := range trick {
		class, rank := strength(pc, i, lead, trump)
		if class == classNone {
			continue
		}
		if class > bestClass || (class == bestClass && rank > bestRank) {
			best, bestClass, bestRank = i, class, rank
		}
	}
	return trick[best].PlayerIndex, true
}

// WinningPosition is WinnerPlayerIndex but returns the position in the trick.
func WinningPosition(trick []PlayedTrickCard, trump *joker.Suit) (int, bool) {
	winner, ok := WinnerPlayerIndex(trick, trump)
	if !ok {
		return 0, false
	}
	for i, pc := range trick {
		if pc.PlayerIndex == winner {
			return i, true
		}
	}
	return 0, false
}

func lastWild(trick []PlayedTrickCard) int {
	for i := len(trick) - 1; i >= 0; i-- {
		if IsWild(trick, i) {
			return i
		}
	}
	return -1
}

func strength(pc PlayedTrickCard, pos int, lead LeadContext, trump *joker.Suit) (class, rank int) {
	if pc.Card.IsJoker() {
		if pos != 0 || pc.Declaration == nil {
			return classNone, 0
		}
		switch pc.Declaration.Kind {
		case Above:
			rank = rankAboveAll
		case Takes:
			rank = rankBelowAll
		default:
			return classNone, 0
		}
		if trump != nil && pc.Declaration.Suit == *trump {
			return classTrump, rank
		}
		return classLead, rank
	}

	r, _ := pc.Card.Rank()
	switch {
	case pc.Card.IsTrump(trump):
		return classTrump, int(r)
	case lead.HasSuit && pc.Card.HasSuit(lead.Suit):
		return classLead, int(r)
	default:
		return classNone, 0
	}
}
