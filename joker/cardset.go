package joker

import "math/bits"

// CardSet is a set of cards using a bitset for fast operations. Regular cards
// map to bit (suit*9 + rank-6); jokers are interchangeable, so the set only
// counts them.
type CardSet struct {
	bits   uint64
	jokers uint8
}

func cardIndex(c Card) uint {
	return uint(c.suit)*9 + uint(c.rank-MinRank)
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, c := range cards {
		cs.Add(c)
	}
	return cs
}

// FullCardSet returns the set of every card in a deck.
func FullCardSet() CardSet {
	return NewCardSet(FullDeck()...)
}

// Add adds a card to the set
func (cs *CardSet) Add(c Card) {
	if c.IsJoker() {
		cs.jokers++
		return
	}
	cs.bits |= 1 << cardIndex(c)
}

// Remove removes a card from the set; removing an absent card is a no-op.
func (cs *CardSet) Remove(c Card) {
	if c.IsJoker() {
		if cs.jokers > 0 {
			cs.jokers--
		}
		return
	}
	cs.bits &^= 1 << cardIndex(c)
}

// RemoveAll removes every card in cards.
func (cs *CardSet) RemoveAll(cards []Card) {
	for _, c := range cards {
		cs.Remove(c)
	}
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(c Card) bool {
	if c.IsJoker() {
		return cs.jokers > 0
	}
	return cs.bits&(1<<cardIndex(c)) != 0
}

// Jokers returns how many jokers the set holds.
func (cs CardSet) Jokers() int {
	return int(cs.jokers)
}

// Count returns the number of cards in the set
func (cs CardSet) Count() int {
	return bits.OnesCount64(cs.bits) + int(cs.jokers)
}

// CountSuit returns how many regular cards of suit s are in the set.
func (cs CardSet) CountSuit(s Suit) int {
	mask := uint64(0x1ff) << (uint(s) * 9)
	return bits.OnesCount64(cs.bits & mask)
}

// Cards returns the cards in the set in Compare order.
func (cs CardSet) Cards() []Card {
	out := make([]Card, 0, cs.Count())
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			c := NewCard(suit, rank)
			if cs.Contains(c) {
				out = append(out, c)
			}
		}
	}
	for range cs.jokers {
		out = append(out, Joker())
	}
	return out
}
