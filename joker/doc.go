// Package joker models the cards of a 36-card trick-taking deck with two
// jokers.
//
// Cards are a tagged value: regular cards carry a suit and a rank, jokers carry
// neither. Accessors return an ok flag so a joker can never be mistaken for a
// suited card:
//
//	c, _ := joker.ParseCard("As")
//	if s, ok := c.Suit(); ok {
//	    fmt.Println(s)
//	}
//
// # Shuffling
//
// Decks draw randomness from a RandSource. NewDeck(nil) uses CryptoSource,
// which reads crypto/rand and rejection-samples to avoid modulo bias. Tests
// and reproducible simulations inject NewSeededSource(seed):
//
//	d := joker.NewShuffledDeck(joker.NewSeededSource(42))
//	hands, trump, ok := d.Deal(4, 9, 1)
package joker
