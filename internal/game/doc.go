// Package game implements the game flow: dealing, trump choice, bidding,
// trick play, round scoring and block settlement, over four blocks of rounds.
//
// The main type is Game, a state machine driven by intents. Each intent is
// checked against the phase, the seat to act and the rules before anything
// changes:
//
//	g, err := game.NewGame([]string{"Ann", "Bo", "Cy", "Di"})
//	_ = g.StartGame(0)
//	_ = g.PlaceBid(1, 0, false)
//	...
//	_ = g.PlayCard(seat, card, rules.FaceUp, nil)
//	winner, _ := g.ResolveTrick()
//
// # Deterministic Testing
//
// Shuffles use crypto/rand by default. Inject a seeded source and a mock
// clock for reproducible games:
//
//	g, _ := game.NewGame(names,
//	    game.WithRandSource(joker.NewSeededSource(42)),
//	    game.WithClock(quartz.NewMock(t)))
//
// # Architecture
//
// Game delegates to specialized components:
//   - rules: schedule, bid legality, trick legality and resolution
//   - scoring.Manager: round scores, premiums and penalties
//   - joker.Deck: shuffling and dealing
//   - EventBus: trick, round, block and game completion events
//
// Engine drives a Game with one Agent per seat and falls back to the first
// legal action when an agent's decision is rejected. History records every
// deal from the events.
package game
