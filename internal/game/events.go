package game

import (
	"time"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/internal/scoring"
	"github.com/lox/jokerforbots/joker"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeTrickCompleted EventType = "trick_completed"
	EventTypeRoundCompleted EventType = "round_completed"
	EventTypeBlockCompleted EventType = "block_completed"
	EventTypeGameCompleted  EventType = "game_completed"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game. Events are plain
// data snapshots and never alias game state.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// TrickCompletedEvent is published when a trick is taken
type TrickCompletedEvent struct {
	GameID       string
	Block        rules.Block
	RoundInBlock int
	TrickNumber  int // 0-based within the round
	Trump        *joker.Suit
	Cards        []rules.PlayedTrickCard
	Winner       int
	timestamp    time.Time
}

func (e TrickCompletedEvent) EventType() EventType { return EventTypeTrickCompleted }
func (e TrickCompletedEvent) Timestamp() time.Time { return e.timestamp }

// RoundCompletedEvent is published when a round has been scored
type RoundCompletedEvent struct {
	GameID       string
	Block        rules.Block
	RoundInBlock int
	RoundNumber  int
	Dealer       int
	TrumpCard    *joker.Card
	Trump        *joker.Suit
	Results      []scoring.RoundResult
	Totals       []int
	timestamp    time.Time
}

func (e RoundCompletedEvent) EventType() EventType { return EventTypeRoundCompleted }
func (e RoundCompletedEvent) Timestamp() time.Time { return e.timestamp }

// BlockCompletedEvent is published when a block is settled
type BlockCompletedEvent struct {
	GameID    string
	Result    scoring.BlockResult
	Totals    []int
	timestamp time.Time
}

func (e BlockCompletedEvent) EventType() EventType { return EventTypeBlockCompleted }
func (e BlockCompletedEvent) Timestamp() time.Time { return e.timestamp }

// Standing is one line of the final scoreboard.
type Standing struct {
	Rank         int // 1-based, equal scores share a rank
	PlayerNumber int
	Name         string
	Score        int
}

// GameCompletedEvent is published once, when the last block is settled
type GameCompletedEvent struct {
	GameID    string
	Standings []Standing
	timestamp time.Time
}

func (e GameCompletedEvent) EventType() EventType { return EventTypeGameCompleted }
func (e GameCompletedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber.
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event).
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous and in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Function
// subscribers cannot be compared and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, isFunc := subscriber.(EventSubscriberFunc); isFunc {
		return
	}
	for i, sub := range bus.subscribers {
		if _, isFunc := sub.(EventSubscriberFunc); isFunc {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
