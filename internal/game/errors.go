package game

import "errors"

// Intent errors. Every rejected intent leaves the game untouched.
var (
	ErrWrongPhase         = errors.New("action not allowed in this phase")
	ErrOutOfTurn          = errors.New("not this player's turn")
	ErrIllegalBid         = errors.New("illegal bid")
	ErrIllegalCard        = errors.New("illegal card")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrInvalidDeclaration = errors.New("invalid joker play")
	ErrTrickIncomplete    = errors.New("trick incomplete")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidPlayerCount = errors.New("game needs 3 or 4 players")
	ErrSeatOutOfRange     = errors.New("seat out of range")
	ErrTrumpNotRequired   = errors.New("trump is not chosen this round")
	ErrTrumpRequired      = errors.New("trump must be chosen before bidding")
	ErrInvalidSuit        = errors.New("invalid trump suit")
)
