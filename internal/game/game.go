package game

import (
	"fmt"
	"slices"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/jokerforbots/internal/rules"
	"github.com/lox/jokerforbots/internal/scoring"
	"github.com/lox/jokerforbots/joker"
)

// Phase is the stage of the game state machine.
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhaseBidding
	PhasePlaying
	PhaseRoundEnd
	PhaseGameEnd
	// PhaseBlindBidding opens block 4 rounds: seats commit blind bids in
	// bidding order before any card is dealt.
	PhaseBlindBidding
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseRoundEnd:
		return "round-end"
	case PhaseGameEnd:
		return "game-end"
	case PhaseBlindBidding:
		return "blind-bidding"
	default:
		return "unknown"
	}
}

// PlayerInfo is the public state of one seat.
type PlayerInfo struct {
	PlayerNumber          int
	Name                  string
	Score                 int // game total, settled blocks include penalties
	CurrentBid            int
	HasBid                bool
	TricksTaken           int
	IsBlindBid            bool
	IsBidLockedBeforeDeal bool // committed while no cards were dealt
}

// Game is the state machine of one game from the first deal to the final
// scoreboard. Intents are validated before anything changes; a rejected
// intent returns an error and leaves the game as it was.
//
// Game is not safe for concurrent use. Hosts that drive it from several
// goroutines must serialize every call.
type Game struct {
	id      string
	players []PlayerInfo
	hands   [][]joker.Card
	deck    *joker.Deck
	scores  *scoring.Manager
	clock   quartz.Clock
	logger  *log.Logger
	bus     EventBus

	phase        Phase
	block        rules.Block
	roundInBlock int
	roundNumber  int
	dealer       int
	current      int

	trumpCard    *joker.Card
	trump        *joker.Suit
	trumpPending bool
	trick        []rules.PlayedTrickCard
	lastTrick    []rules.PlayedTrickCard
	tricksPlayed int
	played       []joker.Card
	lastResults  []scoring.RoundResult
	firstDealer  *joker.FirstDealerSelection
}

// NewGame creates a game for the named seats, 3 or 4 of them.
func NewGame(names []string, opts ...Option) (*Game, error) {
	if len(names) < rules.MinPlayers || len(names) > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, len(names))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.finish()

	scores, err := scoring.NewManager(len(names))
	if err != nil {
		return nil, err
	}

	players := make([]PlayerInfo, len(names))
	for i, name := range names {
		players[i] = PlayerInfo{PlayerNumber: i, Name: name}
	}

	return &Game{
		id:      cfg.id,
		players: players,
		hands:   make([][]joker.Card, len(names)),
		deck:    cfg.deck,
		scores:  scores,
		clock:   cfg.clock,
		logger:  cfg.logger,
		bus:     cfg.bus,
		phase:   PhaseNotStarted,
		current: -1,
	}, nil
}

// SelectFirstDealer runs the ace ritual on a freshly shuffled deck and
// returns it. The game must not have started; StartGame is still needed.
func (g *Game) SelectFirstDealer() (joker.FirstDealerSelection, error) {
	if g.phase != PhaseNotStarted {
		return joker.FirstDealerSelection{}, fmt.Errorf("%w: %s", ErrWrongPhase, g.phase)
	}
	g.deck.Reset()
	sel, ok := g.deck.PrepareFirstDealerSelection(len(g.players), 0)
	if !ok {
		return joker.FirstDealerSelection{}, fmt.Errorf("%w: no ace left for the dealer draw", ErrWrongPhase)
	}
	g.firstDealer = &sel
	return sel, nil
}

// StartGame begins block 1 with dealer dealing the first round.
func (g *Game) StartGame(dealer int) error {
	if g.phase == PhaseGameEnd {
		return ErrGameOver
	}
	if g.phase != PhaseNotStarted {
		return fmt.Errorf("%w: %s", ErrWrongPhase, g.phase)
	}
	if !g.validSeat(dealer) {
		return fmt.Errorf("%w: dealer %d", ErrSeatOutOfRange, dealer)
	}

	g.block = rules.BlockAscending
	g.roundInBlock = 0
	g.roundNumber = 0
	g.dealer = dealer
	g.logger.Info("Game started", "game", g.id, "players", len(g.players), "dealer", dealer)
	g.dealRound()
	return nil
}

// dealRound resets the round state. Blind rounds open blind bidding with
// empty hands; other rounds are dealt straight away.
func (g *Game) dealRound() {
	n := len(g.players)
	g.hands = make([][]joker.Card, n)
	g.trumpCard = nil
	g.trump = nil
	g.trumpPending = false

	for i := range g.players {
		p := &g.players[i]
		p.CurrentBid = 0
		p.HasBid = false
		p.TricksTaken = 0
		p.IsBlindBid = false
		p.IsBidLockedBeforeDeal = false
	}
	g.trick = nil
	g.lastTrick = nil
	g.tricksPlayed = 0
	g.played = nil
	g.lastResults = nil

	if g.block.SupportsBlind() {
		g.phase = PhaseBlindBidding
		g.current = rules.LeftOf(g.dealer, n)
		g.logger.Debug("Blind bidding opened", "block", g.block, "round", g.roundInBlock+1, "dealer", g.dealer)
		return
	}
	g.deal()
}

// deal shuffles, deals the current round and opens bidding for the seats
// without a blind bid.
func (g *Game) deal() {
	n := len(g.players)
	cards := g.CardsInRound()

	g.deck.Reset()
	// hands keep deal order; the first cards are the ones a trump chooser sees
	hands, trumpCard, _ := g.deck.Deal(n, cards, rules.LeftOf(g.dealer, n))
	g.hands = hands
	g.trumpCard = trumpCard
	g.trump = rules.TrumpFromCard(trumpCard)
	g.trumpPending = rules.NeedsTrumpChoice(trumpCard)

	g.phase = PhaseBidding
	g.current = rules.LeftOf(g.dealer, n)
	if !g.trumpPending {
		g.openBidding(g.current)
	}

	g.logger.Debug("Round dealt",
		"block", g.block,
		"round", g.roundInBlock+1,
		"cards", cards,
		"dealer", g.dealer,
		"trumpCard", trumpCard,
		"trumpChoice", g.trumpPending)
}

// openBidding hands the turn to the first seat from `from` in bidding order
// that has not bid. When every seat has bid, play starts.
func (g *Game) openBidding(from int) {
	n := len(g.players)
	for seat := from; ; seat = rules.LeftOf(seat, n) {
		if !g.players[seat].HasBid {
			g.current = seat
			return
		}
		if seat == g.dealer {
			break
		}
	}
	g.phase = PhasePlaying
	g.current = rules.LeftOf(g.dealer, n)
}

// ChooseTrump sets the trump of a round dealt without a trump card. Only the
// first bidder chooses, before any bid; nil means no trump.
func (g *Game) ChooseTrump(seat int, suit *joker.Suit) error {
	if err := g.checkTurn(PhaseBidding, seat); err != nil {
		return err
	}
	if !g.trumpPending {
		return ErrTrumpNotRequired
	}
	if suit != nil && !suit.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSuit, *suit)
	}

	if suit != nil {
		s := *suit
		g.trump = &s
	} else {
		g.trump = nil
	}
	g.trumpPending = false
	g.logger.Debug("Trump chosen", "seat", seat, "trump", suitString(g.trump))
	g.openBidding(seat)
	return nil
}

// PlaceBid records seat's bid. Blind bids are only taken during blind
// bidding in block 4, before the deal. Once every seat has bid the first
// bidder leads the first trick.
func (g *Game) PlaceBid(seat, value int, isBlind bool) error {
	if isBlind {
		return g.placeBlindBid(seat, value)
	}
	if err := g.checkTurn(PhaseBidding, seat); err != nil {
		return err
	}
	if g.trumpPending {
		return ErrTrumpRequired
	}
	cards := g.CardsInRound()
	if !rules.IsBidAllowed(value, cards, seat == g.dealer, g.otherBidsSum(seat)) {
		return fmt.Errorf("%w: %d with %d cards", ErrIllegalBid, value, cards)
	}

	p := &g.players[seat]
	p.CurrentBid = value
	p.HasBid = true

	g.openBidding(rules.LeftOf(seat, len(g.players)))
	g.logger.Debug("Bid placed", "seat", seat, "bid", value)
	return nil
}

func (g *Game) placeBlindBid(seat, value int) error {
	if g.phase != PhaseGameEnd && !g.block.SupportsBlind() {
		return fmt.Errorf("%w: no blind bids in block %s", ErrIllegalBid, g.block)
	}
	if err := g.checkTurn(PhaseBlindBidding, seat); err != nil {
		return err
	}
	if !g.CanBidBlind(seat) {
		return fmt.Errorf("%w: seat %d may not bid blind", ErrIllegalBid, seat)
	}
	cards := g.CardsInRound()
	if !rules.IsBidAllowed(value, cards, seat == g.dealer, g.otherBidsSum(seat)) {
		return fmt.Errorf("%w: %d with %d cards", ErrIllegalBid, value, cards)
	}

	p := &g.players[seat]
	p.CurrentBid = value
	p.HasBid = true
	p.IsBlindBid = true
	p.IsBidLockedBeforeDeal = true

	g.logger.Debug("Blind bid placed", "seat", seat, "bid", value)
	g.advanceBlind(seat)
	return nil
}

// DeclineBlind passes on a blind bid; seat bids normally after the deal.
func (g *Game) DeclineBlind(seat int) error {
	if err := g.checkTurn(PhaseBlindBidding, seat); err != nil {
		return err
	}
	g.logger.Debug("Blind bid declined", "seat", seat)
	g.advanceBlind(seat)
	return nil
}

// advanceBlind moves blind bidding on from seat. The dealer is skipped when
// it may not bid blind; after the last blind decision the cards are dealt.
func (g *Game) advanceBlind(seat int) {
	next := rules.LeftOf(seat, len(g.players))
	if seat == g.dealer || (next == g.dealer && !g.CanBidBlind(next)) {
		g.deal()
		return
	}
	g.current = next
}

// PlayCard puts card from seat's hand on the trick. style only matters for
// jokers; decl is required on a leading joker and forbidden otherwise.
func (g *Game) PlayCard(seat int, card joker.Card, style rules.JokerStyle, decl *rules.LeadDeclaration) error {
	if err := g.checkTurn(PhasePlaying, seat); err != nil {
		return err
	}
	if len(g.trick) == len(g.players) {
		return fmt.Errorf("%w: trick awaits completion", ErrWrongPhase)
	}
	if g.tricksPlayed == g.CardsInRound() {
		return fmt.Errorf("%w: round awaits completion", ErrWrongPhase)
	}
	hand := g.hands[seat]
	if !joker.ContainsCard(hand, card) {
		return fmt.Errorf("%w: %s", ErrCardNotInHand, card)
	}
	if err := rules.ValidateJokerPlay(len(g.trick), card, style, decl); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDeclaration, err)
	}
	if !rules.CanPlayCard(hand, g.trick, g.trump, card) {
		return fmt.Errorf("%w: %s", ErrIllegalCard, card)
	}

	remaining, _ := joker.RemoveCard(hand, card)
	g.hands[seat] = remaining

	pc := rules.PlayedTrickCard{PlayerIndex: seat, Card: card}
	if card.IsJoker() {
		pc.Style = style
		if decl != nil {
			d := *decl
			pc.Declaration = &d
		}
	}
	g.trick = append(g.trick, pc)
	g.played = append(g.played, card)
	g.current = rules.LeftOf(seat, len(g.players))

	g.logger.Debug("Card played", "seat", seat, "card", pc)
	return nil
}

// CompleteTrick awards the full trick on the table to winner, who leads next.
func (g *Game) CompleteTrick(winner int) error {
	if err := g.checkPhase(PhasePlaying); err != nil {
		return err
	}
	if len(g.trick) != len(g.players) {
		return fmt.Errorf("%w: %d of %d cards", ErrTrickIncomplete, len(g.trick), len(g.players))
	}
	if !g.validSeat(winner) {
		return fmt.Errorf("%w: winner %d", ErrSeatOutOfRange, winner)
	}

	g.players[winner].TricksTaken++
	event := TrickCompletedEvent{
		GameID:       g.id,
		Block:        g.block,
		RoundInBlock: g.roundInBlock,
		TrickNumber:  g.tricksPlayed,
		Trump:        copySuit(g.trump),
		Cards:        copyTrick(g.trick),
		Winner:       winner,
		timestamp:    g.clock.Now(),
	}

	g.lastTrick = g.trick
	g.trick = nil
	g.tricksPlayed++
	g.current = winner

	g.logger.Debug("Trick completed", "trick", event.TrickNumber+1, "winner", winner)
	g.bus.Publish(event)
	return nil
}

// ResolveTrick completes the full trick with the winner the rules pick and
// returns that seat.
func (g *Game) ResolveTrick() (int, error) {
	if err := g.checkPhase(PhasePlaying); err != nil {
		return 0, err
	}
	if len(g.trick) != len(g.players) {
		return 0, fmt.Errorf("%w: %d of %d cards", ErrTrickIncomplete, len(g.trick), len(g.players))
	}
	winner, _ := rules.WinnerPlayerIndex(g.trick, g.trump)
	return winner, g.CompleteTrick(winner)
}

// CompleteRound scores the round once every trick has been taken.
func (g *Game) CompleteRound() error {
	if err := g.checkPhase(PhasePlaying); err != nil {
		return err
	}
	cards := g.CardsInRound()
	if g.tricksPlayed != cards || len(g.trick) != 0 {
		return fmt.Errorf("%w: %d of %d tricks taken", ErrTrickIncomplete, g.tricksPlayed, cards)
	}

	results := g.roundResults()
	if err := g.scores.RecordRound(g.block, results); err != nil {
		return err
	}
	g.lastResults = results
	g.refreshScores()
	g.phase = PhaseRoundEnd
	g.current = -1

	event := RoundCompletedEvent{
		GameID:       g.id,
		Block:        g.block,
		RoundInBlock: g.roundInBlock,
		RoundNumber:  g.roundNumber,
		Dealer:       g.dealer,
		TrumpCard:    copyCard(g.trumpCard),
		Trump:        copySuit(g.trump),
		Results:      slices.Clone(results),
		Totals:       g.scores.Totals(),
		timestamp:    g.clock.Now(),
	}
	g.logger.Debug("Round completed", "block", g.block, "round", g.roundInBlock+1, "totals", event.Totals)
	g.bus.Publish(event)
	return nil
}

// StartNewRound moves the deal to the left and deals the next round. When the
// block is exhausted it is settled first; after block 4 the game ends.
func (g *Game) StartNewRound() error {
	if err := g.checkPhase(PhaseRoundEnd); err != nil {
		return err
	}

	n := len(g.players)
	g.roundInBlock++
	g.roundNumber++
	g.dealer = rules.LeftOf(g.dealer, n)

	if g.roundInBlock >= rules.RoundsInBlock(g.block, n) {
		g.finishBlock()
		if g.block == rules.BlockFullBlind {
			g.finishGame()
			return nil
		}
		g.block++
		g.roundInBlock = 0
	}
	g.dealRound()
	return nil
}

func (g *Game) finishBlock() {
	res, _ := g.scores.FinalizeBlock(g.block)
	g.refreshScores()
	g.logger.Info("Block completed",
		"game", g.id,
		"block", g.block,
		"premium", res.PremiumPlayers,
		"penalties", len(res.Penalties))
	g.bus.Publish(BlockCompletedEvent{
		GameID:    g.id,
		Result:    res,
		Totals:    g.scores.Totals(),
		timestamp: g.clock.Now(),
	})
}

func (g *Game) finishGame() {
	g.phase = PhaseGameEnd
	g.current = -1
	standings := g.Standings()
	g.logger.Info("Game completed", "game", g.id, "winner", standings[0].Name, "score", standings[0].Score)
	g.bus.Publish(GameCompletedEvent{
		GameID:    g.id,
		Standings: standings,
		timestamp: g.clock.Now(),
	})
}

func (g *Game) roundResults() []scoring.RoundResult {
	cards := g.CardsInRound()
	results := make([]scoring.RoundResult, len(g.players))
	for i, p := range g.players {
		results[i] = scoring.RoundResult{
			CardsInRound: cards,
			Bid:          p.CurrentBid,
			TricksTaken:  p.TricksTaken,
			IsBlind:      p.IsBlindBid,
		}
	}
	return results
}

func (g *Game) refreshScores() {
	for i, total := range g.scores.Totals() {
		g.players[i].Score = total
	}
}

func (g *Game) checkPhase(want Phase) error {
	if g.phase == PhaseGameEnd {
		return ErrGameOver
	}
	if g.phase != want {
		return fmt.Errorf("%w: %s, want %s", ErrWrongPhase, g.phase, want)
	}
	return nil
}

func (g *Game) checkTurn(want Phase, seat int) error {
	if err := g.checkPhase(want); err != nil {
		return err
	}
	if !g.validSeat(seat) {
		return fmt.Errorf("%w: %d", ErrSeatOutOfRange, seat)
	}
	if seat != g.current {
		return fmt.Errorf("%w: seat %d, current %d", ErrOutOfTurn, seat, g.current)
	}
	return nil
}

func (g *Game) validSeat(seat int) bool {
	return seat >= 0 && seat < len(g.players)
}

func (g *Game) otherBidsSum(seat int) int {
	sum := 0
	for i, p := range g.players {
		if i != seat && p.HasBid {
			sum += p.CurrentBid
		}
	}
	return sum
}

// Accessors

// ID returns the game ID.
func (g *Game) ID() string { return g.id }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Block returns the current block; zero before the game starts.
func (g *Game) Block() rules.Block { return g.block }

// RoundInBlock returns the 0-based round within the current block.
func (g *Game) RoundInBlock() int { return g.roundInBlock }

// RoundNumber returns the 0-based round within the game.
func (g *Game) RoundNumber() int { return g.roundNumber }

// PlayerCount returns the number of seats.
func (g *Game) PlayerCount() int { return len(g.players) }

// Dealer returns the dealer of the current round.
func (g *Game) Dealer() int { return g.dealer }

// CurrentPlayer returns the seat expected to act, or -1 when nobody is.
func (g *Game) CurrentPlayer() int { return g.current }

// FirstDealer returns the ace ritual result when SelectFirstDealer ran.
func (g *Game) FirstDealer() (joker.FirstDealerSelection, bool) {
	if g.firstDealer == nil {
		return joker.FirstDealerSelection{}, false
	}
	return *g.firstDealer, true
}

// CardsInRound returns the hand size of the current round.
func (g *Game) CardsInRound() int {
	schedule := rules.CardsSchedule(g.block, len(g.players))
	if g.roundInBlock < 0 || g.roundInBlock >= len(schedule) {
		return 0
	}
	return schedule[g.roundInBlock]
}

// Trump returns the trump suit of the round, nil for no trump.
func (g *Game) Trump() *joker.Suit { return copySuit(g.trump) }

// TrumpCard returns the turned trump card, nil when every card was dealt.
func (g *Game) TrumpCard() *joker.Card { return copyCard(g.trumpCard) }

// NeedsTrumpChoice reports whether the first bidder still has to pick trump.
func (g *Game) NeedsTrumpChoice() bool {
	return g.phase == PhaseBidding && g.trumpPending
}

// Players returns a copy of every seat's public state.
func (g *Game) Players() []PlayerInfo { return slices.Clone(g.players) }

// Hand returns a copy of seat's hand.
func (g *Game) Hand(seat int) ([]joker.Card, bool) {
	if !g.validSeat(seat) {
		return nil, false
	}
	return slices.Clone(g.hands[seat]), true
}

// Trick returns a copy of the cards on the table.
func (g *Game) Trick() []rules.PlayedTrickCard { return copyTrick(g.trick) }

// LastTrick returns a copy of the previous trick of this round.
func (g *Game) LastTrick() []rules.PlayedTrickCard { return copyTrick(g.lastTrick) }

// TricksPlayed returns how many tricks of the round were taken.
func (g *Game) TricksPlayed() int { return g.tricksPlayed }

// PlayedCards returns every card played this round, current trick included.
func (g *Game) PlayedCards() []joker.Card { return slices.Clone(g.played) }

// AllowedBids returns the legal bids for seat in the current round.
func (g *Game) AllowedBids(seat int) []int {
	if !g.validSeat(seat) || (g.phase != PhaseBidding && g.phase != PhaseBlindBidding) {
		return nil
	}
	return rules.AllowedBids(g.CardsInRound(), seat == g.dealer, g.otherBidsSum(seat))
}

// OtherBidsSum returns the sum of bids already placed by the other seats.
func (g *Game) OtherBidsSum(seat int) int { return g.otherBidsSum(seat) }

// CanBidBlind reports whether seat may still commit a blind bid: only during
// blind bidding, before the deal.
func (g *Game) CanBidBlind(seat int) bool {
	if !g.validSeat(seat) || g.phase != PhaseBlindBidding || g.players[seat].HasBid {
		return false
	}
	blind := make([]bool, len(g.players))
	for i, p := range g.players {
		blind[i] = p.IsBlindBid
	}
	return rules.CanBidBlind(g.block, seat, g.dealer, blind)
}

// LegalCards returns the cards seat may play now, or nil when it is not
// seat's turn to play.
func (g *Game) LegalCards(seat int) []joker.Card {
	if g.phase != PhasePlaying || seat != g.current || len(g.trick) == len(g.players) {
		return nil
	}
	return rules.LegalCards(g.hands[seat], g.trick, g.trump)
}

// LastRoundResults returns the results of the round just scored.
func (g *Game) LastRoundResults() []scoring.RoundResult { return slices.Clone(g.lastResults) }

// Totals returns the per-seat game totals.
func (g *Game) Totals() []int { return g.scores.Totals() }

// ScoreSnapshot returns the totals with the round in progress counted, without
// recording it.
func (g *Game) ScoreSnapshot() scoring.Snapshot {
	if g.phase != PhasePlaying {
		return g.scores.Snapshot(nil)
	}
	return g.scores.Snapshot(g.roundResults())
}

// BlockResults returns the settled blocks.
func (g *Game) BlockResults() []scoring.BlockResult { return g.scores.BlockResults() }

// ScoreHistory returns every recorded round grouped by block.
func (g *Game) ScoreHistory() []scoring.BlockRounds { return g.scores.History() }

// Standings ranks the seats by total score, highest first. Ties keep seat
// order and share a rank.
func (g *Game) Standings() []Standing {
	totals := g.scores.Totals()
	out := make([]Standing, len(g.players))
	for i, p := range g.players {
		out[i] = Standing{PlayerNumber: i, Name: p.Name, Score: totals[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

// EventBus returns the bus events are published on.
func (g *Game) EventBus() EventBus { return g.bus }

func copySuit(s *joker.Suit) *joker.Suit {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyCard(c *joker.Card) *joker.Card {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func copyTrick(trick []rules.PlayedTrickCard) []rules.PlayedTrickCard {
	if trick == nil {
		return nil
	}
	out := make([]rules.PlayedTrickCard, len(trick))
	for i, pc := range trick {
		out[i] = pc
		if pc.Declaration != nil {
			d := *pc.Declaration
			out[i].Declaration = &d
		}
	}
	return out
}

func suitString(s *joker.Suit) string {
	if s == nil {
		return "none"
	}
	return s.String()
}
