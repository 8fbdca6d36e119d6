package bot

import (
	"fmt"
	"math"

	"github.com/lox/jokerforbots/internal/game"
	"github.com/lox/jokerforbots/internal/scoring"
	"github.com/lox/jokerforbots/joker"
)

const epsilon = 1e-9

// BiddingService turns a hand into a bid.
type BiddingService struct {
	profile Profile
}

// NewBiddingService creates a bidding service for the profile.
func NewBiddingService(p Profile) *BiddingService {
	return &BiddingService{profile: p}
}

// TrickChance estimates the chance that c alone takes a trick.
func (s *BiddingService) TrickChance(c joker.Card, trump *joker.Suit) float64 {
	p := s.profile
	if c.IsJoker() {
		return p.JokerTrickValue
	}
	rank, _ := c.Rank()
	n := rank.Normalized()
	if c.IsTrump(trump) {
		return clamp01(p.TrumpBase + p.TrumpRankWeight*n)
	}
	v := p.NonTrumpRankWeight * n * n * n
	if rank >= joker.King {
		v += p.HighCardBonus
	}
	return clamp01(v)
}

// ExpectedTricks is the sum of the per-card trick chances of hand.
func (s *BiddingService) ExpectedTricks(hand []joker.Card, trump *joker.Suit) float64 {
	total := 0.0
	for _, c := range hand {
		total += s.TrickChance(c, trump)
	}
	return total
}

// TrickDistribution returns P(k tricks) for k in 0..len(hand), treating each
// card as an independent trial with its trick chance.
func (s *BiddingService) TrickDistribution(hand []joker.Card, trump *joker.Suit) []float64 {
	probs := make([]float64, len(hand))
	for i, c := range hand {
		probs[i] = s.TrickChance(c, trump)
	}
	return poissonBinomial(probs)
}

func poissonBinomial(probs []float64) []float64 {
	dist := make([]float64, len(probs)+1)
	dist[0] = 1
	for i, p := range probs {
		for k := i + 1; k >= 1; k-- {
			dist[k] = dist[k]*(1-p) + dist[k-1]*p
		}
		dist[0] *= 1 - p
	}
	return dist
}

// ExpectedScore is the mean round score of bidding bid under dist.
func ExpectedScore(cardsInRound, bid int, dist []float64, blind bool) float64 {
	ev := 0.0
	for k, p := range dist {
		ev += p * float64(scoring.RoundScore(cardsInRound, bid, k, blind))
	}
	return ev
}

// ChooseBid picks the legal bid with the best expected round score. Ties go
// to the bid closest to the raw trick estimate, then to the lower bid.
func (s *BiddingService) ChooseBid(view game.BidView) game.BidDecision {
	thinking := &ThinkingContext{}

	if view.CanBlind {
		if bid, ok := s.ChooseBlind(view); ok {
			thinking.AddThought(fmt.Sprintf("Trailing the leader by %d, bidding %d blind", s.deficit(view.RoundView), bid))
			return game.BidDecision{Value: bid, Blind: true, Reasoning: thinking.GetThoughts()}
		}
	}
	if view.PreDeal {
		return game.BidDecision{Reasoning: "Not far enough behind to bid blind"}
	}

	if len(view.AllowedBids) == 0 {
		return game.BidDecision{Reasoning: "no legal bids"}
	}

	expected := s.ExpectedTricks(view.Hand, view.Trump)
	dist := s.TrickDistribution(view.Hand, view.Trump)
	thinking.AddThought(fmt.Sprintf("Hand %s expects %.2f tricks", joker.FormatCards(view.Hand), expected))

	best := view.AllowedBids[0]
	bestEV := math.Inf(-1)
	for _, bid := range view.AllowedBids {
		ev := ExpectedScore(view.CardsInRound, bid, dist, false)
		switch {
		case ev > bestEV+epsilon:
			best, bestEV = bid, ev
		case math.Abs(ev-bestEV) <= epsilon && closer(bid, best, expected):
			best = bid
		}
	}

	if len(view.AllowedBids) < view.CardsInRound+1 {
		thinking.AddThought("Dealer hook rule removes one bid")
	}
	thinking.AddThought(fmt.Sprintf("Bid %d projects %.0f points", best, bestEV))
	return game.BidDecision{Value: best, Reasoning: thinking.GetThoughts()}
}

func closer(candidate, current int, target float64) bool {
	dc := math.Abs(float64(candidate) - target)
	dr := math.Abs(float64(current) - target)
	if math.Abs(dc-dr) <= epsilon {
		return candidate < current
	}
	return dc < dr
}

// ChooseBlind decides on a blind bid from the score table alone. Far behind
// the leader it aims for the far share of the round's cards, moderately behind
// for the moderate share; otherwise it does not bid blind.
func (s *BiddingService) ChooseBlind(view game.BidView) (int, bool) {
	if !view.CanBlind || len(view.AllowedBids) == 0 {
		return 0, false
	}
	deficit := s.deficit(view.RoundView)

	var share float64
	switch {
	case deficit >= s.profile.BlindFarBehind:
		share = s.profile.BlindFarShare
	case deficit >= s.profile.BlindModerateBehind:
		share = s.profile.BlindModerateShare
	default:
		return 0, false
	}
	if share <= 0 {
		return 0, false
	}

	target := int(math.Round(share * float64(view.CardsInRound)))
	if target < 1 {
		target = 1
	}
	best, found := 0, false
	for _, bid := range view.AllowedBids {
		if !found || absInt(bid-target) < absInt(best-target) {
			best, found = bid, true
		}
	}
	return best, found
}

// deficit is how far the viewing seat trails the best other seat.
func (s *BiddingService) deficit(view game.RoundView) int {
	if view.Seat < 0 || view.Seat >= len(view.Totals) {
		return 0
	}
	leader := math.MinInt
	for seat, total := range view.Totals {
		if seat != view.Seat && total > leader {
			leader = total
		}
	}
	if leader == math.MinInt {
		return 0
	}
	return leader - view.Totals[view.Seat]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
