package rules

// BiddingOrder returns the seats in the order they bid: starting left of the
// dealer and wrapping, so the dealer bids last.
func BiddingOrder(dealer, playerCount int) []int {
	order := make([]int, playerCount)
	for i := range order {
		order[i] = (dealer + 1 + i) % playerCount
	}
	return order
}

// ForbiddenDealerBid returns the bid that would make the sum of all bids equal
// cardsInRound. ok is false when that value is not a possible bid.
func ForbiddenDealerBid(cardsInRound, otherBidsSum int) (bid int, ok bool) {
	bid = cardsInRound - otherBidsSum
	if bid < 0 || bid > cardsInRound {
		return 0, false
	}
	return bid, true
}

// AllowedBids returns the legal bids in ascending order. Every seat may bid
// 0..cardsInRound except that the dealer may not bid the value that makes the
// total equal cardsInRound.
func AllowedBids(cardsInRound int, isDealer bool, otherBidsSum int) []int {
	if cardsInRound < 0 {
		return nil
	}
	forbidden, hasForbidden := -1, false
	if isDealer {
		forbidden, hasForbidden = ForbiddenDealerBid(cardsInRound, otherBidsSum)
	}
	bids := make([]int, 0, cardsInRound+1)
	for v := 0; v <= cardsInRound; v++ {
		if hasForbidden && v == forbidden {
			continue
		}
		bids = append(bids, v)
	}
	return bids
}

// IsBidAllowed reports whether value is in AllowedBids.
func IsBidAllowed(value, cardsInRound int, isDealer bool, otherBidsSum int) bool {
	if value < 0 || value > cardsInRound {
		return false
	}
	if !isDealer {
		return true
	}
	forbidden, ok := ForbiddenDealerBid(cardsInRound, otherBidsSum)
	return !ok || value != forbidden
}

// CanBidBlind reports whether seat may commit a blind bid. Only block 4 allows
// it; any non-dealer may, the dealer only once every other seat bid blind.
// blindSeats[i] tells whether seat i already bid blind.
func CanBidBlind(b Block, seat, dealer int, blindSeats []bool) bool {
	if !b.SupportsBlind() {
		return false
	}
	if seat != dealer {
		return true
	}
	for i, blind := range blindSeats {
		if i != dealer && !blind {
			return false
		}
	}
	return true
}
