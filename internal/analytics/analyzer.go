package analytics

import (
	"quant_go/internal/domain"
)

// DepthStats summarizes one book snapshot.
type DepthStats struct {
	BidLevels int
	AskLevels int

	BidQuantity float64
	AskQuantity float64

	BestBid  float64
	BestAsk  float64
	Spread   float64
	Midpoint float64
	HasTop   bool // both sides populated
}

// ComputeDepthStats aggregates a snapshot. Spread and midpoint are only
// meaningful when HasTop is set.
func ComputeDepthStats(snap domain.BookSnapshot) DepthStats {
	s := DepthStats{
		BidLevels: len(snap.Bids),
		AskLevels: len(snap.Asks),
	}
	for _, l := range snap.Bids {
		s.BidQuantity += l.Quantity
	}
	for _, l := range snap.Asks {
		s.AskQuantity += l.Quantity
	}

	bid, hasBid := snap.BestBid()
	ask, hasAsk := snap.BestAsk()
	if hasBid {
		s.BestBid = bid.Price
	}
	if hasAsk {
		s.BestAsk = ask.Price
	}
	if hasBid && hasAsk {
		s.HasTop = true
		s.Spread = ask.Price - bid.Price
		s.Midpoint = (ask.Price + bid.Price) / 2
	}
	return s
}
