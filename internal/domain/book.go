package domain

// PriceLevelView is one aggregated row of a book snapshot: a price and the
// total remaining quantity resting at it.
type PriceLevelView struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// BookSnapshot is a read-only aggregated view of both sides of the book.
// Bids are ordered by descending price, asks by ascending price, so index 0
// is always the best level. An empty side is an empty (non-nil) slice.
type BookSnapshot struct {
	Bids []PriceLevelView `json:"bids"`
	Asks []PriceLevelView `json:"asks"`
}

// BestBid returns the highest-priced bid row.
func (s BookSnapshot) BestBid() (PriceLevelView, bool) {
	if len(s.Bids) == 0 {
		return PriceLevelView{}, false
	}
	return s.Bids[0], true
}

// BestAsk returns the lowest-priced ask row.
func (s BookSnapshot) BestAsk() (PriceLevelView, bool) {
	if len(s.Asks) == 0 {
		return PriceLevelView{}, false
	}
	return s.Asks[0], true
}

// Empty checks whether no orders rest on either side.
func (s BookSnapshot) Empty() bool {
	return len(s.Bids) == 0 && len(s.Asks) == 0
}
