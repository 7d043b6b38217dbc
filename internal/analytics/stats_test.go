package analytics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"quant_go/internal/domain"
)

func TestComputePriceStats_Empty(t *testing.T) {
	s := ComputePriceStats(nil)
	if s.Trades != 0 || s.Min != 0 || s.Max != 0 {
		t.Errorf("Expected zero value for empty input, got %+v", s)
	}
	if !s.Notional.IsZero() || !s.VWAP.IsZero() {
		t.Error("Expected zero decimals for empty input")
	}
}

func TestComputePriceStats_HandComputed(t *testing.T) {
	trades := []domain.Trade{
		{ID: 1, Price: 100.0, Quantity: 1.0},
		{ID: 2, Price: 102.0, Quantity: 2.0},
		{ID: 3, Price: 98.0, Quantity: 1.0},
	}

	s := ComputePriceStats(trades)

	if s.Trades != 3 {
		t.Errorf("Expected 3 trades, got %d", s.Trades)
	}
	if s.Min != 98.0 || s.Max != 102.0 {
		t.Errorf("Expected min 98 max 102, got %v and %v", s.Min, s.Max)
	}
	if s.Mean != 100.0 {
		t.Errorf("Expected mean 100, got %v", s.Mean)
	}
	if s.TotalQuantity != 4.0 {
		t.Errorf("Expected total quantity 4, got %v", s.TotalQuantity)
	}
	if math.Abs(s.AvgTradeSize-4.0/3.0) > 1e-12 {
		t.Errorf("Expected avg size 4/3, got %v", s.AvgTradeSize)
	}

	// Notional: 100*1 + 102*2 + 98*1 = 402. VWAP: 402/4 = 100.5
	if !s.Notional.Equal(decimal.NewFromInt(402)) {
		t.Errorf("Expected notional 402, got %s", s.Notional)
	}
	if !s.VWAP.Equal(decimal.NewFromFloat(100.5)) {
		t.Errorf("Expected VWAP 100.5, got %s", s.VWAP)
	}

	// Sample std over {100, 102, 98}: variance (0+4+4)/2 = 4, std 2.
	if math.Abs(s.Std-2.0) > 1e-12 {
		t.Errorf("Expected sample std 2, got %v", s.Std)
	}
}

func TestComputePriceStats_SingleTrade(t *testing.T) {
	s := ComputePriceStats([]domain.Trade{{ID: 1, Price: 50.0, Quantity: 0.5}})
	if s.Std != 0 {
		t.Errorf("Expected std 0 for a single trade, got %v", s.Std)
	}
	if !s.VWAP.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected VWAP 50, got %s", s.VWAP)
	}
}

func TestComputeDepthStats(t *testing.T) {
	snap := domain.BookSnapshot{
		Bids: []domain.PriceLevelView{{Price: 100.0, Quantity: 1.5}, {Price: 99.5, Quantity: 2.0}},
		Asks: []domain.PriceLevelView{{Price: 100.5, Quantity: 0.5}},
	}

	s := ComputeDepthStats(snap)

	if s.BidLevels != 2 || s.AskLevels != 1 {
		t.Errorf("Expected 2/1 levels, got %d/%d", s.BidLevels, s.AskLevels)
	}
	if s.BidQuantity != 3.5 || s.AskQuantity != 0.5 {
		t.Errorf("Expected quantities 3.5/0.5, got %v/%v", s.BidQuantity, s.AskQuantity)
	}
	if !s.HasTop {
		t.Fatal("Expected HasTop with both sides populated")
	}
	if s.BestBid != 100.0 || s.BestAsk != 100.5 {
		t.Errorf("Expected top 100.0/100.5, got %v/%v", s.BestBid, s.BestAsk)
	}
	if math.Abs(s.Spread-0.5) > 1e-12 {
		t.Errorf("Expected spread 0.5, got %v", s.Spread)
	}
	if math.Abs(s.Midpoint-100.25) > 1e-12 {
		t.Errorf("Expected midpoint 100.25, got %v", s.Midpoint)
	}
}

func TestComputeDepthStats_EmptySide(t *testing.T) {
	snap := domain.BookSnapshot{
		Bids: []domain.PriceLevelView{{Price: 100.0, Quantity: 1.0}},
	}
	s := ComputeDepthStats(snap)
	if s.HasTop {
		t.Error("Expected HasTop false with an empty ask side")
	}
	if s.Spread != 0 || s.Midpoint != 0 {
		t.Error("Expected zero spread and midpoint without a top")
	}
}
