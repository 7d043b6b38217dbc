// Package analytics computes summary statistics over executed trades and
// book snapshots. Money-weighted figures (notional, VWAP) use decimal
// arithmetic so reports do not accumulate float error; distribution moments
// stay in float64.
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"quant_go/internal/domain"
)

// PriceStats summarizes the execution prices and sizes of a trade set.
type PriceStats struct {
	Trades int

	Min  float64
	Max  float64
	Mean float64
	Std  float64 // sample standard deviation

	TotalQuantity float64
	AvgTradeSize  float64

	Notional decimal.Decimal // sum of price*quantity
	VWAP     decimal.Decimal // notional / total quantity, 8 decimal places
}

// ComputePriceStats aggregates the given trades. An empty slice yields the
// zero value.
func ComputePriceStats(trades []domain.Trade) PriceStats {
	if len(trades) == 0 {
		return PriceStats{}
	}

	s := PriceStats{
		Trades: len(trades),
		Min:    trades[0].Price,
		Max:    trades[0].Price,
	}

	sum := 0.0
	qty := 0.0
	notional := decimal.Zero
	qtyDec := decimal.Zero
	for _, tr := range trades {
		if tr.Price < s.Min {
			s.Min = tr.Price
		}
		if tr.Price > s.Max {
			s.Max = tr.Price
		}
		sum += tr.Price
		qty += tr.Quantity

		p := decimal.NewFromFloat(tr.Price)
		q := decimal.NewFromFloat(tr.Quantity)
		notional = notional.Add(p.Mul(q))
		qtyDec = qtyDec.Add(q)
	}

	n := float64(len(trades))
	s.Mean = sum / n
	s.TotalQuantity = qty
	s.AvgTradeSize = qty / n
	s.Notional = notional
	if !qtyDec.IsZero() {
		s.VWAP = notional.DivRound(qtyDec, 8)
	}

	if len(trades) > 1 {
		ss := 0.0
		for _, tr := range trades {
			d := tr.Price - s.Mean
			ss += d * d
		}
		s.Std = math.Sqrt(ss / (n - 1))
	}

	return s
}
