package domain

import (
	"time"
)

// SimulationRun captures one simulator execution: its parameters, flow
// counters, and the statistics computed over the drained trades. It doubles
// as the persistence row and the JSON report body.
type SimulationRun struct {
	RunID       string `gorm:"primaryKey" json:"run_id"`
	Mode        string `json:"mode" gorm:"index"`
	Seed        int64  `json:"seed"`
	SimulatedMS int64  `json:"simulated_ms"` // simulated clock span
	ElapsedMS   int64  `json:"elapsed_ms"`   // wall clock span

	OrdersSubmitted  uint64 `json:"orders_submitted"`
	LimitOrders      uint64 `json:"limit_orders"`
	MarketOrders     uint64 `json:"market_orders"`
	OrdersRejected   uint64 `json:"orders_rejected"`
	CancelsRequested uint64 `json:"cancels_requested"`
	CancelsHonored   uint64 `json:"cancels_honored"`
	TradesExecuted   uint64 `json:"trades_executed"`

	FillRatio    float64 `json:"fill_ratio"` // executed quantity (both sides) over submitted quantity
	OrdersPerSec float64 `json:"orders_per_sec"`
	TradesPerSec float64 `json:"trades_per_sec"`

	PriceMin  float64 `json:"price_min"`
	PriceMax  float64 `json:"price_max"`
	PriceMean float64 `json:"price_mean"`
	PriceStd  float64 `json:"price_std"`
	VWAP      string  `json:"vwap"`     // decimal string, exact
	Notional  string  `json:"notional"` // decimal string, exact

	FinalBidLevels int     `json:"final_bid_levels"`
	FinalAskLevels int     `json:"final_ask_levels"`
	FinalResting   int     `json:"final_resting_orders"`
	FinalSpread    float64 `json:"final_spread"` // 0 when either side is empty
	FinalMid       float64 `json:"final_mid"`    // 0 when either side is empty

	GoldenCrosses uint64 `json:"golden_crosses"` // short SMA of trade prices crossing above long
	DeadCrosses   uint64 `json:"dead_crosses"`   // short SMA crossing below long

	CreatedAt time.Time `json:"created_at"`
}

// BenchmarkRun captures one latency benchmark execution: parameters plus the
// per-order latency aggregates of the measured phase.
type BenchmarkRun struct {
	RunID      string `gorm:"primaryKey" json:"run_id"`
	Warmup     int    `json:"warmup"`
	Iterations int    `json:"iterations"`
	Preload    int    `json:"preload"`
	Seed       int64  `json:"seed"`

	MinNs    int64 `json:"min_ns"`
	MeanNs   int64 `json:"mean_ns"`
	MedianNs int64 `json:"median_ns"`
	P99Ns    int64 `json:"p99_ns"`
	MaxNs    int64 `json:"max_ns"`

	OrdersPerSec float64 `json:"orders_per_sec"`
	TradesPerSec float64 `json:"trades_per_sec"`

	CreatedAt time.Time `json:"created_at"`
}

// ArchivedTrade is a drained trade persisted under the run that produced it.
type ArchivedTrade struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"-"`
	RunID       string  `gorm:"index" json:"run_id"`
	TradeID     uint64  `json:"trade_id"`
	BuyOrderID  uint64  `json:"buy_order_id"`
	SellOrderID uint64  `json:"sell_order_id"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Timestamp   int64   `json:"timestamp"`
}
