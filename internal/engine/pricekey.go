package engine

import (
	"math"

	"quant_go/internal/domain"
)

const signBit = uint64(1) << 63

// priceKey maps a float64 price to a uint64 whose natural ordering matches
// the numeric ordering of the price. Positive floats compare correctly as
// raw bits once the sign bit is set; negative floats are bit-inverted so
// larger magnitudes sort lower.
func priceKey(price float64) uint64 {
	bits := math.Float64bits(price)
	if bits&signBit != 0 {
		return ^bits
	}
	return bits | signBit
}

// levelKey is the tree key for a price level. Ask levels use the order-
// preserving key directly so ascending iteration walks cheapest first. Bid
// levels complement it so ascending iteration walks highest first. Both
// sides then share one iteration direction for best-first traversal.
func levelKey(side domain.Side, price float64) uint64 {
	k := priceKey(price)
	if side == domain.SideBuy {
		return ^k
	}
	return k
}
