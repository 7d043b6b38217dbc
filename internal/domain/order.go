package domain

// Side identifies which half of the book an order belongs to.
type Side int8

const (
	SideBuy Side = iota + 1
	SideSell
)

// String returns the wire spelling of the side.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid checks that the side is one of the two defined values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// ParseSide maps the wire spelling of a side onto its value.
func ParseSide(s string) (Side, error) {
	switch s {
	case "BUY", "buy":
		return SideBuy, nil
	case "SELL", "sell":
		return SideSell, nil
	}
	return 0, ErrInvalidSide
}

// OrderType distinguishes priced limit orders from immediate market orders.
type OrderType int8

const (
	OrderTypeLimit OrderType = iota + 1
	OrderTypeMarket
)

// String returns the wire spelling of the order type.
func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypeMarket:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// Valid checks that the order type is one of the two defined values.
func (t OrderType) Valid() bool {
	return t == OrderTypeLimit || t == OrderTypeMarket
}

// ParseOrderType maps the wire spelling of an order type onto its value.
func ParseOrderType(s string) (OrderType, error) {
	switch s {
	case "LIMIT", "limit":
		return OrderTypeLimit, nil
	case "MARKET", "market":
		return OrderTypeMarket, nil
	}
	return 0, ErrInvalidOrderType
}

// OrderStatus tracks the order lifecycle:
// NEW -> PARTIALLY_FILLED -> FILLED, or CANCELLED at any open point.
type OrderStatus int8

const (
	OrderStatusNew OrderStatus = iota + 1
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusCancelled
)

// String returns the wire spelling of the status.
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusNew:
		return "NEW"
	case OrderStatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case OrderStatusFilled:
		return "FILLED"
	case OrderStatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// IsOpen checks if an order in this status is still active.
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusNew || s == OrderStatusPartiallyFilled
}
