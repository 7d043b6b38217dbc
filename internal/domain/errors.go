package domain

import "errors"

var (
	// ErrInvalidPrice is returned when a limit price is zero, negative, or not finite.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidQuantity is returned when an order quantity is zero, negative, or not finite.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidSide is returned when a side is neither BUY nor SELL.
	ErrInvalidSide = errors.New("invalid side")

	// ErrInvalidOrderType is returned when an order type is neither LIMIT nor MARKET.
	ErrInvalidOrderType = errors.New("invalid order type")

	// ErrConfigNotFound is returned when the configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)

// InvalidOrderError reports a rejected order submission. The engine state is
// untouched and no order id was consumed.
type InvalidOrderError struct {
	Field string // offending field ("side", "price", "quantity", "type")
	Err   error  // sentinel cause
}

func (e *InvalidOrderError) Error() string {
	return "invalid order [" + e.Field + "]: " + e.Err.Error()
}

func (e *InvalidOrderError) Unwrap() error {
	return e.Err
}

// IsInvalidOrder checks if an error is an order validation failure.
func IsInvalidOrder(err error) bool {
	var ioe *InvalidOrderError
	return errors.As(err, &ioe)
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
