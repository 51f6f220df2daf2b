package orderbook

import "github.com/shopspring/decimal"

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Order is a resting limit order. Price and Qty are decimals so price
// ordering and quantity conservation hold exactly across partial fills.
type Order struct {
	ID     uint64
	Symbol string
	Side   Side
	Price  decimal.Decimal
	Qty    decimal.Decimal
}

func validateLimit(price, qty decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidOrderPrice
	}
	if !qty.IsPositive() {
		return ErrInvalidOrderQty
	}
	return nil
}
