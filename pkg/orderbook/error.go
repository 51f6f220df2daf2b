package orderbook

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrderPrice = errors.New("invalid order price")
	ErrInvalidOrderQty   = errors.New("invalid order quantity")
	ErrOrderIDExhausted  = errors.New("order id counter exhausted")
)
