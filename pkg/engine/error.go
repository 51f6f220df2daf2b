package engine

import "errors"

var (
	errOrderIDNotFound    = errors.New("orderID not found")
	errInvalidOrderStatus = errors.New("invalid order status")
)
