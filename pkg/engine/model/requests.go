package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmitOrder struct {
	Symbol       string
	Side         OrderSide
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	TransactTime time.Time
}

// AmendOrder updates price and/or quantity of a resting order. Nil fields
// are left unchanged; NewQuantity <= 0 cancels the order.
type AmendOrder struct {
	Symbol      string
	OrderID     uint64
	NewPrice    *decimal.Decimal
	NewQuantity *decimal.Decimal
}

type CancelOrder struct {
	Symbol  string
	OrderID uint64
}
