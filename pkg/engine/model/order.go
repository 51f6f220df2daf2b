package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusReplaced        OrderStatus = "Replaced"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderExecType string

const (
	ExecTypeNew      OrderExecType = "New"
	ExecTypeTrade    OrderExecType = "Trade"
	ExecTypeCanceled OrderExecType = "Canceled"
	ExecTypeReplaced OrderExecType = "Replaced"
	ExecTypeRejected OrderExecType = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Order tracks the lifecycle of one book order outside the book itself.
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// init info
	OrderID      uint64 `gorm:"uniqueIndex"`
	Symbol       string `gorm:"index"`
	Side         OrderSide
	Price        decimal.Decimal `gorm:"type:numeric"`
	Quantity     decimal.Decimal `gorm:"type:numeric"`
	TransactTime time.Time

	// calculated info
	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    decimal.Decimal `gorm:"type:numeric"`
	LeavesQuantity decimal.Decimal `gorm:"type:numeric"`
	LastQuantity   decimal.Decimal `gorm:"type:numeric"`
	LastPrice      decimal.Decimal `gorm:"type:numeric"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) ApplySubmit(req *SubmitOrder, orderID uint64) {
	o.OrderID = orderID
	o.Symbol = req.Symbol
	o.Side = req.Side
	o.Price = req.Price
	o.Quantity = req.Quantity
	o.TransactTime = req.TransactTime
	o.Status = OrderStatusNew
	o.ExecType = ExecTypeNew
	o.LeavesQuantity = req.Quantity
}

func (o *Order) ApplyFill(price, qty decimal.Decimal) {
	o.CumQuantity = o.CumQuantity.Add(qty)
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)
	o.LastQuantity = qty
	o.LastPrice = price
	o.ExecType = ExecTypeTrade
	if o.LeavesQuantity.IsPositive() {
		o.Status = OrderStatusPartiallyFilled
	} else {
		o.Status = OrderStatusFilled
	}
}

// ApplyAmend mirrors the book's amendment semantics: the new quantity
// replaces the order's remaining quantity, so the total grows by any
// quantity already filled.
func (o *Order) ApplyAmend(req *AmendOrder) {
	if req.NewPrice != nil {
		o.Price = *req.NewPrice
	}
	if req.NewQuantity != nil {
		o.LeavesQuantity = *req.NewQuantity
		o.Quantity = o.CumQuantity.Add(*req.NewQuantity)
	}
	o.Status = OrderStatusReplaced
	o.ExecType = ExecTypeReplaced
}

func (o *Order) ApplyCancel() {
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.LeavesQuantity = decimal.Zero
}

func (o *Order) ApplyReject() {
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
}

func (o *Order) CanAmend() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusReplaced:
		return true
	}
	return false
}

func (o *Order) CanCancel() bool {
	return o.CanAmend()
}

func (s OrderSide) BookSide() orderbook.Side {
	if s == OrderSideSell {
		return orderbook.SELL
	}
	return orderbook.BUY
}
