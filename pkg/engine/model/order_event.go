package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is one step of an order's execution report chain.
type OrderEvent struct {
	EventID   string `gorm:"primaryKey"`
	OrderID   uint64 `gorm:"index"`
	Symbol    string
	ExecType  OrderExecType
	Status    OrderStatus
	Price     decimal.Decimal `gorm:"type:numeric"`
	Qty       decimal.Decimal `gorm:"type:numeric"`
	Timestamp time.Time
}

func (OrderEvent) TableName() string {
	return "order_events"
}

func NewOrderEvent(o Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:   NewEventID(o.OrderID, o.Status, ts),
		OrderID:   o.OrderID,
		Symbol:    o.Symbol,
		ExecType:  o.ExecType,
		Status:    o.Status,
		Price:     o.LastPrice,
		Qty:       o.LastQuantity,
		Timestamp: ts,
	}
}

func NewEventID(orderID uint64, status OrderStatus, ts time.Time) string {
	return fmt.Sprintf("%d-%s-%d", orderID, status, ts.UnixNano())
}
