package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade records one fill. Price is always the sell order's limit price,
// regardless of which side was the aggressor; price improvement goes to
// the buyer.
type Trade struct {
	BuyOrderID  uint64          `json:"buy_order_id"`
	SellOrderID uint64          `json:"sell_order_id"`
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	Qty         decimal.Decimal `json:"qty"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

// OrderView is a read-only copy of a resting order.
type OrderView struct {
	ID    uint64          `json:"id"`
	Price decimal.Decimal `json:"price"`
	Qty   decimal.Decimal `json:"qty"`
}

// BookSnapshot is a consistent read-only view of one book. Bids and asks
// are both listed ascending by price, FIFO within a price level.
type BookSnapshot struct {
	Symbol string      `json:"symbol"`
	Bids   []OrderView `json:"bids"`
	Asks   []OrderView `json:"asks"`
	Trades []Trade     `json:"trades"`
}
