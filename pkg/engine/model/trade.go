package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

// TradeRecord is the persisted form of one ledger entry.
type TradeRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Symbol      string `gorm:"index"`
	BuyOrderID  uint64
	SellOrderID uint64
	Price       decimal.Decimal `gorm:"type:numeric"`
	Quantity    decimal.Decimal `gorm:"type:numeric"`
	ExecutedAt  time.Time
}

func (TradeRecord) TableName() string {
	return "trades"
}

func NewTradeRecord(t orderbook.Trade) *TradeRecord {
	return &TradeRecord{
		Symbol:      t.Symbol,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price,
		Quantity:    t.Qty,
		ExecutedAt:  t.ExecutedAt,
	}
}
