package repo

import (
	"context"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

type IOrder interface {
	Upsert(ctx context.Context, record *model.Order) error
	GetByOrderID(ctx context.Context, orderID uint64) (*model.Order, error)
}

type IOrderEvent interface {
	Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error)
}

type ITrade interface {
	Create(ctx context.Context, record *model.TradeRecord) (*model.TradeRecord, error)
	BulkCreate(ctx context.Context, records []*model.TradeRecord) ([]*model.TradeRecord, error)
}
