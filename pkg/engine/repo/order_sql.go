package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

type OrderSQLRepo struct {
	db *gorm.DB
}

func NewOrderSQLRepo(db *gorm.DB) *OrderSQLRepo {
	return &OrderSQLRepo{
		db: db,
	}
}

func (s *OrderSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *OrderSQLRepo) Upsert(ctx context.Context, record *model.Order) error {
	return s.dbWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (s *OrderSQLRepo) GetByOrderID(ctx context.Context, orderID uint64) (*model.Order, error) {
	var record model.Order
	err := s.dbWithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
