package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/engine/eventstore"
	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/joripage/matching-engine/pkg/orderbook"
)

// TradePublisher pushes executed trades to an external feed.
type TradePublisher interface {
	PublishTrades(ctx context.Context, trades []orderbook.Trade) error
}

// SnapshotCache stores the latest book snapshot for external readers.
type SnapshotCache interface {
	StoreSnapshot(ctx context.Context, snap orderbook.BookSnapshot) error
}

// Engine drives the order books and keeps the execution-report trail:
// every submit/amend/cancel appends order events to the event store,
// publishes resulting trades and refreshes the cached snapshot.
type Engine struct {
	books      *orderbook.OrderBookManager
	eventstore eventstore.EventStore
	feed       TradePublisher
	cache      SnapshotCache

	orders sync.Map // orderID -> *model.Order
}

var totalMatchQty int64 = 0
var totalMatchCount int64 = 0

// NewEngine wires an engine. feed and cache may be nil; the book still
// works standalone.
func NewEngine(feed TradePublisher, cache SnapshotCache) *Engine {
	return &Engine{
		books:      orderbook.NewOrderBookManager(),
		eventstore: eventstore.NewInMemoryEventStore(),
		feed:       feed,
		cache:      cache,
	}
}

func (s *Engine) SubmitOrder(ctx context.Context, req *model.SubmitOrder) (uint64, error) {
	if req.TransactTime.IsZero() {
		req.TransactTime = time.Now()
	}

	orderID, fills, err := s.books.SubmitOrder(req.Symbol, req.Side.BookSide(), req.Price, req.Quantity)
	if err != nil {
		return 0, err
	}

	order := &model.Order{}
	order.ApplySubmit(req, orderID)
	s.orders.Store(orderID, order)
	s.eventstore.AddEvent(model.NewOrderEvent(*order, time.Now()))

	s.processFills(ctx, fills)
	s.refreshSnapshot(ctx, req.Symbol)

	return orderID, nil
}

func (s *Engine) AmendOrder(ctx context.Context, req *model.AmendOrder) error {
	order, err := s.GetOrderByOrderID(req.OrderID)
	if err != nil {
		return err
	}
	if !order.CanAmend() {
		return errInvalidOrderStatus
	}

	fills, err := s.books.AmendOrder(req.Symbol, req.OrderID, req.NewPrice, req.NewQuantity)
	if err != nil {
		return err
	}

	if req.NewQuantity != nil && req.NewQuantity.Sign() <= 0 {
		order.ApplyCancel()
	} else {
		order.ApplyAmend(req)
	}
	s.eventstore.AddEvent(model.NewOrderEvent(*order, time.Now()))

	s.processFills(ctx, fills)
	s.refreshSnapshot(ctx, req.Symbol)

	return nil
}

func (s *Engine) CancelOrder(ctx context.Context, req *model.CancelOrder) error {
	order, err := s.GetOrderByOrderID(req.OrderID)
	if err != nil {
		return err
	}
	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	if err := s.books.CancelOrder(req.Symbol, req.OrderID); err != nil {
		return err
	}

	order.ApplyCancel()
	s.eventstore.AddEvent(model.NewOrderEvent(*order, time.Now()))
	s.refreshSnapshot(ctx, req.Symbol)

	return nil
}

func (s *Engine) Snapshot(symbol string) orderbook.BookSnapshot {
	return s.books.Snapshot(symbol)
}

func (s *Engine) Events(orderID uint64) []*model.OrderEvent {
	return s.eventstore.Events(orderID)
}

func (s *Engine) GetOrderByOrderID(orderID uint64) (*model.Order, error) {
	val, ok := s.orders.Load(orderID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return val.(*model.Order), nil
}

func (s *Engine) processFills(ctx context.Context, fills []orderbook.Trade) {
	if len(fills) == 0 {
		return
	}

	now := time.Now()
	for _, fill := range fills {
		atomic.AddInt64(&totalMatchQty, fill.Qty.IntPart())
		if atomic.AddInt64(&totalMatchCount, 1)%10000 == 0 {
			zap.S().Infof("TotalMatchCount: %d, TotalMatchQty: %d",
				atomic.LoadInt64(&totalMatchCount), atomic.LoadInt64(&totalMatchQty))
		}

		buyOrder, err := s.GetOrderByOrderID(fill.BuyOrderID)
		if err != nil {
			zap.S().Warnf("match buyOrderID=%d not found", fill.BuyOrderID)
			continue
		}
		buyOrder.ApplyFill(fill.Price, fill.Qty)
		s.eventstore.AddEvent(model.NewOrderEvent(*buyOrder, now))

		sellOrder, err := s.GetOrderByOrderID(fill.SellOrderID)
		if err != nil {
			zap.S().Warnf("match sellOrderID=%d not found", fill.SellOrderID)
			continue
		}
		sellOrder.ApplyFill(fill.Price, fill.Qty)
		s.eventstore.AddEvent(model.NewOrderEvent(*sellOrder, now))
	}

	if s.feed != nil {
		if err := s.feed.PublishTrades(ctx, fills); err != nil {
			zap.S().Warnf("publish trades fail: %v", err)
		}
	}
}

func (s *Engine) refreshSnapshot(ctx context.Context, symbol string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.StoreSnapshot(ctx, s.books.Snapshot(symbol)); err != nil {
		zap.S().Warnf("store snapshot fail: %v", err)
	}
}
