package orderbook

import (
	"sync"

	"github.com/shopspring/decimal"
)

// OrderBookManager hosts one independent book per symbol. Books never
// interact; cross-symbol behavior is purely the caller's concern.
type OrderBookManager struct {
	books     sync.Map
	callbacks []func([]Trade)
	mu        sync.Mutex
}

func NewOrderBookManager() *OrderBookManager {
	return &OrderBookManager{
		books: sync.Map{},
	}
}

// SubmitOrder inserts a new limit order and returns its id together with
// any fills it produced.
func (s *OrderBookManager) SubmitOrder(symbol string, side Side, price, qty decimal.Decimal) (uint64, []Trade, error) {
	book := s.getOrCreateBook(symbol)
	return book.submit(side, price, qty)
}

// AmendOrder updates price and/or quantity of a resting order. A nil
// field is left unchanged; a new quantity replaces the remaining
// quantity, and a new quantity <= 0 cancels the order.
func (s *OrderBookManager) AmendOrder(symbol string, orderID uint64, newPrice, newQty *decimal.Decimal) ([]Trade, error) {
	book := s.getOrCreateBook(symbol)
	return book.amend(orderID, newPrice, newQty)
}

func (s *OrderBookManager) CancelOrder(symbol string, orderID uint64) error {
	book := s.getOrCreateBook(symbol)
	return book.cancel(orderID)
}

func (s *OrderBookManager) Snapshot(symbol string) BookSnapshot {
	return s.getOrCreateBook(symbol).snapshot()
}

func (s *OrderBookManager) BestBid(symbol string) (OrderView, bool) {
	return s.getOrCreateBook(symbol).bestBid()
}

func (s *OrderBookManager) BestAsk(symbol string) (OrderView, bool) {
	return s.getOrCreateBook(symbol).bestAsk()
}

func (s *OrderBookManager) RegisterTradeCallback(cb func([]Trade)) {
	s.mu.Lock()
	s.callbacks = append(s.callbacks, cb)
	s.mu.Unlock()

	// apply callback to all books
	s.books.Range(func(_, v any) bool {
		book := v.(*orderBook)
		book.registerTradeCallback(cb)
		return true
	})
}

func (s *OrderBookManager) getOrCreateBook(symbol string) *orderBook {
	if val, ok := s.books.Load(symbol); ok {
		return val.(*orderBook)
	}

	book := newOrderBook(symbol)
	s.mu.Lock()
	for _, cb := range s.callbacks {
		book.registerTradeCallback(cb)
	}
	s.mu.Unlock()

	actual, _ := s.books.LoadOrStore(symbol, book)
	return actual.(*orderBook)
}
