package orderbook

import (
	"container/heap"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
)

// orderBook keeps one price-level deque per price on each side, keyed by
// the price's canonical rational form, plus a heap of level prices per
// side: max-heap for buys (best bid = highest price), min-heap for sells
// (best ask = lowest price). Every mutating operation runs
// insert/amend-then-match under one lock, so the match loop always scans
// two consistently sorted sides.
type orderBook struct {
	symbol string

	buyOrders  map[string]*deque.Deque[*Order]
	sellOrders map[string]*deque.Deque[*Order]

	buyHeap  *PriceHeap
	sellHeap *PriceHeap

	ordersByID map[uint64]*Order

	trades []Trade
	nextID uint64

	callbacks []func([]Trade)

	mu sync.Mutex
}

func newOrderBook(symbol string) *orderBook {
	buyHeap := NewPriceHeap(func(i, j decimal.Decimal) bool { return i.GreaterThan(j) }) // Max-heap
	sellHeap := NewPriceHeap(func(i, j decimal.Decimal) bool { return i.LessThan(j) })  // Min-heap

	return &orderBook{
		symbol:     symbol,
		buyOrders:  make(map[string]*deque.Deque[*Order]),
		sellOrders: make(map[string]*deque.Deque[*Order]),
		buyHeap:    buyHeap,
		sellHeap:   sellHeap,
		ordersByID: make(map[uint64]*Order),
		nextID:     1,
	}
}

func (ob *orderBook) registerTradeCallback(fn func([]Trade)) {
	ob.callbacks = append(ob.callbacks, fn)
}

// submit validates, assigns a fresh id, enqueues the order at the back of
// its price level and runs the match loop. A rejected order leaves the
// book untouched.
func (ob *orderBook) submit(side Side, price, qty decimal.Decimal) (uint64, []Trade, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if err := validateLimit(price, qty); err != nil {
		return 0, nil, err
	}
	if ob.nextID == math.MaxUint64 {
		return 0, nil, ErrOrderIDExhausted
	}

	order := &Order{
		ID:     ob.nextID,
		Symbol: ob.symbol,
		Side:   side,
		Price:  price,
		Qty:    qty,
	}
	ob.nextID++

	ob.addToBook(order)
	ob.ordersByID[order.ID] = order

	fills := ob.matchCrossed()
	ob.fireCallbacks(fills)

	return order.ID, fills, nil
}

// amend updates price and/or quantity of a resting order, keyed by its
// immutable id. A new quantity replaces the remaining quantity; a
// quantity <= 0 cancels the order. A price change re-enqueues the order
// at the back of the new level, restoring the ordering invariant before
// matching runs.
func (ob *orderBook) amend(id uint64, newPrice, newQty *decimal.Decimal) ([]Trade, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.ordersByID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if newPrice != nil && !newPrice.IsPositive() {
		return nil, ErrInvalidOrderPrice
	}

	if newQty != nil && newQty.Sign() <= 0 {
		ob.removeFromBook(order)
		delete(ob.ordersByID, id)
		return nil, nil
	}

	if newQty != nil {
		order.Qty = *newQty
	}
	if newPrice != nil && !newPrice.Equal(order.Price) {
		ob.removeFromBook(order)
		order.Price = *newPrice
		ob.addToBook(order)
	}

	fills := ob.matchCrossed()
	ob.fireCallbacks(fills)

	return fills, nil
}

func (ob *orderBook) cancel(id uint64) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.ordersByID[id]
	if !ok {
		return ErrOrderNotFound
	}
	ob.removeFromBook(order)
	delete(ob.ordersByID, id)
	return nil
}

// matchCrossed fills while the best bid price meets or exceeds the best
// ask price. Each iteration either exits or removes at least one order,
// so the loop terminates. Fully filled orders leave their queue; residual
// quantity stays at the front for the next iteration.
func (ob *orderBook) matchCrossed() []Trade {
	var fills []Trade

	for {
		bid, ok := ob.bestOrder(ob.buyOrders, ob.buyHeap)
		if !ok {
			break
		}
		ask, ok := ob.bestOrder(ob.sellOrders, ob.sellHeap)
		if !ok {
			break
		}
		if bid.Price.Cmp(ask.Price) < 0 {
			break
		}

		matchQty := decimal.Min(bid.Qty, ask.Qty)
		bid.Qty = bid.Qty.Sub(matchQty)
		ask.Qty = ask.Qty.Sub(matchQty)

		fill := Trade{
			BuyOrderID:  bid.ID,
			SellOrderID: ask.ID,
			Symbol:      ob.symbol,
			Price:       ask.Price,
			Qty:         matchQty,
			ExecutedAt:  time.Now(),
		}
		ob.trades = append(ob.trades, fill)
		fills = append(fills, fill)

		if bid.Qty.IsZero() {
			ob.buyOrders[levelKey(bid.Price)].PopFront()
			delete(ob.ordersByID, bid.ID)
		}
		if ask.Qty.IsZero() {
			ob.sellOrders[levelKey(ask.Price)].PopFront()
			delete(ob.ordersByID, ask.ID)
		}
	}

	return fills
}

// bestOrder returns the front order of the best non-empty level, lazily
// dropping levels emptied by cancels or amends.
func (ob *orderBook) bestOrder(book map[string]*deque.Deque[*Order], priceHeap *PriceHeap) (*Order, bool) {
	for {
		price, ok := priceHeap.Peek()
		if !ok {
			return nil, false
		}
		key := levelKey(price)
		q := book[key]
		if q == nil || q.Len() == 0 {
			heap.Pop(priceHeap)
			delete(book, key)
			continue
		}
		return q.Front(), true
	}
}

func (ob *orderBook) addToBook(order *Order) {
	book, priceHeap := ob.sideOf(order.Side)
	key := levelKey(order.Price)
	if book[key] == nil {
		book[key] = &deque.Deque[*Order]{}
		heap.Push(priceHeap, order.Price)
	}
	book[key].PushBack(order)
}

func (ob *orderBook) removeFromBook(order *Order) {
	book, _ := ob.sideOf(order.Side)
	q := book[levelKey(order.Price)]
	if q == nil {
		return
	}
	i := q.Index(func(o *Order) bool { return o.ID == order.ID })
	if i >= 0 {
		q.Remove(i)
	}
}

func (ob *orderBook) sideOf(side Side) (map[string]*deque.Deque[*Order], *PriceHeap) {
	if side == BUY {
		return ob.buyOrders, ob.buyHeap
	}
	return ob.sellOrders, ob.sellHeap
}

func (ob *orderBook) fireCallbacks(fills []Trade) {
	if len(fills) == 0 {
		return
	}
	for _, cb := range ob.callbacks {
		cb(fills)
	}
}

// snapshot copies the current book state. Both sides are listed ascending
// by price, FIFO within a level; the trade ledger is in execution order.
func (ob *orderBook) snapshot() BookSnapshot {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	snap := BookSnapshot{
		Symbol: ob.symbol,
		Bids:   sideViews(ob.buyOrders),
		Asks:   sideViews(ob.sellOrders),
		Trades: make([]Trade, len(ob.trades)),
	}
	copy(snap.Trades, ob.trades)
	return snap
}

func sideViews(book map[string]*deque.Deque[*Order]) []OrderView {
	levels := make([]*deque.Deque[*Order], 0, len(book))
	for _, q := range book {
		if q.Len() > 0 {
			levels = append(levels, q)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Front().Price.LessThan(levels[j].Front().Price)
	})

	var views []OrderView
	for _, q := range levels {
		for i := 0; i < q.Len(); i++ {
			o := q.At(i)
			views = append(views, OrderView{ID: o.ID, Price: o.Price, Qty: o.Qty})
		}
	}
	return views
}

func (ob *orderBook) bestBid() (OrderView, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.bestOrder(ob.buyOrders, ob.buyHeap)
	if !ok {
		return OrderView{}, false
	}
	return OrderView{ID: order.ID, Price: order.Price, Qty: order.Qty}, true
}

func (ob *orderBook) bestAsk() (OrderView, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.bestOrder(ob.sellOrders, ob.sellHeap)
	if !ok {
		return OrderView{}, false
	}
	return OrderView{ID: order.ID, Price: order.Price, Qty: order.Qty}, true
}
