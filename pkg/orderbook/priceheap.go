package orderbook

import "github.com/shopspring/decimal"

// levelKey canonicalizes a price for use as a level map key. The
// rational form normalizes representation, so values equal as decimals
// always map to one level and distinct values never collide.
func levelKey(p decimal.Decimal) string {
	return p.Rat().RatString()
}

// PriceHeap implements heap.Interface over the distinct level prices of
// one book side. Each price appears at most once; the deque attached to
// the level keeps FIFO order.
type PriceHeap struct {
	prices []decimal.Decimal
	less   func(i, j decimal.Decimal) bool
	index  map[string]bool
}

func NewPriceHeap(less func(i, j decimal.Decimal) bool) *PriceHeap {
	return &PriceHeap{
		prices: []decimal.Decimal{},
		less:   less,
		index:  make(map[string]bool),
	}
}

func (h PriceHeap) Len() int {
	return len(h.prices)
}

func (h PriceHeap) Less(i, j int) bool {
	return h.less(h.prices[i], h.prices[j])
}

func (h PriceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *PriceHeap) Push(x any) {
	price := x.(decimal.Decimal)
	key := levelKey(price)
	if !h.index[key] {
		h.index[key] = true
		h.prices = append(h.prices, price)
	}
}

func (h *PriceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.index, levelKey(price))
	return price
}

func (h *PriceHeap) Peek() (decimal.Decimal, bool) {
	if len(h.prices) == 0 {
		return decimal.Decimal{}, false
	}
	return h.prices[0], true
}
