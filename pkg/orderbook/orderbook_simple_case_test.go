package orderbook

import (
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderIDExhaustion(t *testing.T) {
	ob := newOrderBook("ABC")
	ob.nextID = math.MaxUint64

	_, fills, err := ob.submit(BUY, d("100"), d("1"))
	if err != ErrOrderIDExhausted {
		t.Fatalf("expected ErrOrderIDExhausted, got %v", err)
	}
	if len(fills) != 0 || len(ob.ordersByID) != 0 {
		t.Errorf("rejected submit must leave the book untouched")
	}
	if snap := ob.snapshot(); len(snap.Bids) != 0 || len(snap.Asks) != 0 {
		t.Errorf("expected empty book, got %+v", snap)
	}
}

func TestPricePriorityBeyondFloatPrecision(t *testing.T) {
	ob := newOrderBook("ABC")

	// two prices whose difference vanishes under float64 rounding must
	// still form distinct levels, with the better one matched first
	worseID, _, _ := ob.submit(SELL, d("100.000000000000000001"), d("1"))
	betterID, _, _ := ob.submit(SELL, d("100"), d("1"))

	_, fills, err := ob.submit(BUY, d("101"), d("2"))
	if err != nil {
		t.Fatalf("submit buy: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(fills))
	}
	if fills[0].SellOrderID != betterID || !fills[0].Price.Equal(d("100")) {
		t.Errorf("lower ask must fill first despite later arrival: %+v", fills[0])
	}
	if fills[1].SellOrderID != worseID || !fills[1].Price.Equal(d("100.000000000000000001")) {
		t.Errorf("higher ask must fill second at its own price: %+v", fills[1])
	}
}

func TestEqualPricesShareOneLevel(t *testing.T) {
	ob := newOrderBook("ABC")

	// value-equal representations land in the same FIFO level
	firstID, _, _ := ob.submit(SELL, d("100.50"), d("1"))
	secondID, _, _ := ob.submit(SELL, d("100.5"), d("1"))

	_, fills, err := ob.submit(BUY, d("101"), d("2"))
	if err != nil {
		t.Fatalf("submit buy: %v", err)
	}
	if len(fills) != 2 || fills[0].SellOrderID != firstID || fills[1].SellOrderID != secondID {
		t.Fatalf("expected FIFO within the shared level, got %+v", fills)
	}
}

func TestSimpleMatch(t *testing.T) {
	ob := newOrderBook("ABC")

	sellID, fills, err := ob.submit(SELL, d("99"), d("10"))
	if err != nil || len(fills) != 0 {
		t.Fatalf("resting sell should not fill: fills=%v err=%v", fills, err)
	}

	buyID, fills, err := ob.submit(BUY, d("100"), d("10"))
	if err != nil {
		t.Fatalf("submit buy: %v", err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected 1 match, got %d", len(fills))
	}

	match := fills[0]
	if match.BuyOrderID != buyID || match.SellOrderID != sellID {
		t.Errorf("incorrect order IDs in match: %+v", match)
	}
	if !match.Qty.Equal(d("10")) || !match.Price.Equal(d("99")) {
		t.Errorf("incorrect qty/price: %+v", match)
	}

	snap := ob.snapshot()
	if len(snap.Bids) != 0 || len(snap.Asks) != 0 {
		t.Errorf("expected empty book, got %+v", snap)
	}
}

func TestExactPriceMatch(t *testing.T) {
	ob := newOrderBook("ABC")

	ob.submit(BUY, d("100"), d("5"))
	_, fills, _ := ob.submit(SELL, d("100"), d("5"))

	if len(fills) != 1 {
		t.Fatalf("expected 1 match, got %d", len(fills))
	}
	if !fills[0].Price.Equal(d("100")) || !fills[0].Qty.Equal(d("5")) {
		t.Errorf("expected fill 5@100, got %+v", fills[0])
	}

	snap := ob.snapshot()
	if len(snap.Bids) != 0 || len(snap.Asks) != 0 {
		t.Errorf("expected both queues empty, got %+v", snap)
	}
}

// An aggressive sell under the best bid still executes at the sell
// order's limit price.
func TestExecutionAtSellPrice(t *testing.T) {
	ob := newOrderBook("ABC")

	ob.submit(BUY, d("100"), d("3"))
	_, fills, _ := ob.submit(SELL, d("90"), d("5"))

	if len(fills) != 1 {
		t.Fatalf("expected 1 match, got %d", len(fills))
	}
	if !fills[0].Price.Equal(d("90")) || !fills[0].Qty.Equal(d("3")) {
		t.Errorf("expected fill 3@90, got %+v", fills[0])
	}

	snap := ob.snapshot()
	if len(snap.Bids) != 0 {
		t.Errorf("bid side should be empty, got %+v", snap.Bids)
	}
	if len(snap.Asks) != 1 || !snap.Asks[0].Qty.Equal(d("2")) || !snap.Asks[0].Price.Equal(d("90")) {
		t.Errorf("expected residual ask 2@90, got %+v", snap.Asks)
	}
}

func TestRestingSellEmptyBidSide(t *testing.T) {
	ob := newOrderBook("ABC")

	id, fills, err := ob.submit(SELL, d("110"), d("1"))
	if err != nil || len(fills) != 0 {
		t.Fatalf("expected no trade, got fills=%v err=%v", fills, err)
	}

	snap := ob.snapshot()
	if len(snap.Asks) != 1 || snap.Asks[0].ID != id {
		t.Errorf("ask side should hold the order, got %+v", snap.Asks)
	}
	if len(snap.Trades) != 0 {
		t.Errorf("trade ledger should be empty, got %+v", snap.Trades)
	}
}

func TestNoMatchDueToPrice(t *testing.T) {
	ob := newOrderBook("ABC")
	cb := func(fills []Trade) {
		// callback fired -> there was a fill -> test failed
		t.Fatalf("expected no match, got %d", len(fills))
	}
	ob.registerTradeCallback(cb)

	ob.submit(SELL, d("100"), d("10"))
	ob.submit(BUY, d("98"), d("10"))
}

func TestPartialMatch(t *testing.T) {
	ob := newOrderBook("ABC")

	ob.submit(SELL, d("100"), d("5"))
	buyID, fills, _ := ob.submit(BUY, d("101"), d("10"))

	if len(fills) != 1 {
		t.Fatalf("expected 1 match, got %d", len(fills))
	}
	if !fills[0].Qty.Equal(d("5")) {
		t.Errorf("expected matched qty 5, got %s", fills[0].Qty)
	}

	snap := ob.snapshot()
	if len(snap.Bids) != 1 || snap.Bids[0].ID != buyID || !snap.Bids[0].Qty.Equal(d("5")) {
		t.Errorf("expected residual bid 5@101, got %+v", snap.Bids)
	}
}

func TestFractionalQty(t *testing.T) {
	ob := newOrderBook("BTCUSDT")

	ob.submit(SELL, d("40000.5"), d("0.75"))
	_, fills, _ := ob.submit(BUY, d("40001"), d("0.5"))

	if len(fills) != 1 || !fills[0].Qty.Equal(d("0.5")) {
		t.Fatalf("expected fill of 0.5, got %+v", fills)
	}

	snap := ob.snapshot()
	if len(snap.Asks) != 1 || !snap.Asks[0].Qty.Equal(d("0.25")) {
		t.Errorf("expected residual ask 0.25, got %+v", snap.Asks)
	}
}

func TestFIFOMatch(t *testing.T) {
	ob := newOrderBook("ABC")

	// two SELLs at the same price, then a BUY sweeping both
	s1, _, _ := ob.submit(SELL, d("100"), d("5"))
	s2, _, _ := ob.submit(SELL, d("100"), d("5"))
	_, fills, _ := ob.submit(BUY, d("100"), d("10"))

	if len(fills) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(fills))
	}
	if fills[0].SellOrderID != s1 || fills[1].SellOrderID != s2 {
		t.Errorf("expected FIFO match order, got %+v", fills)
	}
}

func TestMultiLevelMatch(t *testing.T) {
	ob := newOrderBook("ABC")

	ob.submit(SELL, d("101"), d("5"))
	ob.submit(SELL, d("102"), d("5"))
	ob.submit(SELL, d("103"), d("5"))

	_, fills, _ := ob.submit(BUY, d("105"), d("15"))
	if len(fills) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(fills))
	}
	if !fills[0].Price.Equal(d("101")) || !fills[2].Price.Equal(d("103")) {
		t.Errorf("expected matching from best price, got %+v", fills)
	}
}

// The highest bid has priority, not the oldest or the lowest.
func TestBestBidMatchesFirst(t *testing.T) {
	ob := newOrderBook("ABC")

	ob.submit(BUY, d("95"), d("2"))
	highID, _, _ := ob.submit(BUY, d("105"), d("2"))

	_, fills, _ := ob.submit(SELL, d("90"), d("2"))
	if len(fills) != 1 {
		t.Fatalf("expected 1 match, got %d", len(fills))
	}
	if fills[0].BuyOrderID != highID {
		t.Errorf("expected the 105 bid to match first, got %+v", fills[0])
	}
	if !fills[0].Price.Equal(d("90")) {
		t.Errorf("expected execution at the sell price 90, got %s", fills[0].Price)
	}
}

func TestSubmitInvalidInput(t *testing.T) {
	ob := newOrderBook("ABC")

	if _, _, err := ob.submit(BUY, d("0"), d("10")); err != ErrInvalidOrderPrice {
		t.Errorf("expected ErrInvalidOrderPrice, got %v", err)
	}
	if _, _, err := ob.submit(BUY, d("-5"), d("10")); err != ErrInvalidOrderPrice {
		t.Errorf("expected ErrInvalidOrderPrice, got %v", err)
	}
	if _, _, err := ob.submit(SELL, d("100"), d("0")); err != ErrInvalidOrderQty {
		t.Errorf("expected ErrInvalidOrderQty, got %v", err)
	}

	snap := ob.snapshot()
	if len(snap.Bids) != 0 || len(snap.Asks) != 0 || len(snap.Trades) != 0 {
		t.Errorf("rejected orders must not touch the book, got %+v", snap)
	}
}

func TestMonotonicOrderIDs(t *testing.T) {
	ob := newOrderBook("ABC")

	prev := uint64(0)
	for i := 0; i < 100; i++ {
		id, _, err := ob.submit(BUY, d("100"), d("1"))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if id <= prev {
			t.Fatalf("ids must be strictly increasing: %d after %d", id, prev)
		}
		prev = id
	}
}

func TestHighVolumeOrders(t *testing.T) {
	ob := newOrderBook("ABC")
	trade := 0
	ob.registerTradeCallback(func(fills []Trade) {
		trade += len(fills)
	})

	num := 10_000
	for i := 0; i < num; i++ {
		side := BUY
		if i%2 == 0 {
			side = SELL
		}
		if _, _, err := ob.submit(side, d("100"), d("10")); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	if trade != num/2 {
		t.Errorf("expected %d matches, got %d", num/2, trade)
	}
}

func TestConcurrentOrders(t *testing.T) {
	obm := NewOrderBookManager()

	var wg sync.WaitGroup
	submit := func(side Side) {
		defer wg.Done()
		_, _, err := obm.SubmitOrder("ABC", side, d("100"), d("10"))
		if err != nil {
			t.Errorf("submit: %v", err)
		}
	}

	n := 1000
	for i := 0; i < n; i++ {
		wg.Add(2)
		go submit(BUY)
		go submit(SELL)
	}
	wg.Wait()

	bid, hasBid := obm.BestBid("ABC")
	ask, hasAsk := obm.BestAsk("ABC")
	if hasBid && hasAsk && bid.Price.Cmp(ask.Price) >= 0 {
		t.Errorf("book is crossed: best bid %s >= best ask %s", bid.Price, ask.Price)
	}
}

func BenchmarkOrderBookMatch(b *testing.B) {
	ob := newOrderBook("ABC")

	for i := 0; i < 10_000; i++ {
		price := decimal.NewFromInt(int64(100 + i%5))
		ob.submit(SELL, price, d("10"))
	}

	b.ResetTimer()

	buyPrice := d("101")
	for i := 0; i < b.N; i++ {
		ob.submit(BUY, buyPrice, d("10"))
	}
}
