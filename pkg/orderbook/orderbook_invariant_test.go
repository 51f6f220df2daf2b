package orderbook

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func randPrice(rng *rand.Rand) decimal.Decimal {
	// 2-decimal prices in [100, 110)
	cents := 10000 + rng.Intn(1000)
	return decimal.New(int64(cents), -2)
}

func randQty(rng *rand.Rand) decimal.Decimal {
	// fractional quantities in (0, 10]
	units := 1 + rng.Intn(1000)
	return decimal.New(int64(units), -2)
}

func assertSortedAscending(t *testing.T, side string, views []OrderView) {
	t.Helper()
	for i := 1; i < len(views); i++ {
		if views[i-1].Price.Cmp(views[i].Price) > 0 {
			t.Fatalf("%s side not ascending at %d: %s > %s",
				side, i, views[i-1].Price, views[i].Price)
		}
	}
}

func TestIdempotentSnapshot(t *testing.T) {
	ob := newOrderBook("ABC")
	ob.submit(BUY, d("100"), d("5"))
	ob.submit(SELL, d("101"), d("3"))

	first := ob.snapshot()
	second := ob.snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ without mutation: %+v vs %+v", first, second)
	}
}

func TestNoCrossAfterRandomFlow(t *testing.T) {
	ob := newOrderBook("ABC")
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		side := BUY
		if rng.Intn(2) == 0 {
			side = SELL
		}
		if _, _, err := ob.submit(side, randPrice(rng), randQty(rng)); err != nil {
			t.Fatalf("submit: %v", err)
		}

		if i%100 != 0 {
			continue
		}
		snap := ob.snapshot()
		assertSortedAscending(t, "bid", snap.Bids)
		assertSortedAscending(t, "ask", snap.Asks)
	}

	bid, hasBid := ob.bestBid()
	ask, hasAsk := ob.bestAsk()
	if hasBid && hasAsk && bid.Price.Cmp(ask.Price) >= 0 {
		t.Fatalf("book is crossed after matching: best bid %s >= best ask %s",
			bid.Price, ask.Price)
	}
}

func TestQuantityConservation(t *testing.T) {
	ob := newOrderBook("ABC")
	rng := rand.New(rand.NewSource(7))

	submitted := make(map[uint64]decimal.Decimal)
	for i := 0; i < 1000; i++ {
		side := BUY
		if rng.Intn(2) == 0 {
			side = SELL
		}
		qty := randQty(rng)
		id, _, err := ob.submit(side, randPrice(rng), qty)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		submitted[id] = qty
	}

	snap := ob.snapshot()

	filled := make(map[uint64]decimal.Decimal)
	for _, tr := range snap.Trades {
		filled[tr.BuyOrderID] = filled[tr.BuyOrderID].Add(tr.Qty)
		filled[tr.SellOrderID] = filled[tr.SellOrderID].Add(tr.Qty)
	}

	resting := make(map[uint64]decimal.Decimal)
	for _, v := range append(snap.Bids, snap.Asks...) {
		resting[v.ID] = v.Qty
		if !v.Qty.IsPositive() {
			t.Fatalf("resting order %d has non-positive qty %s", v.ID, v.Qty)
		}
	}

	for id, total := range submitted {
		got := filled[id].Add(resting[id])
		if !got.Equal(total) {
			t.Fatalf("order %d: filled+resting=%s, submitted=%s", id, got, total)
		}
	}
}

func TestTradePriceRule(t *testing.T) {
	ob := newOrderBook("ABC")
	rng := rand.New(rand.NewSource(99))

	sellPrice := make(map[uint64]decimal.Decimal)
	for i := 0; i < 1000; i++ {
		price := randPrice(rng)
		if rng.Intn(2) == 0 {
			id, _, err := ob.submit(SELL, price, randQty(rng))
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			sellPrice[id] = price
		} else if _, _, err := ob.submit(BUY, price, randQty(rng)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	for _, tr := range ob.snapshot().Trades {
		want, ok := sellPrice[tr.SellOrderID]
		if !ok {
			t.Fatalf("trade references unknown sell order %d", tr.SellOrderID)
		}
		if !tr.Price.Equal(want) {
			t.Fatalf("trade price %s != sell order limit %s", tr.Price, want)
		}
	}
}

func TestTradeLedgerAppendOnly(t *testing.T) {
	ob := newOrderBook("ABC")

	ob.submit(BUY, d("100"), d("5"))
	ob.submit(SELL, d("100"), d("5"))

	first := ob.snapshot().Trades
	if len(first) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(first))
	}

	ob.submit(BUY, d("101"), d("1"))
	ob.submit(SELL, d("101"), d("1"))

	second := ob.snapshot().Trades
	if len(second) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(second))
	}
	if !reflect.DeepEqual(first[0], second[0]) {
		t.Fatalf("earlier trade mutated: %+v vs %+v", first[0], second[0])
	}
}
