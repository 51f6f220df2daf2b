package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minPrice  = 100.0
	maxPrice  = 200.0
	minQty    = 1
	maxQty    = 100
)

func randomOrder(rng *rand.Rand) (orderbook.Side, decimal.Decimal, decimal.Decimal) {
	side := orderbook.BUY
	if rng.Intn(2) == 0 {
		side = orderbook.SELL
	}
	price := minPrice + rng.Float64()*(maxPrice-minPrice)
	qty := int64(rng.Intn(maxQty-minQty+1) + minQty)

	return side, decimal.NewFromFloat(price).Round(2), decimal.NewFromInt(qty)
}

func main() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	obm := orderbook.NewOrderBookManager()
	totalMatched := 0
	totalQty := decimal.Zero
	obm.RegisterTradeCallback(func(fills []orderbook.Trade) {
		for _, f := range fills {
			totalMatched++
			totalQty = totalQty.Add(f.Qty)
			if totalMatched <= 5 {
				log.Printf("Match: BUY[%d] <=> SELL[%d] @ %s Qty %s\n",
					f.BuyOrderID, f.SellOrderID, f.Price, f.Qty)
			}
		}
	})

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		side, price, qty := randomOrder(rng)
		if _, _, err := obm.SubmitOrder("ABC", side, price, qty); err != nil {
			log.Fatalf("submit: %v", err)
		}
	}

	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %s\n", totalQty)
	fmt.Printf("Elapsed          : %s\n", elapsed)
	fmt.Printf("Throughput       : %.0f orders/sec\n", float64(numOrders)/elapsed.Seconds())
}
