package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/matching-engine/config"
	"github.com/joripage/matching-engine/pkg/engine"
	"github.com/joripage/matching-engine/pkg/feed"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/marketdata"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/simulator"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer logger.Sync() // nolint

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	log, lctx := logging.GetLogger(
		logging.WithRequestID(context.Background(), logging.NewRequestID()))
	ctx, cancel := context.WithCancel(lctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	// anchor the synthetic flow on a live reference price when available
	if cfg.MarketData != nil && cfg.Simulator != nil {
		client := marketdata.NewClient(cfg.MarketData)
		quote, err := client.GetTicker(ctx, cfg.Simulator.Symbol)
		if err != nil {
			log.Warn(ctx, "reference price unavailable, using configured ranges", zap.Error(err))
		} else {
			fmt.Printf("Reference price %s: %s\n", quote.Symbol, quote.Price)
			cfg.Simulator.CenterOn(quote.Price, 10)
		}
	}

	var pub engine.TradePublisher
	if cfg.Kafka != nil {
		kafkaPub := feed.NewPublisher(cfg.Kafka)
		defer kafkaPub.Close() // nolint
		pub = kafkaPub
	}

	var cache engine.SnapshotCache
	if cfg.Redis != nil {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			log.Warn(ctx, "redis unavailable, snapshot cache disabled", zap.Error(err))
		} else {
			cache = engine.NewRedisSnapshotCache(redisClient, time.Minute)
		}
	}

	eng := engine.NewEngine(pub, cache)
	log.Info(ctx, "matching engine ready", zap.String("service", cfg.ServiceName))

	if cfg.Simulator != nil {
		sim := simulator.NewSimulator(cfg.Simulator, eng)
		if err := sim.Run(ctx); err != nil {
			log.Error(ctx, "seed orders fail", zap.Error(err))
			os.Exit(1)
		}
		printBookStatus(eng.Snapshot(cfg.Simulator.Symbol))
	}
	log.Sync() // nolint
}

func printBookStatus(snap orderbook.BookSnapshot) {
	fmt.Printf(" Order Book (%s):\n", snap.Symbol)

	fmt.Println("Buy Orders:")
	for _, o := range snap.Bids {
		fmt.Printf("  ID: %d, Price: %s, Quantity: %s\n", o.ID, o.Price, o.Qty)
	}

	fmt.Println("Sell Orders:")
	for _, o := range snap.Asks {
		fmt.Printf("  ID: %d, Price: %s, Quantity: %s\n", o.ID, o.Price, o.Qty)
	}

	fmt.Println("Trades:")
	for _, t := range snap.Trades {
		fmt.Printf("  Buy Order %d matched Sell Order %d at %s for %s\n",
			t.BuyOrderID, t.SellOrderID, t.Price, t.Qty)
	}
	fmt.Println("--------------------------------------")
}
