package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/config"
	"github.com/joripage/matching-engine/pkg/engine/repo"
	"github.com/joripage/matching-engine/pkg/engine/worker"
	postgres_wrapper "github.com/joripage/matching-engine/pkg/infra/postgres"
	"github.com/joripage/matching-engine/pkg/logging"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	log := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))
	defer log.Sync() // nolint
	ctx := logging.WithRequestID(context.Background(), logging.NewRequestID())

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		log.Warn(ctx, "could not convert config to JSON", zap.Error(err))
	} else {
		log.Debug(ctx, "load config", zap.ByteString("config", configBytes))
	}

	if cfg.Nats == nil {
		log.Fatal(ctx, "nats config is required for the worker")
	}

	// NATS
	natsURL := nats.DefaultURL
	if cfg.Nats.URL != "" {
		natsURL = cfg.Nats.URL
	}
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Fatal(ctx, "connect nats fail", zap.Error(err))
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Fatal(ctx, "open jetstream fail", zap.Error(err))
	}

	// Ensure stream
	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     cfg.Nats.Stream,
		Subjects: []string{cfg.Nats.Stream + ".*"},
	})

	// init db
	db, err := postgres_wrapper.InitPostgres(cfg.EngineDB)
	if err != nil {
		log.Fatal(ctx, "init db fail", zap.Error(err))
	}

	// init repo
	sqlRepo := repo.NewRepo(db)

	// Worker
	w := worker.NewWorker(sqlRepo)
	go w.StartEventConsumer(ctx, js, cfg.Nats.EventSubject, cfg.Nats.Durable)          // nolint
	go w.StartTradeConsumer(ctx, js, cfg.Nats.TradeSubject, cfg.Nats.Durable+"_trade") // nolint

	select {}
}
