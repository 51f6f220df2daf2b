// Package feed publishes executed trades to Kafka for downstream
// consumers (market data, settlement, analytics).
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

type Config struct {
	Brokers        []string `yaml:"brokers"`
	Topic          string   `yaml:"topic"`
	BatchSize      int      `yaml:"batch_size"`
	BatchTimeoutMs int      `yaml:"batch_timeout_ms"`
}

type Publisher struct {
	w     *kafka.Writer
	topic string
}

func NewPublisher(cfg *Config) *Publisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeoutMs == 0 {
		cfg.BatchTimeoutMs = 50
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           time.Duration(cfg.BatchTimeoutMs) * time.Millisecond,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Publisher{w: wr, topic: cfg.Topic}
}

// PublishTrades writes one message per trade, keyed by symbol so each
// instrument's fills stay ordered within a partition.
func (p *Publisher) PublishTrades(ctx context.Context, trades []orderbook.Trade) error {
	if p == nil || p.w == nil {
		return errors.New("publisher not initialized")
	}
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		payload, err := json.Marshal(trade)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Topic: p.topic,
			Key:   []byte(trade.Symbol),
			Value: payload,
			Time:  trade.ExecutedAt,
		})
	}
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
