package worker

import (
	"context"
	"encoding/json"
	"log"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/joripage/matching-engine/pkg/engine/repo"
)

// Worker drains order events and trades from JetStream into the database.
type Worker struct {
	order      repo.IOrder
	orderEvent repo.IOrderEvent
	trade      repo.ITrade
}

func NewWorker(r repo.IRepo) *Worker {
	return &Worker{
		order:      r.Order(),
		orderEvent: r.OrderEvent(),
		trade:      r.Trade(),
	}
}

func (w *Worker) StartEventConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	// Create durable consumer
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := cons.Fetch(10)
		if err != nil {
			log.Println("Fetch error:", err)
			continue
		}

		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				log.Println("unmarshal err", err)
				_ = msg.Ack()
				continue
			}
			if err := w.handleEvent(ev); err != nil {
				log.Println("handleEvent err", err)
				continue
			}
			_ = msg.Ack()
		}
	}
}

func (w *Worker) StartTradeConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := cons.Fetch(10)
		if err != nil {
			log.Println("Fetch error:", err)
			continue
		}

		for _, msg := range msgs {
			var tr model.TradeRecord
			if err := json.Unmarshal(msg.Data, &tr); err != nil {
				log.Println("unmarshal err", err)
				_ = msg.Ack()
				continue
			}
			if err := w.handleTrade(tr); err != nil {
				log.Println("handleTrade err", err)
				continue
			}
			_ = msg.Ack()
		}
	}
}

func (w *Worker) handleEvent(ev model.OrderEvent) error {
	_, err := w.orderEvent.Create(context.Background(), &ev)
	return err
}

func (w *Worker) handleTrade(tr model.TradeRecord) error {
	_, err := w.trade.Create(context.Background(), &tr)
	return err
}
