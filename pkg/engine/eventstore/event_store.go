package eventstore

import "github.com/joripage/matching-engine/pkg/engine/model"

type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	Events(orderID uint64) []*model.OrderEvent
	AllEvents() []*model.OrderEvent
}
