package eventstore

import (
	"sync"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

type InMemoryEventStore struct {
	mu     sync.RWMutex
	byID   map[uint64][]*model.OrderEvent
	events []*model.OrderEvent
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		byID: make(map[uint64][]*model.OrderEvent),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[ev.OrderID] = append(s.byID[ev.OrderID], ev)
	s.events = append(s.events, ev)
}

func (s *InMemoryEventStore) Events(orderID uint64) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.byID[orderID]
	out := make([]*model.OrderEvent, len(evs))
	copy(out, evs)
	return out
}

func (s *InMemoryEventStore) AllEvents() []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.OrderEvent, len(s.events))
	copy(out, s.events)
	return out
}
