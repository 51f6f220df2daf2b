package eventstore

import (
	"testing"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

func TestInMemoryEventStore(t *testing.T) {
	store := NewInMemoryEventStore()

	store.AddEvent(&model.OrderEvent{EventID: "a", OrderID: 1, ExecType: model.ExecTypeNew})
	store.AddEvent(&model.OrderEvent{EventID: "b", OrderID: 2, ExecType: model.ExecTypeNew})
	store.AddEvent(&model.OrderEvent{EventID: "c", OrderID: 1, ExecType: model.ExecTypeTrade})

	evs := store.Events(1)
	if len(evs) != 2 || evs[0].EventID != "a" || evs[1].EventID != "c" {
		t.Fatalf("unexpected events for order 1: %+v", evs)
	}

	if got := store.Events(99); len(got) != 0 {
		t.Errorf("expected no events for unknown order, got %+v", got)
	}

	all := store.AllEvents()
	if len(all) != 3 || all[0].EventID != "a" || all[2].EventID != "c" {
		t.Fatalf("AllEvents out of order: %+v", all)
	}

	// returned slices are copies, mutating them must not affect the store
	all[0] = nil
	if store.AllEvents()[0] == nil {
		t.Error("AllEvents leaked internal slice")
	}
}
