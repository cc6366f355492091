package events

import "testing"

func TestNilBusPublishIsNoop(t *testing.T) {
	var b *Bus
	b.Publish(Event{Kind: Inserted})
}

func TestSubscribeReceives(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{Kind: Split, NodeID: 1, ParentID: 2})

	select {
	case e := <-ch:
		if e.Kind != Split || e.NodeID != 1 || e.ParentID != 2 {
			t.Fatalf("unexpected event: %+v", e)
		}
	default:
		t.Fatalf("expected a buffered event to be ready")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	cancel()

	b.Publish(Event{Kind: Inserted})

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestKindString(t *testing.T) {
	if Split.String() != "split" {
		t.Fatalf("Split.String() = %q", Split.String())
	}
	if Kind(999).String() != "unknown" {
		t.Fatalf("unknown kind should stringify to 'unknown'")
	}
}
