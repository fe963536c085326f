package events

import (
	"reflect"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func() { got = append(got, "a") })
	bus.Subscribe(func() { got = append(got, "b") })
	bus.Subscribe(func() { got = append(got, "c") })

	bus.Publish()
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("delivery order = %v, want %v", got, want)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func() { got = append(got, "a") })
	b := bus.Subscribe(func() { got = append(got, "b") })
	bus.Subscribe(func() { got = append(got, "c") })

	bus.Unsubscribe(b)
	bus.Unsubscribe(b)
	bus.Unsubscribe(Token(999))
	bus.Publish()

	if want := []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("delivery = %v, want %v", got, want)
	}
	if bus.Len() != 2 {
		t.Errorf("Len() = %d, want 2", bus.Len())
	}
}

func TestNoReplay(t *testing.T) {
	bus := NewBus()
	bus.Publish()

	calls := 0
	bus.Subscribe(func() { calls++ })
	if calls != 0 {
		t.Fatalf("late subscriber saw %d earlier events", calls)
	}
	bus.Publish()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	late := 0
	var tok Token
	tok = bus.Subscribe(func() {
		bus.Subscribe(func() { late++ })
		bus.Unsubscribe(tok)
	})

	bus.Publish()
	if late != 0 {
		t.Errorf("handler added mid-publish ran %d times in the same pass", late)
	}
	bus.Publish()
	if late != 1 {
		t.Errorf("late handler ran %d times, want 1", late)
	}
}

func TestBusesAreIndependent(t *testing.T) {
	a, b := NewBus(), NewBus()
	calls := 0
	a.Subscribe(func() { calls++ })
	b.Publish()
	if calls != 0 {
		t.Error("publishing on one bus reached another")
	}
}
