package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan StateChangedEvent, 1)

	unsub := bus.Subscribe(func(e StateChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := StateChangedEvent{
		From:      "idle",
		To:        "amplify",
		Reason:    "buttons",
		Timestamp: "2025-01-27T10:30:00Z",
	}
	bus.Publish(ev)

	got := <-received
	if got != ev {
		t.Errorf("received %+v, want %+v", got, ev)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan SequenceMatchedEvent, 1)
	received2 := make(chan SequenceMatchedEvent, 1)

	unsub1 := bus.Subscribe(func(e SequenceMatchedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e SequenceMatchedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(SequenceMatchedEvent{Rule: "test-mode", Target: "test"})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan ButtonPressedEvent, 1)

	unsub := bus.Subscribe(func(e ButtonPressedEvent) {
		received <- e
	})

	bus.Publish(ButtonPressedEvent{Button: 1})
	<-received

	unsub()

	bus.Publish(ButtonPressedEvent{Button: 2})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	stateReceived := make(chan bool, 1)
	buttonReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ StateChangedEvent) {
		stateReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ ButtonPressedEvent) {
		buttonReceived <- true
	})
	defer unsub2()

	bus.Publish(StateChangedEvent{To: "test"})
	<-stateReceived

	select {
	case <-buttonReceived:
		t.Fatal("Button subscriber should NOT have received StateChangedEvent")
	case <-time.After(10 * time.Millisecond):
		// Expected
	}

	bus.Publish(ButtonPressedEvent{Button: 4})
	<-buttonReceived

	select {
	case <-stateReceived:
		t.Fatal("State subscriber should NOT have received ButtonPressedEvent")
	case <-time.After(10 * time.Millisecond):
		// Expected
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(_ ButtonPressedEvent) {
		receivedCh <- true
	})
	defer unsub()

	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(ButtonPressedEvent{Button: id})
			}
		}(i)
	}

	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestBus_UnknownHandler(_ *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(_ string) {})
	unsub()
}

func TestEventJSONSerialization(t *testing.T) {
	data, err := json.Marshal(StateChangedEvent{From: "idle", To: "party", Reason: "buttons"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"from", "to", "reason", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing JSON field %q", key)
		}
	}
}

func TestStateChangedEvent_Interface(t *testing.T) {
	ev := StateChangedEvent{From: "idle", To: "test"}
	if ev.GetState() != "test" {
		t.Errorf("GetState() = %q, want test", ev.GetState())
	}
	if ev.Type() != TypeStateChanged {
		t.Errorf("Type() = %d, want %d", ev.Type(), TypeStateChanged)
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 10)

	unsub := SubscribeToChannel[StateChangedEvent](bus, ch)
	defer unsub()

	bus.Publish(StateChangedEvent{From: "idle", To: "amplify"})

	received := <-ch
	ev, ok := received.(StateChangedEvent)
	if !ok {
		t.Fatalf("Expected StateChangedEvent, got %T", received)
	}
	if ev.To != "amplify" {
		t.Errorf("To = %s, want amplify", ev.To)
	}
}

func TestSubscribeToChannel_NonBlocking(_ *testing.T) {
	bus := New()
	ch := make(chan any) // No buffer

	unsub := SubscribeToChannel[StateChangedEvent](bus, ch)
	defer unsub()

	done := make(chan bool, 1)
	go func() {
		bus.Publish(StateChangedEvent{To: "idle"})
		done <- true
	}()

	<-done // Should complete without blocking
}

func TestBus_ButtonsChanged(t *testing.T) {
	bus := New()
	received := make(chan ButtonsChangedEvent, 1)
	unsub := bus.Subscribe(func(e ButtonsChangedEvent) { received <- e })
	defer unsub()

	bus.Publish(ButtonsChangedEvent{Pressed: []int{0, 3}, Total: 10})

	select {
	case e := <-received:
		if len(e.Pressed) != 2 || e.Total != 10 {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("ButtonsChangedEvent not delivered")
	}
}
