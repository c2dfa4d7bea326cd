package eventbus

import (
	"sync"
	"testing"

	"github.com/sargamapp/sargam/internal/domain"
)

func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus(nil)

	if bus == nil {
		t.Fatal("NewSyncEventBus returned nil")
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer func() { _ = bus.Close() }()

	var received domain.Event
	var callCount int

	subID := bus.Subscribe(domain.EventSongStarted, func(event domain.Event) {
		received = event
		callCount++
	})
	if subID == "" {
		t.Fatal("Subscribe returned empty subscription ID")
	}

	song := domain.Song{ID: "test123", Name: "Test Song"}
	bus.Publish(domain.NewSongStartedEvent(song))

	if callCount != 1 {
		t.Errorf("Expected handler to be called once, got %d", callCount)
	}
	if received == nil {
		t.Fatal("Handler did not receive event")
	}
	if received.Type() != domain.EventSongStarted {
		t.Errorf("Expected event type %s, got %s", domain.EventSongStarted, received.Type())
	}
}

func TestSubscribeDoesNotReceiveOtherTypes(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer func() { _ = bus.Close() }()

	var callCount int
	bus.Subscribe(domain.EventSongPaused, func(domain.Event) { callCount++ })

	bus.Publish(domain.NewSongStartedEvent(domain.Song{ID: "x"}))

	if callCount != 0 {
		t.Errorf("Handler for another event type was called %d times", callCount)
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer func() { _ = bus.Close() }()

	var types []domain.EventType
	bus.SubscribeAll(func(event domain.Event) {
		types = append(types, event.Type())
	})

	bus.Publish(domain.NewSongStartedEvent(domain.Song{ID: "a"}))
	bus.Publish(domain.NewPlaybackStoppedEvent())

	if len(types) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(types))
	}
	if types[0] != domain.EventSongStarted || types[1] != domain.EventPlaybackStopped {
		t.Errorf("Unexpected event order: %v", types)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer func() { _ = bus.Close() }()

	var callCount int
	subID := bus.Subscribe(domain.EventSongStarted, func(domain.Event) { callCount++ })

	bus.Unsubscribe(subID)
	bus.Publish(domain.NewSongStartedEvent(domain.Song{ID: "x"}))

	if callCount != 0 {
		t.Errorf("Handler called %d times after unsubscribe", callCount)
	}

	// Unknown IDs are a no-op.
	bus.Unsubscribe("sub-does-not-exist")
}

func TestHandlerPanicDoesNotStopDelivery(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer func() { _ = bus.Close() }()

	var secondCalled bool
	bus.Subscribe(domain.EventSongStarted, func(domain.Event) {
		panic("handler exploded")
	})
	bus.Subscribe(domain.EventSongStarted, func(domain.Event) {
		secondCalled = true
	})

	bus.Publish(domain.NewSongStartedEvent(domain.Song{ID: "x"}))

	if !secondCalled {
		t.Error("Second handler was not called after first panicked")
	}
}

func TestClose(t *testing.T) {
	bus := NewSyncEventBus(nil)

	var callCount int
	bus.Subscribe(domain.EventSongStarted, func(domain.Event) { callCount++ })

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := bus.Close(); err == nil {
		t.Error("Second Close should return an error")
	}

	bus.Publish(domain.NewSongStartedEvent(domain.Song{ID: "x"}))
	if callCount != 0 {
		t.Errorf("Handler called %d times after Close", callCount)
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after Close, got %d", bus.SubscriberCount())
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer func() { _ = bus.Close() }()

	var mu sync.Mutex
	var callCount int
	bus.Subscribe(domain.EventPlaybackProgress, func(domain.Event) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})

	const goroutines = 10
	const perGoroutine = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				bus.Publish(domain.NewPlaybackProgressEvent(0, 0, true))
			}
		}()
	}
	wg.Wait()

	if callCount != goroutines*perGoroutine {
		t.Errorf("Expected %d calls, got %d", goroutines*perGoroutine, callCount)
	}
}
