// ABOUTME: Tests for the typed event bus
// ABOUTME: Covers ordering, filters, unsubscribe, panic isolation and concurrent access

package eventbus

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := New[string]()
	var received string

	bus.Subscribe(func(s string) {
		received = s
	})

	if n := bus.Publish("merhaba"); n != 1 {
		t.Errorf("Publish delivered to %d handlers, want 1", n)
	}
	if received != "merhaba" {
		t.Errorf("received = %q, want %q", received, "merhaba")
	}
}

func TestBus_DeliveryOrder(t *testing.T) {
	t.Parallel()

	bus := New[int]()
	var got []string
	bus.Subscribe(func(int) { got = append(got, "first") })
	bus.Subscribe(func(int) { got = append(got, "second") })
	bus.Subscribe(func(int) { got = append(got, "third") })

	bus.Publish(1)

	if diff := cmp.Diff([]string{"first", "second", "third"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_SubscribeWhere(t *testing.T) {
	t.Parallel()

	bus := New[int]()
	var evens []int
	bus.SubscribeWhere(func(n int) bool { return n%2 == 0 }, func(n int) {
		evens = append(evens, n)
	})

	for i := range 5 {
		bus.Publish(i)
	}

	if diff := cmp.Diff([]int{0, 2, 4}, evens); diff != "" {
		t.Errorf("filtered events mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	bus := New[string]()
	called := false

	unsub := bus.Subscribe(func(_ string) {
		called = true
	})

	unsub()
	unsub()
	bus.Publish("test")

	if called {
		t.Error("handler should not be called after unsubscribe")
	}
	if bus.Count() != 0 {
		t.Errorf("Count() = %d, want 0", bus.Count())
	}
}

func TestBus_PanicIsolated(t *testing.T) {
	t.Parallel()

	bus := New[int]()
	reached := false
	bus.Subscribe(func(int) { panic("boom") })
	bus.Subscribe(func(int) { reached = true })

	if n := bus.Publish(1); n != 1 {
		t.Errorf("Publish delivered = %d, want 1", n)
	}
	if !reached {
		t.Error("handler after a panicking one was not called")
	}
}

func TestBus_Count(t *testing.T) {
	t.Parallel()

	bus := New[int]()

	unsub1 := bus.Subscribe(func(_ int) {})
	bus.Subscribe(func(_ int) {})

	if bus.Count() != 2 {
		t.Errorf("Count() = %d, want 2", bus.Count())
	}

	unsub1()
	if bus.Count() != 1 {
		t.Errorf("Count() = %d, want 1", bus.Count())
	}
}

func TestBus_Concurrent(t *testing.T) {
	t.Parallel()

	bus := New[int]()
	var mu sync.Mutex
	sum := 0
	bus.Subscribe(func(n int) {
		mu.Lock()
		sum += n
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(func(int) {})
			bus.Publish(1)
			unsub()
		}()
	}
	wg.Wait()

	if sum != 50 {
		t.Errorf("sum = %d, want 50", sum)
	}
}
