package realtime

import (
	"testing"
	"time"

	"github.com/gin-contrib/sse"
)

func recvEvent(t *testing.T, ch chan sse.Event) sse.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
		return sse.Event{}
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	if h.Subscribers() != 2 {
		t.Fatalf("subscribers=%d", h.Subscribers())
	}

	h.Broadcast("new_order", map[string]any{"order_id": "o1"})

	if ev := recvEvent(t, a); ev.Event != "new_order" {
		t.Errorf("event=%q", ev.Event)
	}
	if ev := recvEvent(t, b); ev.Event != "new_order" {
		t.Errorf("event=%q", ev.Event)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Fatal("channel still open after unsubscribe")
	}
	if h.Subscribers() != 0 {
		t.Errorf("subscribers=%d", h.Subscribers())
	}
	// double unsubscribe must not panic
	h.Unsubscribe(ch)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	_ = h.Subscribe() // never read

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Broadcast("new_order", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}
