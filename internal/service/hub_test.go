package service

import (
	"testing"

	"task_tracker/internal/models"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	e := models.TaskEvent{EventID: "ev-1", Type: models.EventCreated, TaskID: 5, OwnerID: 1}
	hub.Publish(e)

	for i, ch := range []<-chan models.TaskEvent{ch1, ch2} {
		select {
		case got := <-ch:
			if got.EventID != "ev-1" {
				t.Fatalf("subscriber %d: unexpected event %+v", i, got)
			}
		default:
			t.Fatalf("subscriber %d: no event buffered", i)
		}
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // idempotent

	// Publish after cancel must not panic on the closed channel.
	hub.Publish(models.TaskEvent{EventID: "ev-2"})

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Overflow the buffer; Publish must never block.
	for i := 0; i < hubBufferSize*2; i++ {
		hub.Publish(models.TaskEvent{EventID: "ev"})
	}
}
