package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(zerolog.Nop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan TaskUpserted, 8)
	go bus.Run(ctx, func(_ context.Context, event TaskUpserted) {
		received <- event
	})

	for i := int64(1); i <= 3; i++ {
		bus.Publish(TaskUpserted{
			Task:   models.Task{ID: i},
			Action: ActionCreated,
		})
	}

	for want := int64(1); want <= 3; want++ {
		select {
		case event := <-received:
			if event.Task.ID != want {
				t.Errorf("got task %d, want %d", event.Task.ID, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", want)
		}
	}
}

func TestBusPublishNeverBlocks(t *testing.T) {
	// No consumer attached, buffer of one: the second publish must
	// drop instead of hanging.
	bus := NewBus(zerolog.Nop(), 1)

	done := make(chan struct{})
	go func() {
		bus.Publish(TaskUpserted{Task: models.Task{ID: 1}})
		bus.Publish(TaskUpserted{Task: models.Task{ID: 2}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}

func TestBusRunStopsOnCancel(t *testing.T) {
	bus := NewBus(zerolog.Nop(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		bus.Run(ctx, func(context.Context, TaskUpserted) {})
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop on context cancel")
	}
}
