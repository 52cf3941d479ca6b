// Package events carries domain events between services so that task
// mutations stay decoupled from notification side effects.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// TaskUpserted is published after a task create or update commits.
// PreviousStatus is empty for freshly created tasks.
type TaskUpserted struct {
	Task           models.Task
	Action         string
	PreviousStatus string
}

type Bus struct {
	logger zerolog.Logger
	ch     chan TaskUpserted
}

func NewBus(logger zerolog.Logger, buffer int) *Bus {
	if buffer < 1 {
		buffer = 64
	}
	return &Bus{
		logger: logger,
		ch:     make(chan TaskUpserted, buffer),
	}
}

// Publish never blocks the caller. If the buffer is full the event
// is dropped and logged; reminders are best-effort.
func (b *Bus) Publish(event TaskUpserted) {
	select {
	case b.ch <- event:
	default:
		b.logger.Warn().
			Int64("task_id", event.Task.ID).
			Msg("event buffer full, dropped task event")
	}
}

// Run consumes events with handler until ctx is cancelled.
func (b *Bus) Run(ctx context.Context, handler func(context.Context, TaskUpserted)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.ch:
			handler(ctx, event)
		}
	}
}
