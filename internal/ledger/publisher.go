package ledger

import (
	"context"
	"log/slog"
)

// Publisher is the fire-and-forget entry point domain services use for
// security events. Emit never blocks the request path: when the inbox is
// full the event is dropped and logged, never the other way around.
type Publisher struct {
	inbox  chan NewEvent
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Publisher{
		inbox:  make(chan NewEvent, buffer),
		logger: logger,
	}
}

// Emit enqueues an event for background appending.
func (p *Publisher) Emit(ctx context.Context, event NewEvent) {
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"event_type", event.Type,
			"election_id", event.ElectionID,
		)
	}
}

// Inbox hands the receive side to the worker.
func (p *Publisher) Inbox() <-chan NewEvent {
	return p.inbox
}
