package ledger

import (
	"context"
	"log/slog"
	"time"
)

const appendTimeout = 5 * time.Second

// Worker drains the publisher inbox into the ledger service. It runs for the
// life of the process; append failures are logged and the worker keeps going,
// because one bad event must not stall the stream behind it.
type Worker struct {
	service *Service
	inbox   <-chan NewEvent
	logger  *slog.Logger
}

func NewWorker(service *Service, inbox <-chan NewEvent, logger *slog.Logger) *Worker {
	return &Worker{service: service, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			// The originating request context is long gone; appends get their
			// own deadline.
			appendCtx, cancel := context.WithTimeout(context.Background(), appendTimeout)
			if _, err := w.service.Append(appendCtx, event); err != nil {
				w.logger.Error("background audit append failed",
					"event_type", event.Type,
					"election_id", event.ElectionID,
					"error", err,
				)
			}
			cancel()
		}
	}
}
