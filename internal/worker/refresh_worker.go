package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paulobarcelos/runway-compass-sub000/internal/amqp"
	"github.com/paulobarcelos/runway-compass-sub000/internal/services"
)

// RefreshWorker reacts to refresh requests from the queue by rebuilding the
// runway projection. Deciding when to request a refresh is the publisher's
// concern; the worker only executes.
type RefreshWorker struct {
	refresh *services.RefreshService
	client  *amqp.Client
}

func NewRefreshWorker(refresh *services.RefreshService, client *amqp.Client) *RefreshWorker {
	return &RefreshWorker{
		refresh: refresh,
		client:  client,
	}
}

// Run consumes refresh requests until ctx is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) error {
	return w.client.ConsumeRefreshRequests(ctx, func(msg *amqp.RefreshRequestMessage) error {
		return w.HandleRefreshRequest(ctx, msg)
	})
}

// HandleRefreshRequest processes a single refresh request message.
func (w *RefreshWorker) HandleRefreshRequest(ctx context.Context, msg *amqp.RefreshRequestMessage) error {
	slog.InfoContext(ctx, "Processing refresh request",
		"scope", msg.Scope,
		"reason", msg.Reason,
		"requested_at", msg.RequestedAt)

	result, err := w.refresh.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh projection: %w", err)
	}

	slog.InfoContext(ctx, "Refresh request completed",
		"scope", msg.Scope,
		"rows_written", result.RowsWritten,
		"updated_at", result.UpdatedAt)
	return nil
}
