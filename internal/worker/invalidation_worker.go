package worker

import (
	"context"
	"fmt"

	"bdactivity/internal/amqp"
	"bdactivity/internal/core"
	"bdactivity/internal/log"
)

// Dashboard is the part of the dashboard service the worker drives.
type Dashboard interface {
	Invalidate(ctx context.Context, all bool, trigger string) (int, error)
	Columns(ctx context.Context) ([]core.Column, error)
}

// InvalidationWorker drops the memoized dataset when an invalidation
// message arrives and reloads it so the next request is served warm.
type InvalidationWorker struct {
	svc    Dashboard
	logger *log.Logger
}

func NewInvalidationWorker(svc Dashboard, logger *log.Logger) *InvalidationWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &InvalidationWorker{svc: svc, logger: logger.WithComponent(log.ComponentAMQP)}
}

// HandleInvalidateMessage processes a single invalidation message from AMQP.
// A failed reload is logged and the message is still acked.
func (w *InvalidationWorker) HandleInvalidateMessage(ctx context.Context, msg *amqp.DatasetInvalidateMessage) error {
	w.logger.InfoContext(ctx, "Processing invalidation message",
		"message_id", msg.ID,
		log.FieldSource, msg.Source,
		"reason", msg.Reason,
		"all", msg.All)

	dropped, err := w.svc.Invalidate(ctx, msg.All, "amqp")
	if err != nil {
		return fmt.Errorf("invalidate dataset: %w", err)
	}

	if err := w.WarmUp(ctx); err != nil {
		w.logger.WarnContext(ctx, "Reload after invalidation failed",
			"message_id", msg.ID,
			log.FieldError, err.Error())
		return nil
	}

	w.logger.InfoContext(ctx, "Dataset invalidated",
		log.FieldOperation, log.OpInvalidate,
		"message_id", msg.ID,
		"dropped", dropped)
	return nil
}

// WarmUp loads the current dataset into the memo.
func (w *InvalidationWorker) WarmUp(ctx context.Context) error {
	cols, err := w.svc.Columns(ctx)
	if err != nil {
		return err
	}
	w.logger.DebugContext(ctx, "Dataset warmed", log.FieldColumns, len(cols))
	return nil
}
