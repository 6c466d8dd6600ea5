package app

import (
	"context"
	"errors"
	"time"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/service/orders"
	"order-consolidation/internal/transport/kafka"
)

const orderEventTimeout = 5 * time.Second

type eventHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka bounds each event by timeout before it reaches the processor.
// Events the processor rejects as invalid are marked permanent so the
// consumer skips them instead of redelivering.
func makeOrdersKafka(h eventHandler, timeout time.Duration) kafka.HandleFunc {
	if timeout <= 0 {
		timeout = orderEventTimeout
	}
	return func(ctx context.Context, event orders.Event) error {
		hCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := h.Handle(hCtx, event)
		if errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}
