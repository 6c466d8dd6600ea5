package orders

import (
	"context"
	"errors"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/logx"
)

// Processor applies order events to the store.
type Processor struct {
	orders  OrderWriter
	logger  logx.Logger
	factory *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(orders OrderWriter, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{orders: orders, logger: logger}
	p.factory = newActionFactory(p.onCreated, p.onUpdated, p.onDeleted)
	return p
}

// Handle processes a single orders.Event. Unknown types are skipped.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Type)
	if !ok {
		p.logger.Debug("order event skipped",
			logx.String("type", e.Type),
			logx.Int64("order_id", e.OrderID),
		)
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	o, err := e.toOrder()
	if err != nil {
		return err
	}
	_, err = p.orders.Create(ctx, o)
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

func (p *Processor) onUpdated(ctx context.Context, e Event) error {
	_, err := p.orders.Update(ctx, e.toPatch())
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

func (p *Processor) onDeleted(ctx context.Context, e Event) error {
	err := p.orders.Delete(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}
