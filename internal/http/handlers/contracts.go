package handlers

import (
	"context"

	"order-consolidation/internal/domain"
	"order-consolidation/internal/service/consolidation"
	"order-consolidation/internal/service/orders"
)

type orderUsecase interface {
	Create(ctx context.Context, o *domain.Order) (domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, p domain.OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	Search(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	Paginate(ctx context.Context, f domain.OrderFilter, page, perPage int) (domain.OrderPage, error)
}

// NewOrderUsecase wires an orders.Service into an orderUsecase.
func NewOrderUsecase(svc *orders.Service) orderUsecase {
	return svc
}

type matchUsecase interface {
	Match(ctx context.Context) (domain.ConsolidationResult, error)
}

// NewMatchUsecase wires a consolidation.Service into a matchUsecase.
func NewMatchUsecase(svc *consolidation.Service) matchUsecase {
	return svc
}
