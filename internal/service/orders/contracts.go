//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"order-consolidation/internal/domain"
)

// Repository defines storage operations required by the business layer.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) (domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, p domain.OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	ListPaginated(ctx context.Context, f domain.OrderFilter, page, pageSize int) (domain.OrderPage, error)
}

// OrderWriter is the subset of Service used by the event Processor.
type OrderWriter interface {
	Create(ctx context.Context, o *domain.Order) (domain.Order, error)
	Update(ctx context.Context, p domain.OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}
