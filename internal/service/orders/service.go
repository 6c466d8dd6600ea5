package orders

import (
	"context"
	"strings"
	"time"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/domain"
)

// Paging defaults.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Service coordinates order business logic and orchestrates repository calls.
type Service struct {
	repo             Repository
	operationTimeout time.Duration
}

// NewService creates and configures an order Service.
func NewService(r Repository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateCreate(o *domain.Order) error {
	if o == nil {
		return apperr.ErrInvalid
	}
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return apperr.ErrInvalid
	}
	if !o.Sender.Point.Valid() || !o.Recipient.Point.Valid() {
		return apperr.ErrInvalid
	}
	return nil
}

func validateUpdate(p *domain.OrderPatch) error {
	if p.ID <= 0 || p.Empty() {
		return apperr.ErrInvalid
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperr.ErrInvalid
	}
	for _, lat := range []*float64{p.SenderLat, p.RecipientLat} {
		if lat != nil && !(domain.Coordinate{Lat: *lat}).Valid() {
			return apperr.ErrInvalid
		}
	}
	for _, lng := range []*float64{p.SenderLng, p.RecipientLng} {
		if lng != nil && !(domain.Coordinate{Lng: *lng}).Valid() {
			return apperr.ErrInvalid
		}
	}
	return nil
}

// Create validates and stores a new order.
func (s *Service) Create(ctx context.Context, o *domain.Order) (domain.Order, error) {
	if err := validateCreate(o); err != nil {
		return domain.Order{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, o)
}

// Get retrieves an order by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	return o, nil
}

// Update applies a partial update and returns the stored order.
func (s *Service) Update(ctx context.Context, p domain.OrderPatch) (*domain.Order, error) {
	if err := validateUpdate(&p); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	o, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	return o, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// List returns every order matching the filter. It is also the
// consolidation snapshot source.
func (s *Service) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, f)
}

// Search lists orders by location and recipient substrings.
func (s *Service) Search(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	f.Location = strings.TrimSpace(f.Location)
	f.Recipient = strings.TrimSpace(f.Recipient)
	return s.List(ctx, f)
}

// Paginate returns one page of matching orders. Zero page or perPage take defaults.
func (s *Service) Paginate(ctx context.Context, f domain.OrderFilter, page, perPage int) (domain.OrderPage, error) {
	if page < 0 || perPage < 0 {
		return domain.OrderPage{}, apperr.ErrInvalid
	}
	if page == 0 {
		page = DefaultPage
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListPaginated(ctx, f, page, perPage)
}
