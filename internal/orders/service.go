package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tienditahq/tiendita-backend/internal/cart"
	"github.com/tienditahq/tiendita-backend/pkg/db/models"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
	"github.com/tienditahq/tiendita-backend/pkg/logger"
	"github.com/tienditahq/tiendita-backend/pkg/metrics"
)

// Service exposes checkout and order tracking to the API layer.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderDTO, error)
	GetByID(ctx context.Context, userID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]OrderDTO, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
}

type orderRepository interface {
	CreateInTx(tx *gorm.DB, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	Load(ctx context.Context, owner string) []cart.Line
	Clear(ctx context.Context, owner string) error
}

type service struct {
	repo    orderRepository
	tx      txRunner
	carts   cartStore
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	OrderRepo   orderRepository
	TxRunner    txRunner
	CartStore   cartStore
	Logger      *logger.Logger
	CartMetrics *metrics.CartMetrics
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.CartStore == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:    params.OrderRepo,
		tx:      params.TxRunner,
		carts:   params.CartStore,
		logg:    params.Logger,
		metrics: params.CartMetrics,
	}, nil
}

// Checkout snapshots the user's cart into an order, persists it
// atomically, and clears the cart. A failed cart clear does not undo
// the order; the blob simply outlives it until the next clear.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderDTO, error) {
	start := time.Now()
	owner := userID.String()

	lines := s.carts.Load(ctx, owner)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order, err := buildOrder(userID, lines, req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateInTx(tx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "order_id", order.ID.String()), "cart clear after checkout failed", err)
	}

	s.metrics.ObserveCheckout(time.Since(start))
	out := FromModel(order)
	return &out, nil
}

func (s *service) GetByID(ctx context.Context, userID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	out := FromModel(order)
	return &out, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	rows, err := s.repo.ListBySupplier(ctx, supplierID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateStatus moves the order along its lifecycle. Suppliers may only
// touch orders placed against them; admins may touch any order.
func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != enums.RoleAdmin {
		if order.SupplierID == nil || *order.SupplierID != actorID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another supplier")
		}
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
	}

	order.Status = target
	out := FromModel(order)
	return &out, nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// buildOrder freezes cart lines into an order snapshot. Line totals are
// computed with decimal arithmetic and only converted back to integer
// cents at the end.
func buildOrder(userID uuid.UUID, lines []cart.Line, shippingAddress *string) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart line %q has a malformed product id", line.ProductID))
		}

		lineTotal := decimal.NewFromInt(int64(line.PriceCents)).
			Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.OrderItem{
			ProductID:  productID,
			Name:       line.Name,
			PriceCents: line.PriceCents,
			Quantity:   line.Quantity,
			Color:      optional(line.Color),
			Size:       optional(line.Size),
			Quality:    optional(line.Quality),
			ImageURL:   optional(line.Image),
		})
	}

	var supplierID *uuid.UUID
	if raw := cart.SupplierOf(lines); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err == nil {
			supplierID = &parsed
		}
	}

	subtotalCents := int(subtotal.IntPart())
	return &models.Order{
		UserID:          userID,
		SupplierID:      supplierID,
		Status:          enums.OrderStatusPending,
		SubtotalCents:   subtotalCents,
		TotalCents:      subtotalCents,
		ShippingAddress: shippingAddress,
		Items:           items,
	}, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
