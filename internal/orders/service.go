package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parkmarket/marketplace-backend/internal/cart"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/events"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/metrics"
	"github.com/parkmarket/marketplace-backend/pkg/pagination"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"gorm.io/gorm"
)

const eventProducer = "marketplace-api"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts carts into orders and drives the order lifecycle.
type Service interface {
	Create(ctx context.Context, storeID, customerID uint, req CreateOrderRequest) (*Detail, error)
	Get(ctx context.Context, code string) (*Detail, error)
	Pay(ctx context.Context, code string) (*Detail, error)
	UpdateStatus(ctx context.Context, storeID uint, code, status string) (*Detail, error)
	ListForStore(ctx context.Context, storeID uint, page pagination.Params) (*SellerOrderList, error)
	DashboardStats(ctx context.Context, storeID uint) (*DashboardStats, error)
}

// ServiceParams wires the order service.
type ServiceParams struct {
	Repo      *Repository
	Tx        txRunner
	Publisher events.Publisher
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
	NewCode   func() string
	Now       func() time.Time
}

type service struct {
	repo      *Repository
	tx        txRunner
	publisher events.Publisher
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	newCode   func() string
	now       func() time.Time
}

// NewService validates params and returns the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	newCode := params.NewCode
	if newCode == nil {
		newCode = security.NewOrderCode
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		publisher: publisher,
		metrics:   params.Metrics,
		logg:      params.Logger,
		newCode:   newCode,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, storeID, customerID uint, req CreateOrderRequest) (*Detail, error) {
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := cart.NewRepository(tx)
		orders := NewRepository(tx)

		active, err := carts.FindActive(ctx, storeID, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Cart empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		lines, err := carts.Items(ctx, active.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart items")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart empty")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.Product == nil || line.Product.StoreID != storeID || line.Product.Status != enums.ProductStatusActive {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Product %s not found", productName(line.Product, line.ProductID)))
			}
			items = append(items, models.OrderItem{
				ProductID:  line.ProductID,
				Amount:     line.Amount,
				Price:      line.Price,
				Attributes: line.Attributes.Clone(),
			})
		}

		order := &models.Order{
			StoreID:          storeID,
			CustomerID:       customerID,
			Code:             s.newCode(),
			Status:           enums.OrderStatusCreated,
			CustomerName:     req.CustomerName,
			CustomerEmail:    req.CustomerEmail,
			CustomerDocument: req.CustomerDocument,
			CustomerPhone:    req.CustomerPhone,
			AddressStreet:    req.AddressStreet,
			AddressNumber:    req.AddressNumber,
			AddressCity:      req.AddressCity,
			AddressState:     req.AddressState,
			AddressZip:       req.AddressZip,
		}
		if err := orders.Create(ctx, order, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		if err := carts.MarkAbandoned(ctx, active.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close cart")
		}

		created, err = orders.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCreated()
	s.publish(ctx, events.EventOrderCreated, created, "")
	return DetailFromModel(created), nil
}

func (s *service) Get(ctx context.Context, code string) (*Detail, error) {
	order, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	return DetailFromModel(order), nil
}

func (s *service) Pay(ctx context.Context, code string) (*Detail, error) {
	order, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case enums.OrderStatusCancelled:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Order is cancelled")
	case enums.OrderStatusPaid, enums.OrderStatusDelivered:
		return DetailFromModel(order), nil
	}

	previous := order.Status
	updated, err := s.repo.UpdateStatus(ctx, order.ID, previous, enums.OrderStatusPaid)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
	}
	if !updated {
		// lost a race with another status change; report the current state
		return s.Pay(ctx, code)
	}
	order.Status = enums.OrderStatusPaid

	s.metrics.IncTransition(enums.OrderStatusPaid.String())
	s.publish(ctx, events.EventOrderPaid, order, previous)
	return DetailFromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, storeID uint, code, raw string) (*Detail, error) {
	next, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid order status").
			WithDetails(map[string]any{"status": raw})
	}

	order, err := s.repo.FindByCodeForStore(ctx, storeID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.Status == next {
		return DetailFromModel(order), nil
	}
	if !order.Status.CanTransition(next) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, next))
	}

	previous := order.Status
	updated, err := s.repo.UpdateStatus(ctx, order.ID, previous, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Order status changed concurrently")
	}
	order.Status = next

	s.metrics.IncTransition(next.String())
	s.publish(ctx, events.EventOrderStatusChanged, order, previous)
	return DetailFromModel(order), nil
}

func (s *service) ListForStore(ctx context.Context, storeID uint, page pagination.Params) (*SellerOrderList, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.ListByStore(ctx, storeID, cursor, pagination.LimitWithBuffer(page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	out := &SellerOrderList{Orders: make([]SellerOrderSummary, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		out.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		out.Orders = append(out.Orders, SummaryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) DashboardStats(ctx context.Context, storeID uint) (*DashboardStats, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	month, err := s.repo.PaidSince(ctx, storeID, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load paid orders")
	}
	customers, err := s.repo.CountPaidCustomers(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customers")
	}

	stats := &DashboardStats{UniqueCustomers: customers}
	for i := range month {
		total := month[i].TotalPrice()
		stats.TotalMonth += total
		if !month[i].CreatedAt.Before(dayStart) {
			stats.TotalToday += total
		}
	}
	return stats, nil
}

func (s *service) load(ctx context.Context, code string) (*models.Order, error) {
	order, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

// publish is best effort. The order is already committed.
func (s *service) publish(ctx context.Context, eventType string, order *models.Order, previous enums.OrderStatus) {
	payload := events.OrderPayload{
		OrderID:        order.ID,
		Code:           order.Code,
		StoreID:        order.StoreID,
		CustomerID:     order.CustomerID,
		Status:         order.Status.String(),
		PreviousStatus: previous.String(),
		TotalPrice:     order.TotalPrice(),
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, events.OrderItemPayload{
			ProductID: item.ProductID,
			Amount:    item.Amount,
			Price:     item.Price,
		})
	}
	env, err := events.NewEnvelope(eventType, eventProducer, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, order.Code, env)
	}
	if err != nil && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"event_type": eventType, "order_code": order.Code})
		s.logg.Error(ctx, "publish order event", err)
	}
}
