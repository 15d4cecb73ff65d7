package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farm-order-service/internal/models"
	"farm-order-service/internal/store"
	"farm-order-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the persistence surface the order engine depends on.
// *store.Store satisfies it; tests use an in-memory fake.
type OrderStore interface {
	GetLandByID(ctx context.Context, id int64) (*models.Land, error)
	GetSeedByID(ctx context.Context, id int64) (*models.Seed, error)
	GetFertilizerByID(ctx context.Context, id int64) (*models.Fertilizer, error)
	CreateOrderTx(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error)
	ListOrdersByFarmer(ctx context.Context, farmerID int64, page, limit int) ([]models.Order, int, error)
	ListPendingOrders(ctx context.Context, page, limit int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error)
}

// OrderEventPublisher publishes order lifecycle events after commit.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// OrderService implements order creation, pricing and status
// transitions.
type OrderService struct {
	store     OrderStore
	publisher OrderEventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	LandID       int64  `json:"land_id" binding:"required"`
	SeedID       *int64 `json:"seed_id"`
	FertilizerID *int64 `json:"fertilizer_id"`
}

// productSelection is the explicit variant of the either/or/both rule
// over (SeedID, FertilizerID).
type productSelection int

const (
	selectSeedOnly productSelection = iota + 1
	selectFertilizerOnly
	selectBoth
)

// selection derives the product-selection variant once at the request
// boundary.
func (r *CreateOrderRequest) selection() (productSelection, error) {
	switch {
	case r.SeedID != nil && r.FertilizerID != nil:
		return selectBoth, nil
	case r.SeedID != nil:
		return selectSeedOnly, nil
	case r.FertilizerID != nil:
		return selectFertilizerOnly, nil
	default:
		return 0, ErrNoProductSelected
	}
}

// CreateOrder validates the request against the acting farmer, prices
// the selected products for the land's size and persists the order with
// its line items atomically. The order is created in PENDING.
//
// Validation is fail-fast: any failure aborts before the write, so a
// reported error never leaves partial rows behind.
func (s *OrderService) CreateOrder(ctx context.Context, farmerID int64, req *CreateOrderRequest) (*models.OrderWithItems, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	sel, err := req.selection()
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("no_product").Inc()
		return nil, err
	}

	land, err := s.store.GetLandByID(ctx, req.LandID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.OrdersFailedTotal.WithLabelValues("invalid_land").Inc()
			return nil, fmt.Errorf("invalid land selected: %w", ErrInvalidReference)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	if land.FarmerID != farmerID {
		util.OrdersFailedTotal.WithLabelValues("invalid_land").Inc()
		return nil, fmt.Errorf("invalid land selected: %w", ErrInvalidReference)
	}

	var seed *models.Seed
	if sel == selectSeedOnly || sel == selectBoth {
		seed, err = s.store.GetSeedByID(ctx, *req.SeedID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.OrdersFailedTotal.WithLabelValues("invalid_seed").Inc()
				return nil, fmt.Errorf("invalid seed selected: %w", ErrInvalidReference)
			}
			return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
		}
	}

	var fertilizer *models.Fertilizer
	if sel == selectFertilizerOnly || sel == selectBoth {
		fertilizer, err = s.store.GetFertilizerByID(ctx, *req.FertilizerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.OrdersFailedTotal.WithLabelValues("invalid_fertilizer").Inc()
				return nil, fmt.Errorf("invalid fertilizer selected: %w", ErrInvalidReference)
			}
			return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
		}
	}

	if sel == selectBoth && !fertilizer.CompatibleWith(seed.ID) {
		util.OrdersFailedTotal.WithLabelValues("incompatible").Inc()
		return nil, ErrIncompatibleProducts
	}

	// Quantities and prices are frozen here; later catalog changes do
	// not affect existing orders.
	var items []models.OrderItem
	var total float64

	if seed != nil {
		quantity := land.LandSize * seed.KgPerAcre
		items = append(items, models.OrderItem{
			SeedID:   &seed.ID,
			Quantity: quantity,
			Price:    seed.PricePerKg,
		})
		total += quantity * seed.PricePerKg
	}
	if fertilizer != nil {
		quantity := land.LandSize * fertilizer.KgPerAcre
		items = append(items, models.OrderItem{
			FertilizerID: &fertilizer.ID,
			Quantity:     quantity,
			Price:        fertilizer.PricePerKg,
		})
		total += quantity * fertilizer.PricePerKg
	}

	order := &models.Order{
		FarmerID:    farmerID,
		LandID:      land.ID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
	}

	if err := s.store.CreateOrderTx(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	util.OrdersPlacedTotal.Inc()
	util.OrderAmount.Observe(total)
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("farmer_id", farmerID),
		zap.Float64("total_amount", total))

	s.publishOrderPlaced(ctx, order, items)

	details := make([]models.OrderItemDetail, 0, len(items))
	for _, item := range items {
		detail := models.OrderItemDetail{OrderItem: item}
		if item.SeedID != nil {
			detail.Seed = seed
		}
		if item.FertilizerID != nil {
			detail.Fertilizer = fertilizer
		}
		details = append(details, detail)
	}

	return &models.OrderWithItems{Order: *order, Items: details}, nil
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order, items []models.OrderItem) {
	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			SeedID:       item.SeedID,
			FertilizerID: item.FertilizerID,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		FarmerID:    order.FarmerID,
		LandID:      order.LandID,
		TotalAmount: order.TotalAmount,
		Items:       eventItems,
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

// UpdateOrderStatus applies an administrative APPROVED/REJECTED
// transition. Re-transitioning an already-terminal order is allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	if !models.ValidTransitionStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no order with the provided ID was found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", status))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:  order.ID,
		FarmerID: order.FarmerID,
		Status:   order.Status,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return order, nil
}

// GetOrder retrieves one of the farmer's orders with its joined line
// items. Orders belonging to other farmers are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, farmerID, orderID int64) (*models.OrderWithItems, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no order with the provided ID was found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	if order.FarmerID != farmerID {
		return nil, fmt.Errorf("no order with the provided ID was found: %w", ErrNotFound)
	}

	items, err := s.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

// GetFarmerOrders retrieves a page of the farmer's orders with line
// items, newest first
func (s *OrderService) GetFarmerOrders(ctx context.Context, farmerID int64, page, limit int) ([]models.OrderWithItems, *models.Pagination, error) {
	orders, total, err := s.store.ListOrdersByFarmer(ctx, farmerID, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return s.withItems(ctx, orders, total, page, limit)
}

// GetPendingOrders retrieves a page of orders awaiting review
func (s *OrderService) GetPendingOrders(ctx context.Context, page, limit int) ([]models.OrderWithItems, *models.Pagination, error) {
	orders, total, err := s.store.ListPendingOrders(ctx, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return s.withItems(ctx, orders, total, page, limit)
}

func (s *OrderService) withItems(ctx context.Context, orders []models.Order, total, page, limit int) ([]models.OrderWithItems, *models.Pagination, error) {
	result := make([]models.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := s.store.GetOrderItems(ctx, order.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
		}
		result = append(result, models.OrderWithItems{Order: order, Items: items})
	}
	return result, NewPagination(page, limit, total), nil
}

// NewPagination builds the pagination block of a list response.
func NewPagination(page, limit, total int) *models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &models.Pagination{
		CurrentPage:  page,
		ItemsPerPage: limit,
		TotalPages:   totalPages,
		TotalItems:   total,
	}
}
