package store

import (
	"context"
	"database/sql"
	"fmt"

	"farm-order-service/internal/models"
)

// CreateOrderTx inserts an order and its line items in one transaction.
// Either the order row and every item row commit together, or nothing
// is written.
func (s *Store) CreateOrderTx(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (farmer_id, land_id, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	if err := tx.GetContext(ctx, order, query,
		order.FarmerID, order.LandID, order.Status, order.TotalAmount); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, seed_id, fertilizer_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.GetContext(ctx, &items[i].ID, itemQuery,
			items[i].OrderID, items[i].SeedID, items[i].FertilizerID,
			items[i].Quantity, items[i].Price); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves the line items of an order joined with their
// seed/fertilizer snapshots
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}

	details := make([]models.OrderItemDetail, 0, len(items))
	for _, item := range items {
		detail := models.OrderItemDetail{OrderItem: item}
		if item.SeedID != nil {
			seed, err := s.GetSeedByID(ctx, *item.SeedID)
			if err != nil {
				return nil, err
			}
			detail.Seed = seed
		}
		if item.FertilizerID != nil {
			fert, err := s.GetFertilizerByID(ctx, *item.FertilizerID)
			if err != nil {
				return nil, err
			}
			detail.Fertilizer = fert
		}
		details = append(details, detail)
	}
	return details, nil
}

// ListOrdersByFarmer retrieves a page of a farmer's orders, newest first
func (s *Store) ListOrdersByFarmer(ctx context.Context, farmerID int64, page, limit int) ([]models.Order, int, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE farmer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		farmerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM orders WHERE farmer_id = $1", farmerID); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListPendingOrders retrieves a page of orders awaiting administrative
// review, newest first
func (s *Store) ListPendingOrders(ctx context.Context, page, limit int) ([]models.Order, int, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		models.OrderStatusPending, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM orders WHERE status = $1", models.OrderStatusPending); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateOrderStatus updates the status field only and returns the
// updated order. Line items and total_amount are immutable after
// creation.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING *",
		status, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
