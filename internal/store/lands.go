package store

import (
	"context"
	"database/sql"
	"fmt"

	"farm-order-service/internal/models"
)

// GetLandByID retrieves a land parcel by ID
func (s *Store) GetLandByID(ctx context.Context, id int64) (*models.Land, error) {
	var land models.Land
	err := s.db.GetContext(ctx, &land, "SELECT * FROM lands WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("land %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &land, nil
}

// GetLandByUPI retrieves a land parcel by its unique parcel identifier
func (s *Store) GetLandByUPI(ctx context.Context, upi string) (*models.Land, error) {
	var land models.Land
	err := s.db.GetContext(ctx, &land, "SELECT * FROM lands WHERE upi = $1", upi)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("land %q: %w", upi, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &land, nil
}

// ListLandsByFarmer retrieves a page of a farmer's land parcels
func (s *Store) ListLandsByFarmer(ctx context.Context, farmerID int64, page, limit int) ([]models.Land, int, error) {
	var lands []models.Land
	err := s.db.SelectContext(ctx, &lands,
		"SELECT * FROM lands WHERE farmer_id = $1 ORDER BY id LIMIT $2 OFFSET $3",
		farmerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM lands WHERE farmer_id = $1", farmerID); err != nil {
		return nil, 0, err
	}
	return lands, total, nil
}

// CreateLand registers a new land parcel
func (s *Store) CreateLand(ctx context.Context, land *models.Land) error {
	query := `
		INSERT INTO lands (farmer_id, upi, land_size, location, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, land, query,
		land.FarmerID, land.UPI, land.LandSize, land.Location, land.Active)
}

// UpdateLand updates a land parcel's mutable fields
func (s *Store) UpdateLand(ctx context.Context, land *models.Land) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE lands SET upi = $1, land_size = $2, location = $3, active = $4 WHERE id = $5",
		land.UPI, land.LandSize, land.Location, land.Active, land.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("land %d: %w", land.ID, ErrNotFound)
	}
	return nil
}

// DeleteLand removes a land parcel
func (s *Store) DeleteLand(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lands WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("land %d: %w", id, ErrNotFound)
	}
	return nil
}
