package store

import (
	"context"
	"database/sql"
	"fmt"

	"farm-order-service/internal/models"
)

// GetSeedByID retrieves a seed by ID
func (s *Store) GetSeedByID(ctx context.Context, id int64) (*models.Seed, error) {
	var seed models.Seed
	err := s.db.GetContext(ctx, &seed, "SELECT * FROM seeds WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("seed %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &seed, nil
}

// GetSeedByName retrieves a seed by its unique name
func (s *Store) GetSeedByName(ctx context.Context, name string) (*models.Seed, error) {
	var seed models.Seed
	err := s.db.GetContext(ctx, &seed, "SELECT * FROM seeds WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("seed %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &seed, nil
}

// ListSeeds retrieves a page of seeds ordered by name
func (s *Store) ListSeeds(ctx context.Context, page, limit int) ([]models.Seed, int, error) {
	var seeds []models.Seed
	err := s.db.SelectContext(ctx, &seeds,
		"SELECT * FROM seeds ORDER BY name LIMIT $1 OFFSET $2", limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM seeds"); err != nil {
		return nil, 0, err
	}
	return seeds, total, nil
}

// CreateSeed inserts a new seed
func (s *Store) CreateSeed(ctx context.Context, seed *models.Seed) error {
	query := `
		INSERT INTO seeds (name, description, price_per_kg, kg_per_acre)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, seed, query,
		seed.Name, seed.Description, seed.PricePerKg, seed.KgPerAcre)
}

// UpdateSeed updates a seed's fields
func (s *Store) UpdateSeed(ctx context.Context, seed *models.Seed) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE seeds SET name = $1, description = $2, price_per_kg = $3, kg_per_acre = $4 WHERE id = $5",
		seed.Name, seed.Description, seed.PricePerKg, seed.KgPerAcre, seed.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("seed %d: %w", seed.ID, ErrNotFound)
	}
	return nil
}

// DeleteSeed removes a seed
func (s *Store) DeleteSeed(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM seeds WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("seed %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetFertilizerByID retrieves a fertilizer together with its
// compatible-seed set
func (s *Store) GetFertilizerByID(ctx context.Context, id int64) (*models.Fertilizer, error) {
	var fert models.Fertilizer
	err := s.db.GetContext(ctx, &fert, "SELECT * FROM fertilizers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fertilizer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadCompatibleSeeds(ctx, &fert); err != nil {
		return nil, err
	}
	return &fert, nil
}

// GetFertilizerByName retrieves a fertilizer by its unique name
func (s *Store) GetFertilizerByName(ctx context.Context, name string) (*models.Fertilizer, error) {
	var fert models.Fertilizer
	err := s.db.GetContext(ctx, &fert, "SELECT * FROM fertilizers WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fertilizer %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadCompatibleSeeds(ctx, &fert); err != nil {
		return nil, err
	}
	return &fert, nil
}

// ListFertilizers retrieves a page of fertilizers with their
// compatible-seed sets
func (s *Store) ListFertilizers(ctx context.Context, page, limit int) ([]models.Fertilizer, int, error) {
	var ferts []models.Fertilizer
	err := s.db.SelectContext(ctx, &ferts,
		"SELECT * FROM fertilizers ORDER BY name LIMIT $1 OFFSET $2", limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	for i := range ferts {
		if err := s.loadCompatibleSeeds(ctx, &ferts[i]); err != nil {
			return nil, 0, err
		}
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM fertilizers"); err != nil {
		return nil, 0, err
	}
	return ferts, total, nil
}

// CreateFertilizer inserts a fertilizer and its compatibility links in a
// single transaction
func (s *Store) CreateFertilizer(ctx context.Context, fert *models.Fertilizer) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO fertilizers (name, description, price_per_kg, kg_per_acre)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, fert, query,
		fert.Name, fert.Description, fert.PricePerKg, fert.KgPerAcre); err != nil {
		return err
	}

	for _, seedID := range fert.CompatibleSeedIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO fertilizer_seeds (fertilizer_id, seed_id) VALUES ($1, $2)",
			fert.ID, seedID); err != nil {
			return fmt.Errorf("failed to link seed %d: %w", seedID, err)
		}
	}

	return tx.Commit()
}

// UpdateFertilizer updates fertilizer fields and replaces its
// compatibility link set when one is supplied
func (s *Store) UpdateFertilizer(ctx context.Context, fert *models.Fertilizer, replaceLinks bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE fertilizers SET name = $1, description = $2, price_per_kg = $3, kg_per_acre = $4 WHERE id = $5",
		fert.Name, fert.Description, fert.PricePerKg, fert.KgPerAcre, fert.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("fertilizer %d: %w", fert.ID, ErrNotFound)
	}

	if replaceLinks {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM fertilizer_seeds WHERE fertilizer_id = $1", fert.ID); err != nil {
			return err
		}
		for _, seedID := range fert.CompatibleSeedIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO fertilizer_seeds (fertilizer_id, seed_id) VALUES ($1, $2)",
				fert.ID, seedID); err != nil {
				return fmt.Errorf("failed to link seed %d: %w", seedID, err)
			}
		}
	}

	return tx.Commit()
}

// DeleteFertilizer removes a fertilizer; link rows cascade
func (s *Store) DeleteFertilizer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fertilizers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("fertilizer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) loadCompatibleSeeds(ctx context.Context, fert *models.Fertilizer) error {
	ids := []int64{}
	err := s.db.SelectContext(ctx, &ids,
		"SELECT seed_id FROM fertilizer_seeds WHERE fertilizer_id = $1 ORDER BY seed_id", fert.ID)
	if err != nil {
		return err
	}
	fert.CompatibleSeedIDs = ids
	return nil
}
