package service

import (
	"context"
	"errors"
	"fmt"

	"farm-order-service/internal/models"
	"farm-order-service/internal/store"
	"farm-order-service/internal/util"

	"go.uber.org/zap"
)

// LandService manages farmer-owned land parcels.
type LandService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewLandService creates a new land service
func NewLandService(store *store.Store) *LandService {
	return &LandService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// LandInput carries land create/update fields
type LandInput struct {
	UPI      string  `json:"upi" binding:"required"`
	LandSize float64 `json:"land_size" binding:"required,gt=0"`
	Location string  `json:"location"`
	Active   *bool   `json:"active"`
}

// RegisterLand records a new parcel for the farmer. UPIs are unique
// across all parcels.
func (ls *LandService) RegisterLand(ctx context.Context, farmerID int64, input *LandInput) (*models.Land, error) {
	if _, err := ls.store.GetLandByUPI(ctx, input.UPI); err == nil {
		return nil, fmt.Errorf("land with the same UPI %w", ErrDuplicate)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	land := &models.Land{
		FarmerID: farmerID,
		UPI:      input.UPI,
		LandSize: input.LandSize,
		Location: input.Location,
		Active:   active,
	}
	if err := ls.store.CreateLand(ctx, land); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	ls.logger.Info("Land registered",
		zap.Int64("land_id", land.ID),
		zap.Int64("farmer_id", farmerID),
		zap.String("upi", land.UPI))
	return land, nil
}

// GetFarmerLands retrieves a page of the farmer's parcels
func (ls *LandService) GetFarmerLands(ctx context.Context, farmerID int64, page, limit int) ([]models.Land, *models.Pagination, error) {
	lands, total, err := ls.store.ListLandsByFarmer(ctx, farmerID, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return lands, NewPagination(page, limit, total), nil
}

// UpdateLand updates a parcel the farmer owns
func (ls *LandService) UpdateLand(ctx context.Context, farmerID, landID int64, input *LandInput) (*models.Land, error) {
	land, err := ls.ownedLand(ctx, farmerID, landID)
	if err != nil {
		return nil, err
	}

	land.UPI = input.UPI
	land.LandSize = input.LandSize
	land.Location = input.Location
	if input.Active != nil {
		land.Active = *input.Active
	}

	if err := ls.store.UpdateLand(ctx, land); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return land, nil
}

// DeleteLand removes a parcel the farmer owns
func (ls *LandService) DeleteLand(ctx context.Context, farmerID, landID int64) error {
	if _, err := ls.ownedLand(ctx, farmerID, landID); err != nil {
		return err
	}
	if err := ls.store.DeleteLand(ctx, landID); err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return nil
}

func (ls *LandService) ownedLand(ctx context.Context, farmerID, landID int64) (*models.Land, error) {
	land, err := ls.store.GetLandByID(ctx, landID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("invalid land selected: %w", ErrInvalidReference)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	if land.FarmerID != farmerID {
		return nil, fmt.Errorf("invalid land selected: %w", ErrInvalidReference)
	}
	return land, nil
}
