package service

import (
	"context"
	"errors"
	"fmt"

	"farm-order-service/internal/models"
	"farm-order-service/internal/redisclient"
	"farm-order-service/internal/store"
	"farm-order-service/internal/util"

	"go.uber.org/zap"
)

const (
	cacheKindSeed       = "seed"
	cacheKindFertilizer = "fertilizer"
)

// CatalogStore is the persistence surface the catalog service depends
// on. *store.Store satisfies it.
type CatalogStore interface {
	GetSeedByID(ctx context.Context, id int64) (*models.Seed, error)
	GetSeedByName(ctx context.Context, name string) (*models.Seed, error)
	ListSeeds(ctx context.Context, page, limit int) ([]models.Seed, int, error)
	CreateSeed(ctx context.Context, seed *models.Seed) error
	UpdateSeed(ctx context.Context, seed *models.Seed) error
	DeleteSeed(ctx context.Context, id int64) error
	GetFertilizerByID(ctx context.Context, id int64) (*models.Fertilizer, error)
	GetFertilizerByName(ctx context.Context, name string) (*models.Fertilizer, error)
	ListFertilizers(ctx context.Context, page, limit int) ([]models.Fertilizer, int, error)
	CreateFertilizer(ctx context.Context, fert *models.Fertilizer) error
	UpdateFertilizer(ctx context.Context, fert *models.Fertilizer, replaceLinks bool) error
	DeleteFertilizer(ctx context.Context, id int64) error
}

// CatalogCache caches single-item catalog reads. *redisclient.Client
// satisfies it; absent keys are reported as redisclient.ErrCacheMiss.
type CatalogCache interface {
	GetCatalogItem(ctx context.Context, kind string, id int64, dest interface{}) error
	SetCatalogItem(ctx context.Context, kind string, id int64, item interface{}) error
	InvalidateCatalogItem(ctx context.Context, kind string, id int64) error
}

// CatalogService manages seed and fertilizer reference data. Reads go
// through the Redis cache; admin writes invalidate it.
type CatalogService struct {
	store  CatalogStore
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore, cache CatalogCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// SeedInput carries seed create/update fields
type SeedInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	PricePerKg  float64 `json:"price_per_kg" binding:"required,gt=0"`
	KgPerAcre   float64 `json:"kg_per_acre" binding:"required,gt=0"`
}

// FertilizerInput carries fertilizer create/update fields
type FertilizerInput struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	PricePerKg        float64 `json:"price_per_kg" binding:"required,gt=0"`
	KgPerAcre         float64 `json:"kg_per_acre" binding:"required,gt=0"`
	CompatibleSeedIDs []int64 `json:"compatible_seed_ids"`
}

// GetSeed retrieves a seed, preferring the cache
func (cs *CatalogService) GetSeed(ctx context.Context, id int64) (*models.Seed, error) {
	var cached models.Seed
	if err := cs.cache.GetCatalogItem(ctx, cacheKindSeed, id, &cached); err == nil {
		util.CatalogCacheHitsTotal.WithLabelValues(cacheKindSeed, "hit").Inc()
		return &cached, nil
	} else if !errors.Is(err, redisclient.ErrCacheMiss) {
		cs.logger.Warn("Catalog cache read failed", zap.Error(err))
	}
	util.CatalogCacheHitsTotal.WithLabelValues(cacheKindSeed, "miss").Inc()

	seed, err := cs.store.GetSeedByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("seed: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err := cs.cache.SetCatalogItem(ctx, cacheKindSeed, id, seed); err != nil {
		cs.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
	return seed, nil
}

// GetFertilizer retrieves a fertilizer with its compatible-seed set,
// preferring the cache
func (cs *CatalogService) GetFertilizer(ctx context.Context, id int64) (*models.Fertilizer, error) {
	var cached models.Fertilizer
	if err := cs.cache.GetCatalogItem(ctx, cacheKindFertilizer, id, &cached); err == nil {
		util.CatalogCacheHitsTotal.WithLabelValues(cacheKindFertilizer, "hit").Inc()
		return &cached, nil
	} else if !errors.Is(err, redisclient.ErrCacheMiss) {
		cs.logger.Warn("Catalog cache read failed", zap.Error(err))
	}
	util.CatalogCacheHitsTotal.WithLabelValues(cacheKindFertilizer, "miss").Inc()

	fert, err := cs.store.GetFertilizerByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("fertilizer: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err := cs.cache.SetCatalogItem(ctx, cacheKindFertilizer, id, fert); err != nil {
		cs.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
	return fert, nil
}

// ListSeeds retrieves a page of seeds
func (cs *CatalogService) ListSeeds(ctx context.Context, page, limit int) ([]models.Seed, *models.Pagination, error) {
	seeds, total, err := cs.store.ListSeeds(ctx, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return seeds, NewPagination(page, limit, total), nil
}

// ListFertilizers retrieves a page of fertilizers with their
// compatible-seed sets
func (cs *CatalogService) ListFertilizers(ctx context.Context, page, limit int) ([]models.Fertilizer, *models.Pagination, error) {
	ferts, total, err := cs.store.ListFertilizers(ctx, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return ferts, NewPagination(page, limit, total), nil
}

// CreateSeed adds a seed to the catalog. Seed names are unique.
func (cs *CatalogService) CreateSeed(ctx context.Context, input *SeedInput) (*models.Seed, error) {
	if _, err := cs.store.GetSeedByName(ctx, input.Name); err == nil {
		return nil, fmt.Errorf("seed with the same name %w", ErrDuplicate)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	seed := &models.Seed{
		Name:        input.Name,
		Description: input.Description,
		PricePerKg:  input.PricePerKg,
		KgPerAcre:   input.KgPerAcre,
	}
	if err := cs.store.CreateSeed(ctx, seed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	cs.logger.Info("Seed created", zap.Int64("seed_id", seed.ID), zap.String("name", seed.Name))
	return seed, nil
}

// UpdateSeed updates a seed and invalidates its cache entry
func (cs *CatalogService) UpdateSeed(ctx context.Context, id int64, input *SeedInput) (*models.Seed, error) {
	seed := &models.Seed{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		PricePerKg:  input.PricePerKg,
		KgPerAcre:   input.KgPerAcre,
	}
	if err := cs.store.UpdateSeed(ctx, seed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("seed: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	cs.invalidate(ctx, cacheKindSeed, id)
	return cs.store.GetSeedByID(ctx, id)
}

// DeleteSeed removes a seed and invalidates its cache entry
func (cs *CatalogService) DeleteSeed(ctx context.Context, id int64) error {
	if err := cs.store.DeleteSeed(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed: %w", ErrNotFound)
		}
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	cs.invalidate(ctx, cacheKindSeed, id)
	return nil
}

// CreateFertilizer adds a fertilizer and its compatibility links.
// Every referenced seed must exist.
func (cs *CatalogService) CreateFertilizer(ctx context.Context, input *FertilizerInput) (*models.Fertilizer, error) {
	if _, err := cs.store.GetFertilizerByName(ctx, input.Name); err == nil {
		return nil, fmt.Errorf("fertilizer with the same name %w", ErrDuplicate)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err := cs.checkSeedIDs(ctx, input.CompatibleSeedIDs); err != nil {
		return nil, err
	}

	fert := &models.Fertilizer{
		Name:              input.Name,
		Description:       input.Description,
		PricePerKg:        input.PricePerKg,
		KgPerAcre:         input.KgPerAcre,
		CompatibleSeedIDs: input.CompatibleSeedIDs,
	}
	if err := cs.store.CreateFertilizer(ctx, fert); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	cs.logger.Info("Fertilizer created",
		zap.Int64("fertilizer_id", fert.ID),
		zap.String("name", fert.Name),
		zap.Int("compatible_seeds", len(fert.CompatibleSeedIDs)))
	return fert, nil
}

// UpdateFertilizer updates a fertilizer, replaces its compatibility
// links when supplied, and invalidates its cache entry
func (cs *CatalogService) UpdateFertilizer(ctx context.Context, id int64, input *FertilizerInput) (*models.Fertilizer, error) {
	replaceLinks := input.CompatibleSeedIDs != nil
	if replaceLinks {
		if err := cs.checkSeedIDs(ctx, input.CompatibleSeedIDs); err != nil {
			return nil, err
		}
	}

	fert := &models.Fertilizer{
		ID:                id,
		Name:              input.Name,
		Description:       input.Description,
		PricePerKg:        input.PricePerKg,
		KgPerAcre:         input.KgPerAcre,
		CompatibleSeedIDs: input.CompatibleSeedIDs,
	}
	if err := cs.store.UpdateFertilizer(ctx, fert, replaceLinks); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("fertilizer: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	cs.invalidate(ctx, cacheKindFertilizer, id)
	return cs.store.GetFertilizerByID(ctx, id)
}

// DeleteFertilizer removes a fertilizer and invalidates its cache entry
func (cs *CatalogService) DeleteFertilizer(ctx context.Context, id int64) error {
	if err := cs.store.DeleteFertilizer(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("fertilizer: %w", ErrNotFound)
		}
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	cs.invalidate(ctx, cacheKindFertilizer, id)
	return nil
}

func (cs *CatalogService) checkSeedIDs(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := cs.store.GetSeedByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("compatible seed %d: %w", id, ErrInvalidReference)
			}
			return fmt.Errorf("%w: %s", ErrPersistence, err)
		}
	}
	return nil
}

func (cs *CatalogService) invalidate(ctx context.Context, kind string, id int64) {
	if err := cs.cache.InvalidateCatalogItem(ctx, kind, id); err != nil {
		cs.logger.Warn("Catalog cache invalidation failed",
			zap.String("kind", kind),
			zap.Int64("id", id),
			zap.Error(err))
	}
}
