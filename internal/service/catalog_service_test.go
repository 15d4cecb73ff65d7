package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"farm-order-service/internal/models"
	"farm-order-service/internal/redisclient"
	"farm-order-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogStore is an in-memory CatalogStore counting reads so tests
// can tell cache hits from database round trips.
type fakeCatalogStore struct {
	seeds       map[int64]*models.Seed
	fertilizers map[int64]*models.Fertilizer
	nextID      int64

	seedReads int
	fertReads int
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		seeds: map[int64]*models.Seed{
			1: {ID: 1, Name: "Maize Hybrid", PricePerKg: 20, KgPerAcre: 25},
		},
		fertilizers: map[int64]*models.Fertilizer{
			1: {ID: 1, Name: "NPK 17-17-17", PricePerKg: 10, KgPerAcre: 40, CompatibleSeedIDs: []int64{1}},
		},
		nextID: 10,
	}
}

func (f *fakeCatalogStore) GetSeedByID(_ context.Context, id int64) (*models.Seed, error) {
	f.seedReads++
	if seed, ok := f.seeds[id]; ok {
		cp := *seed
		return &cp, nil
	}
	return nil, fmt.Errorf("seed %d: %w", id, store.ErrNotFound)
}

func (f *fakeCatalogStore) GetSeedByName(_ context.Context, name string) (*models.Seed, error) {
	for _, seed := range f.seeds {
		if seed.Name == name {
			cp := *seed
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("seed %q: %w", name, store.ErrNotFound)
}

func (f *fakeCatalogStore) ListSeeds(_ context.Context, _, _ int) ([]models.Seed, int, error) {
	var seeds []models.Seed
	for _, seed := range f.seeds {
		seeds = append(seeds, *seed)
	}
	return seeds, len(seeds), nil
}

func (f *fakeCatalogStore) CreateSeed(_ context.Context, seed *models.Seed) error {
	f.nextID++
	seed.ID = f.nextID
	cp := *seed
	f.seeds[seed.ID] = &cp
	return nil
}

func (f *fakeCatalogStore) UpdateSeed(_ context.Context, seed *models.Seed) error {
	if _, ok := f.seeds[seed.ID]; !ok {
		return fmt.Errorf("seed %d: %w", seed.ID, store.ErrNotFound)
	}
	cp := *seed
	f.seeds[seed.ID] = &cp
	return nil
}

func (f *fakeCatalogStore) DeleteSeed(_ context.Context, id int64) error {
	if _, ok := f.seeds[id]; !ok {
		return fmt.Errorf("seed %d: %w", id, store.ErrNotFound)
	}
	delete(f.seeds, id)
	return nil
}

func (f *fakeCatalogStore) GetFertilizerByID(_ context.Context, id int64) (*models.Fertilizer, error) {
	f.fertReads++
	if fert, ok := f.fertilizers[id]; ok {
		cp := *fert
		return &cp, nil
	}
	return nil, fmt.Errorf("fertilizer %d: %w", id, store.ErrNotFound)
}

func (f *fakeCatalogStore) GetFertilizerByName(_ context.Context, name string) (*models.Fertilizer, error) {
	for _, fert := range f.fertilizers {
		if fert.Name == name {
			cp := *fert
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("fertilizer %q: %w", name, store.ErrNotFound)
}

func (f *fakeCatalogStore) ListFertilizers(_ context.Context, _, _ int) ([]models.Fertilizer, int, error) {
	var ferts []models.Fertilizer
	for _, fert := range f.fertilizers {
		ferts = append(ferts, *fert)
	}
	return ferts, len(ferts), nil
}

func (f *fakeCatalogStore) CreateFertilizer(_ context.Context, fert *models.Fertilizer) error {
	f.nextID++
	fert.ID = f.nextID
	cp := *fert
	f.fertilizers[fert.ID] = &cp
	return nil
}

func (f *fakeCatalogStore) UpdateFertilizer(_ context.Context, fert *models.Fertilizer, _ bool) error {
	if _, ok := f.fertilizers[fert.ID]; !ok {
		return fmt.Errorf("fertilizer %d: %w", fert.ID, store.ErrNotFound)
	}
	cp := *fert
	f.fertilizers[fert.ID] = &cp
	return nil
}

func (f *fakeCatalogStore) DeleteFertilizer(_ context.Context, id int64) error {
	if _, ok := f.fertilizers[id]; !ok {
		return fmt.Errorf("fertilizer %d: %w", id, store.ErrNotFound)
	}
	delete(f.fertilizers, id)
	return nil
}

// fakeCatalogCache stores marshalled entries in a map, reporting absent
// keys as cache misses like the Redis client does.
type fakeCatalogCache struct {
	data map[string][]byte
	sets int
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{data: make(map[string][]byte)}
}

func (f *fakeCatalogCache) entryKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (f *fakeCatalogCache) GetCatalogItem(_ context.Context, kind string, id int64, dest interface{}) error {
	raw, ok := f.data[f.entryKey(kind, id)]
	if !ok {
		return redisclient.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCatalogCache) SetCatalogItem(_ context.Context, kind string, id int64, item interface{}) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	f.data[f.entryKey(kind, id)] = raw
	f.sets++
	return nil
}

func (f *fakeCatalogCache) InvalidateCatalogItem(_ context.Context, kind string, id int64) error {
	delete(f.data, f.entryKey(kind, id))
	return nil
}

func newTestCatalogService() (*CatalogService, *fakeCatalogStore, *fakeCatalogCache) {
	fs := newFakeCatalogStore()
	cache := newFakeCatalogCache()
	return NewCatalogService(fs, cache), fs, cache
}

func TestGetSeedCachesAfterMiss(t *testing.T) {
	svc, fs, cache := newTestCatalogService()

	seed, err := svc.GetSeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Maize Hybrid", seed.Name)
	assert.Equal(t, 1, fs.seedReads)
	assert.Equal(t, 1, cache.sets)

	// Second lookup is served from the cache.
	seed, err = svc.GetSeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Maize Hybrid", seed.Name)
	assert.Equal(t, float64(20), seed.PricePerKg)
	assert.Equal(t, 1, fs.seedReads)
}

func TestGetSeedNotFound(t *testing.T) {
	svc, _, _ := newTestCatalogService()

	_, err := svc.GetSeed(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetFertilizerCachesCompatibleSeeds(t *testing.T) {
	svc, fs, _ := newTestCatalogService()

	fert, err := svc.GetFertilizer(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, fert.CompatibleSeedIDs)

	// Compatibility links survive the cache round trip.
	fert, err = svc.GetFertilizer(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, fert.CompatibleWith(1))
	assert.Equal(t, 1, fs.fertReads)
}

func TestUpdateSeedInvalidatesCache(t *testing.T) {
	svc, fs, _ := newTestCatalogService()

	_, err := svc.GetSeed(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, fs.seedReads)

	_, err = svc.UpdateSeed(context.Background(), 1, &SeedInput{
		Name: "Maize Hybrid", PricePerKg: 30, KgPerAcre: 25,
	})
	require.NoError(t, err)

	// The stale entry is gone; the next read sees the new price.
	seed, err := svc.GetSeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, float64(30), seed.PricePerKg)
}

func TestDeleteFertilizerInvalidatesCache(t *testing.T) {
	svc, _, cache := newTestCatalogService()

	_, err := svc.GetFertilizer(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, cache.data)

	require.NoError(t, svc.DeleteFertilizer(context.Background(), 1))
	assert.Empty(t, cache.data)

	_, err = svc.GetFertilizer(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSeedRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newTestCatalogService()

	_, err := svc.CreateSeed(context.Background(), &SeedInput{
		Name: "Maize Hybrid", PricePerKg: 20, KgPerAcre: 25,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateFertilizerChecksSeedReferences(t *testing.T) {
	svc, _, _ := newTestCatalogService()

	_, err := svc.CreateFertilizer(context.Background(), &FertilizerInput{
		Name: "DAP", PricePerKg: 12, KgPerAcre: 20,
		CompatibleSeedIDs: []int64{404},
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}
