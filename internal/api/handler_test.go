package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-order-service/internal/auth"
	"farm-order-service/internal/models"
	"farm-order-service/internal/service"
	"farm-order-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderStore backs the order service in handler tests.
type stubOrderStore struct {
	lands       map[int64]*models.Land
	seeds       map[int64]*models.Seed
	fertilizers map[int64]*models.Fertilizer
	orders      map[int64]*models.Order
	items       map[int64][]models.OrderItem
	nextID      int64
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{
		lands: map[int64]*models.Land{
			1: {ID: 1, FarmerID: 7, UPI: "1/02/03/100", LandSize: 5, Active: true},
		},
		seeds: map[int64]*models.Seed{
			1: {ID: 1, Name: "Maize Hybrid", PricePerKg: 20, KgPerAcre: 25},
		},
		fertilizers: map[int64]*models.Fertilizer{
			1: {ID: 1, Name: "NPK 17-17-17", PricePerKg: 10, KgPerAcre: 40, CompatibleSeedIDs: []int64{1}},
			2: {ID: 2, Name: "Urea", PricePerKg: 8, KgPerAcre: 30, CompatibleSeedIDs: []int64{9}},
		},
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (s *stubOrderStore) GetLandByID(_ context.Context, id int64) (*models.Land, error) {
	if land, ok := s.lands[id]; ok {
		return land, nil
	}
	return nil, fmt.Errorf("land %d: %w", id, store.ErrNotFound)
}

func (s *stubOrderStore) GetSeedByID(_ context.Context, id int64) (*models.Seed, error) {
	if seed, ok := s.seeds[id]; ok {
		return seed, nil
	}
	return nil, fmt.Errorf("seed %d: %w", id, store.ErrNotFound)
}

func (s *stubOrderStore) GetFertilizerByID(_ context.Context, id int64) (*models.Fertilizer, error) {
	if fert, ok := s.fertilizers[id]; ok {
		return fert, nil
	}
	return nil, fmt.Errorf("fertilizer %d: %w", id, store.ErrNotFound)
}

func (s *stubOrderStore) CreateOrderTx(_ context.Context, order *models.Order, items []models.OrderItem) error {
	s.nextID++
	order.ID = s.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	s.orders[order.ID] = &stored
	s.items[order.ID] = items
	return nil
}

func (s *stubOrderStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		cp := *order
		return &cp, nil
	}
	return nil, fmt.Errorf("order %d: %w", id, store.ErrNotFound)
}

func (s *stubOrderStore) GetOrderItems(_ context.Context, orderID int64) ([]models.OrderItemDetail, error) {
	details := make([]models.OrderItemDetail, 0, len(s.items[orderID]))
	for _, item := range s.items[orderID] {
		details = append(details, models.OrderItemDetail{OrderItem: item})
	}
	return details, nil
}

func (s *stubOrderStore) ListOrdersByFarmer(_ context.Context, farmerID int64, _, _ int) ([]models.Order, int, error) {
	var result []models.Order
	for _, order := range s.orders {
		if order.FarmerID == farmerID {
			result = append(result, *order)
		}
	}
	return result, len(result), nil
}

func (s *stubOrderStore) ListPendingOrders(_ context.Context, _, _ int) ([]models.Order, int, error) {
	var result []models.Order
	for _, order := range s.orders {
		if order.Status == models.OrderStatusPending {
			result = append(result, *order)
		}
	}
	return result, len(result), nil
}

func (s *stubOrderStore) UpdateOrderStatus(_ context.Context, orderID int64, status string) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", orderID, store.ErrNotFound)
	}
	order.Status = status
	cp := *order
	return &cp, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderPlaced(context.Context, *models.OrderPlacedEvent) error { return nil }
func (noopPublisher) PublishOrderStatusChanged(context.Context, *models.OrderStatusChangedEvent) error {
	return nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("handler-test-secret-32-characters-xx", 10*time.Minute)
	orders := service.NewOrderService(newStubOrderStore(), noopPublisher{})
	handler := NewHandler(orders, nil, nil, nil, tokens, 5)

	router := gin.New()
	handler.SetupRoutes(router)
	return router, tokens
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/orders", "", gin.H{"land_id": 1, "seed_id": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderEndpoint(t *testing.T) {
	router, tokens := setupTestRouter(t)

	farmerToken, err := tokens.Generate(7, "+250788123456", auth.RoleFarmer)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/v1/orders", farmerToken,
		gin.H{"land_id": 1, "seed_id": 1, "fertilizer_id": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.OrderWithItems `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.OrderStatusPending, resp.Data.Status)
	assert.Equal(t, float64(4500), resp.Data.TotalAmount)
	assert.Len(t, resp.Data.Items, 2)
}

func TestCreateOrderIncompatiblePair(t *testing.T) {
	router, tokens := setupTestRouter(t)

	farmerToken, err := tokens.Generate(7, "+250788123456", auth.RoleFarmer)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/v1/orders", farmerToken,
		gin.H{"land_id": 1, "seed_id": 1, "fertilizer_id": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderForeignLand(t *testing.T) {
	router, tokens := setupTestRouter(t)

	otherFarmer, err := tokens.Generate(8, "+250788000000", auth.RoleFarmer)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/v1/orders", otherFarmer,
		gin.H{"land_id": 1, "seed_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	router, tokens := setupTestRouter(t)

	farmerToken, err := tokens.Generate(7, "+250788123456", auth.RoleFarmer)
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/v1/orders/404", farmerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderHidesOtherFarmersOrders(t *testing.T) {
	router, tokens := setupTestRouter(t)

	ownerToken, err := tokens.Generate(7, "+250788123456", auth.RoleFarmer)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/v1/orders", ownerToken,
		gin.H{"land_id": 1, "seed_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/orders/1", ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	otherToken, err := tokens.Generate(8, "+250788000000", auth.RoleFarmer)
	require.NoError(t, err)

	w = doJSON(router, http.MethodGet, "/api/v1/orders/1", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusRequiresAdminRole(t *testing.T) {
	router, tokens := setupTestRouter(t)

	farmerToken, err := tokens.Generate(7, "+250788123456", auth.RoleFarmer)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/v1/orders", farmerToken,
		gin.H{"land_id": 1, "seed_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	// Farmer tokens cannot transition orders.
	w = doJSON(router, http.MethodPatch, "/api/v1/admin/orders/1/status", farmerToken,
		gin.H{"status": models.OrderStatusApproved})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := tokens.Generate(1, "admin@store.test", auth.RoleAdmin)
	require.NoError(t, err)

	w = doJSON(router, http.MethodPatch, "/api/v1/admin/orders/1/status", adminToken,
		gin.H{"status": models.OrderStatusApproved})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.OrderStatusApproved, resp.Data.Status)
}

func TestUpdateOrderStatusInvalidValue(t *testing.T) {
	router, tokens := setupTestRouter(t)

	adminToken, err := tokens.Generate(1, "admin@store.test", auth.RoleAdmin)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPatch, "/api/v1/admin/orders/1/status", adminToken,
		gin.H{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
