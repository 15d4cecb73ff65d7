package service

import (
	"context"
	"errors"
	"fmt"

	"farm-order-service/internal/auth"
	"farm-order-service/internal/models"
	"farm-order-service/internal/store"
	"farm-order-service/internal/util"

	"go.uber.org/zap"
)

// AccountStore is the persistence surface the account service depends
// on. *store.Store satisfies it.
type AccountStore interface {
	CreateFarmer(ctx context.Context, farmer *models.Farmer) error
	GetFarmerByPhone(ctx context.Context, phone string) (*models.Farmer, error)
	ListFarmers(ctx context.Context, page, limit int) ([]models.Farmer, int, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.StoreAdmin, error)
}

// AccountService handles farmer registration and farmer/admin login.
type AccountService struct {
	store  AccountStore
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store AccountStore, tokens *auth.TokenManager) *AccountService {
	return &AccountService{
		store:  store,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// RegisterFarmerRequest carries farmer sign-up fields
type RegisterFarmerRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

// LoginRequest carries farmer login credentials
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// AdminLoginRequest carries admin login credentials
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// RegisterFarmer creates a farmer account. Phone numbers are unique.
func (as *AccountService) RegisterFarmer(ctx context.Context, req *RegisterFarmerRequest) (*models.Farmer, error) {
	if _, err := as.store.GetFarmerByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, fmt.Errorf("user with the same phone number %w", ErrDuplicate)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	farmer := &models.Farmer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	if err := as.store.CreateFarmer(ctx, farmer); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	util.FarmersRegisteredTotal.Inc()
	as.logger.Info("Farmer registered", zap.Int64("farmer_id", farmer.ID))
	return farmer, nil
}

// LoginFarmer verifies farmer credentials and issues an access token
func (as *AccountService) LoginFarmer(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	farmer, err := as.store.GetFarmerByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginFailuresTotal.WithLabelValues("farmer").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if !auth.CheckPassword(req.Password, farmer.PasswordHash) {
		util.LoginFailuresTotal.WithLabelValues("farmer").Inc()
		return nil, ErrInvalidCredentials
	}

	return as.issueToken(farmer.ID, farmer.PhoneNumber, auth.RoleFarmer)
}

// LoginAdmin verifies admin credentials and issues a role-scoped token
func (as *AccountService) LoginAdmin(ctx context.Context, req *AdminLoginRequest) (*TokenResponse, error) {
	admin, err := as.store.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginFailuresTotal.WithLabelValues("admin").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if !auth.CheckPassword(req.Password, admin.PasswordHash) {
		util.LoginFailuresTotal.WithLabelValues("admin").Inc()
		return nil, ErrInvalidCredentials
	}

	return as.issueToken(admin.ID, admin.Email, auth.RoleAdmin)
}

// ListFarmers retrieves a page of farmer accounts for administrators
func (as *AccountService) ListFarmers(ctx context.Context, page, limit int) ([]models.Farmer, *models.Pagination, error) {
	farmers, total, err := as.store.ListFarmers(ctx, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return farmers, NewPagination(page, limit, total), nil
}

func (as *AccountService) issueToken(userID int64, subject, role string) (*TokenResponse, error) {
	token, err := as.tokens.Generate(userID, subject, role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(as.tokens.TTL().Seconds()),
	}, nil
}
