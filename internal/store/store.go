package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farm-order-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a referenced row does not exist. Callers
// distinguish it from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// CreateFarmer inserts a new farmer account
func (s *Store) CreateFarmer(ctx context.Context, farmer *models.Farmer) error {
	query := `
		INSERT INTO farmers (first_name, last_name, phone_number, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, farmer, query,
		farmer.FirstName, farmer.LastName, farmer.PhoneNumber, farmer.PasswordHash)
}

// GetFarmerByPhone retrieves a farmer by phone number
func (s *Store) GetFarmerByPhone(ctx context.Context, phone string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := s.db.GetContext(ctx, &farmer, "SELECT * FROM farmers WHERE phone_number = $1", phone)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("farmer %s: %w", phone, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

// GetFarmerByID retrieves a farmer by ID
func (s *Store) GetFarmerByID(ctx context.Context, id int64) (*models.Farmer, error) {
	var farmer models.Farmer
	err := s.db.GetContext(ctx, &farmer, "SELECT * FROM farmers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("farmer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

// ListFarmers retrieves a page of farmer accounts
func (s *Store) ListFarmers(ctx context.Context, page, limit int) ([]models.Farmer, int, error) {
	var farmers []models.Farmer
	err := s.db.SelectContext(ctx, &farmers,
		"SELECT * FROM farmers ORDER BY id LIMIT $1 OFFSET $2", limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM farmers"); err != nil {
		return nil, 0, err
	}
	return farmers, total, nil
}

// GetAdminByEmail retrieves an administrator by email
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.StoreAdmin, error) {
	var admin models.StoreAdmin
	err := s.db.GetContext(ctx, &admin, "SELECT * FROM store_admins WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("admin %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin inserts an administrator account. Used by the seed command.
func (s *Store) CreateAdmin(ctx context.Context, admin *models.StoreAdmin) error {
	query := `
		INSERT INTO store_admins (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, admin, query,
		admin.Email, admin.FirstName, admin.LastName, admin.PasswordHash)
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}

// CreateNotification records a notification for a farmer
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (farmer_id, order_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, n, query, n.FarmerID, n.OrderID, n.Message)
}
