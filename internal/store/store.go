// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"trading-diary/internal/models"
)

// UpdateOutcome describes how an update request was satisfied.
type UpdateOutcome int

const (
	// Updated means the existing record was modified in place.
	Updated UpdateOutcome = iota
	// Recreated means the target record was missing and the payload was
	// written as a new record under a fresh ID.
	Recreated
)

// UpdateResult reports the outcome of UpdateTrade. NewID is set only
// when the outcome is Recreated.
type UpdateResult struct {
	Outcome UpdateOutcome
	NewID   string
}

// DataStore defines the interface for journal persistence.
type DataStore interface {
	// Trades
	SaveTrade(ctx context.Context, userID string, trade *models.Trade) (string, error)
	GetTrade(ctx context.Context, userID, tradeID string) (*models.Trade, error)
	GetTrades(ctx context.Context, userID string, filter TradeFilter) ([]models.Trade, error)
	UpdateTrade(ctx context.Context, userID, tradeID string, trade *models.Trade) (UpdateResult, error)
	DeleteTrade(ctx context.Context, userID, tradeID string) error

	// Profile (challenge state, custom setups, rules)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Subscriptions deliver a full trade snapshot after every mutation.
	Subscribe(userID string) (*Subscription, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Symbol    string
	Setup     string
	Type      models.TradeType
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
