package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	hub *subscriptionHub
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:  db,
		hub: newSubscriptionHub(),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Users table for journal owners
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Trades table for journaled trades
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		entry_date DATETIME NOT NULL,
		exit_date DATETIME,
		symbol TEXT NOT NULL,
		type TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL,
		quantity REAL NOT NULL,
		fees REAL DEFAULT 0,
		pnl REAL DEFAULT 0,
		setup TEXT,
		mistakes TEXT,
		followed_setup INTEGER DEFAULT 1,
		entry_reason TEXT,
		feeling TEXT,
		lesson_learned TEXT,
		tags TEXT,
		screenshot TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	-- Profiles table for challenge state and journal settings
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		challenge TEXT,
		completed_challenges TEXT,
		custom_setups TEXT,
		custom_rules TEXT,
		custom_mistakes TEXT,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
	CREATE INDEX IF NOT EXISTS idx_trades_user_symbol ON trades(user_id, symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_user_created ON trades(user_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection and any open subscriptions.
func (s *SQLiteStore) Close() error {
	s.hub.closeAll()
	return s.db.Close()
}

const tradeColumns = `id, entry_date, exit_date, symbol, type, asset_class, entry_price, exit_price, quantity, fees, pnl, setup, mistakes, followed_setup, entry_reason, feeling, lesson_learned, tags, screenshot, notes, created_at, updated_at`

// SaveTrade persists a new trade for the user and returns its ID.
func (s *SQLiteStore) SaveTrade(ctx context.Context, userID string, trade *models.Trade) (string, error) {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	now := time.Now()
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = now
	}
	trade.UpdatedAt = now

	if err := s.insertTrade(ctx, userID, trade); err != nil {
		return "", apperrors.NewStoreError("save", trade.ID, err)
	}

	s.publish(ctx, userID)
	return trade.ID, nil
}

func (s *SQLiteStore) insertTrade(ctx context.Context, userID string, trade *models.Trade) error {
	mistakes, _ := json.Marshal(trade.Mistakes)
	tags, _ := json.Marshal(trade.Tags)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, user_id, entry_date, exit_date, symbol, type, asset_class, entry_price, exit_price, quantity, fees, pnl, setup, mistakes, followed_setup, entry_reason, feeling, lesson_learned, tags, screenshot, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, userID, trade.EntryDate, nullTime(trade.ExitDate), trade.Symbol, trade.Type, trade.AssetClass,
		trade.EntryPrice, trade.ExitPrice, trade.Quantity, trade.Fees, trade.PnL,
		trade.Setup, string(mistakes), boolInt(trade.FollowedSetup), trade.EntryReason, trade.Feeling,
		trade.LessonLearned, string(tags), trade.Screenshot, trade.Notes, trade.CreatedAt, trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// GetTrade retrieves a single trade by ID.
func (s *SQLiteStore) GetTrade(ctx context.Context, userID, tradeID string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE user_id = ? AND id = ?", userID, tradeID)

	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewStoreError("get", tradeID, apperrors.ErrTradeNotFound)
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get", tradeID, err)
	}
	return trade, nil
}

// GetTrades retrieves the user's trades, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, userID string, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE user_id = ?"
	args := []interface{}{userID}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Setup != "" {
		query += " AND setup = ?"
		args = append(args, filter.Setup)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if !filter.StartDate.IsZero() {
		query += " AND entry_date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND entry_date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *trade)
	}

	return trades, rows.Err()
}

// UpdateTrade applies the payload to an existing trade. If the target
// record no longer exists, the payload is written as a new trade under
// a fresh ID and the result reports Recreated.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, userID, tradeID string, trade *models.Trade) (UpdateResult, error) {
	mistakes, _ := json.Marshal(trade.Mistakes)
	tags, _ := json.Marshal(trade.Tags)
	trade.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE trades SET entry_date = ?, exit_date = ?, symbol = ?, type = ?, asset_class = ?,
			entry_price = ?, exit_price = ?, quantity = ?, fees = ?, pnl = ?,
			setup = ?, mistakes = ?, followed_setup = ?, entry_reason = ?, feeling = ?,
			lesson_learned = ?, tags = ?, screenshot = ?, notes = ?, updated_at = ?
		WHERE user_id = ? AND id = ?
	`, trade.EntryDate, nullTime(trade.ExitDate), trade.Symbol, trade.Type, trade.AssetClass,
		trade.EntryPrice, trade.ExitPrice, trade.Quantity, trade.Fees, trade.PnL,
		trade.Setup, string(mistakes), boolInt(trade.FollowedSetup), trade.EntryReason, trade.Feeling,
		trade.LessonLearned, string(tags), trade.Screenshot, trade.Notes, trade.UpdatedAt,
		userID, tradeID)
	if err != nil {
		return UpdateResult{}, apperrors.NewStoreError("update", tradeID, err)
	}

	affected, _ := result.RowsAffected()
	if affected > 0 {
		trade.ID = tradeID
		s.publish(ctx, userID)
		return UpdateResult{Outcome: Updated}, nil
	}

	// Target vanished; keep the journal entry by recreating it under a
	// fresh ID rather than losing the edit.
	recreated := *trade
	recreated.ID = uuid.NewString()
	if recreated.CreatedAt.IsZero() {
		recreated.CreatedAt = time.Now()
	}
	if err := s.insertTrade(ctx, userID, &recreated); err != nil {
		return UpdateResult{}, apperrors.NewStoreError("update", tradeID, err)
	}
	trade.ID = recreated.ID

	s.publish(ctx, userID)
	return UpdateResult{Outcome: Recreated, NewID: recreated.ID}, nil
}

// DeleteTrade removes a trade. Deleting a missing trade is not an error.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, userID, tradeID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM trades WHERE user_id = ? AND id = ?", userID, tradeID)
	if err != nil {
		return apperrors.NewStoreError("delete", tradeID, err)
	}

	s.publish(ctx, userID)
	return nil
}

// ============================================================================
// Profile Methods
// ============================================================================

// GetProfile retrieves the user's profile.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p          models.Profile
		challenge  sql.NullString
		completed  sql.NullString
		setups     sql.NullString
		rules      sql.NullString
		mistakeSet sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, challenge, completed_challenges, custom_setups, custom_rules, custom_mistakes, updated_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &challenge, &completed, &setups, &rules, &mistakeSet, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	if challenge.Valid && challenge.String != "" {
		var c models.GrowthChallenge
		if err := json.Unmarshal([]byte(challenge.String), &c); err == nil {
			p.Challenge = &c
		}
	}
	if completed.Valid {
		json.Unmarshal([]byte(completed.String), &p.CompletedChallenges)
	}
	if setups.Valid {
		json.Unmarshal([]byte(setups.String), &p.CustomSetups)
	}
	if rules.Valid {
		json.Unmarshal([]byte(rules.String), &p.CustomRules)
	}
	if mistakeSet.Valid {
		json.Unmarshal([]byte(mistakeSet.String), &p.CustomMistakes)
	}

	return &p, nil
}

// SaveProfile writes the full profile document.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()

	var challenge []byte
	if profile.Challenge != nil {
		challenge, _ = json.Marshal(profile.Challenge)
	}
	completed, _ := json.Marshal(profile.CompletedChallenges)
	setups, _ := json.Marshal(profile.CustomSetups)
	rules, _ := json.Marshal(profile.CustomRules)
	mistakes, _ := json.Marshal(profile.CustomMistakes)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (user_id, challenge, completed_challenges, custom_setups, custom_rules, custom_mistakes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, profile.UserID, string(challenge), string(completed), string(setups), string(rules), string(mistakes), profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// ============================================================================
// User Methods
// ============================================================================

// CreateUser inserts a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, COALESCE(display_name, ''), password_hash, created_at FROM users WHERE email = ?", email))
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, COALESCE(display_name, ''), password_hash, created_at FROM users WHERE id = ?", id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// ============================================================================
// Subscriptions
// ============================================================================

// Subscribe returns a live snapshot feed for the user's trades.
func (s *SQLiteStore) Subscribe(userID string) (*Subscription, error) {
	return s.hub.subscribe(userID), nil
}

// publish pushes the user's current trade list to all subscribers.
func (s *SQLiteStore) publish(ctx context.Context, userID string) {
	trades, err := s.GetTrades(ctx, userID, TradeFilter{})
	if err != nil {
		return
	}
	s.hub.broadcast(userID, trades)
}

// ============================================================================
// Scan helpers
// ============================================================================

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row scannable) (*models.Trade, error) {
	var (
		t             models.Trade
		exitDate      sql.NullTime
		exitPrice     sql.NullFloat64
		mistakesJSON  sql.NullString
		followedSetup int
		tagsJSON      sql.NullString
		setup         sql.NullString
		entryReason   sql.NullString
		feeling       sql.NullString
		lessonLearned sql.NullString
		screenshot    sql.NullString
		notes         sql.NullString
	)

	err := row.Scan(&t.ID, &t.EntryDate, &exitDate, &t.Symbol, &t.Type, &t.AssetClass,
		&t.EntryPrice, &exitPrice, &t.Quantity, &t.Fees, &t.PnL,
		&setup, &mistakesJSON, &followedSetup, &entryReason, &feeling,
		&lessonLearned, &tagsJSON, &screenshot, &notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if exitDate.Valid {
		t.ExitDate = exitDate.Time
	}
	t.ExitPrice = exitPrice.Float64
	t.Setup = setup.String
	t.EntryReason = entryReason.String
	t.Feeling = feeling.String
	t.LessonLearned = lessonLearned.String
	t.Screenshot = screenshot.String
	t.Notes = notes.String
	t.FollowedSetup = followedSetup == 1
	if mistakesJSON.Valid {
		json.Unmarshal([]byte(mistakesJSON.String), &t.Mistakes)
	}
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &t.Tags)
	}

	return &t, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
