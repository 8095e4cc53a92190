// Package auth provides local account management and session handling.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/models"
	"trading-diary/internal/store"
)

const (
	// KeySize is the size of the derived password hash in bytes.
	KeySize = 32
	// SaltSize is the size of the salt for key derivation.
	SaltSize = 16
	// PBKDF2Iterations is the number of iterations for key derivation.
	PBKDF2Iterations = 100000
	// SessionLifetime is how long a sign-in remains valid.
	SessionLifetime = 30 * 24 * time.Hour
)

// Session is the on-disk record of a signed-in user.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChangeListener is notified when the signed-in user changes. A nil
// user means signed out.
type ChangeListener func(user *models.User)

// Service manages accounts and the active session.
type Service struct {
	store     store.DataStore
	configDir string

	mu        sync.RWMutex
	listeners []ChangeListener
}

// NewService creates an auth service backed by the given store. Session
// state is kept under configDir.
func NewService(st store.DataStore, configDir string) *Service {
	return &Service{store: st, configDir: configDir}
}

// OnChange registers a listener for sign-in and sign-out events.
func (s *Service) OnChange(fn ChangeListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Service) notify(user *models.User) {
	s.mu.RLock()
	listeners := append([]ChangeListener{}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(user)
	}
}

// SignUp creates a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("email", email, "must be a valid email address")
	}
	if len(password) < 6 {
		return nil, apperrors.NewValidationError("password", "", "must be at least 6 characters")
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAuthError("signup", email, apperrors.ErrUserExists)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.NewAuthError("signup", email, err)
	}

	user := &models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, apperrors.NewAuthError("signup", email, err)
	}

	// Seed the profile with the default challenge and rule set.
	if err := s.store.SaveProfile(ctx, models.NewProfile(user.ID)); err != nil {
		return nil, apperrors.NewAuthError("signup", email, err)
	}

	if err := s.writeSession(user); err != nil {
		return nil, apperrors.NewAuthError("signup", email, err)
	}

	s.notify(user)
	return user, nil
}

// SignIn verifies credentials and establishes a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewAuthError("signin", email, apperrors.ErrInvalidCredentials)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.NewAuthError("signin", email, apperrors.ErrInvalidCredentials)
	}

	if err := s.writeSession(user); err != nil {
		return nil, apperrors.NewAuthError("signin", email, err)
	}

	s.notify(user)
	return user, nil
}

// SignOut clears the active session. Signing out with no session is
// not an error.
func (s *Service) SignOut() error {
	if err := os.Remove(s.sessionPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.notify(nil)
	return nil
}

// CurrentUser returns the signed-in user, or ErrNotAuthenticated when
// there is no valid session.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	session, err := s.readSession()
	if err != nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	if time.Now().After(session.ExpiresAt) {
		os.Remove(s.sessionPath())
		return nil, apperrors.ErrNotAuthenticated
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return user, nil
}

func (s *Service) sessionPath() string {
	return filepath.Join(s.configDir, "session.json")
}

func (s *Service) writeSession(user *models.User) error {
	now := time.Now()
	session := Session{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionLifetime),
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// Restricted permissions, same as the credentials file
	if err := os.WriteFile(s.sessionPath(), data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (s *Service) readSession() (*Session, error) {
	data, err := os.ReadFile(s.sessionPath())
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}

// HashPassword derives a salted PBKDF2 hash encoded as salt:hash in base64.
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
	return base64.StdEncoding.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(key), nil
}

// VerifyPassword checks a password against a stored salt:hash value.
func VerifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}
