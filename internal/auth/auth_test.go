package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/models"
	"trading-diary/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewSQLiteStore(filepath.Join(dir, "auth_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, dir), st, dir
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.Contains(t, hash, ":")

	assert.True(t, VerifyPassword("secret123", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("secret123", "not-a-valid-hash"))

	// Same password hashes differently each time because of the salt
	again, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestSignUpCreatesAccountAndSession(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "Trader@Example.com", "secret123", "Alex")
	require.NoError(t, err)
	assert.Equal(t, "trader@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	// Profile seeded with the default challenge
	profile, err := st.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Challenge)
	assert.Equal(t, models.DefaultRules, profile.CustomRules)

	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "secret123", "")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = svc.SignUp(ctx, "ok@example.com", "short", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "trader@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "trader@example.com", "secret456", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUserExists))
}

func TestSignInAndOut(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	signedUp, err := svc.SignUp(ctx, "trader@example.com", "secret123", "")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut())

	_, err = svc.CurrentUser(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotAuthenticated))

	user, err := svc.SignIn(ctx, "TRADER@example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, signedUp.ID, user.ID)

	_, err = svc.SignIn(ctx, "trader@example.com", "wrongpass")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret123")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestSignOutWithoutSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.SignOut())
	require.NoError(t, svc.SignOut())
}

func TestExpiredSessionRejected(t *testing.T) {
	svc, _, dir := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "trader@example.com", "secret123", "")
	require.NoError(t, err)

	// Backdate the session past its lifetime
	path := filepath.Join(dir, "session.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var session Session
	require.NoError(t, json.Unmarshal(data, &session))
	session.ExpiresAt = time.Now().Add(-time.Hour)
	data, err = json.Marshal(session)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	_, err = svc.CurrentUser(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotAuthenticated))

	// The stale session file is cleaned up
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSessionFilePermissions(t *testing.T) {
	svc, _, dir := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "trader@example.com", "secret123", "")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestOnChangeNotifications(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var events []string
	svc.OnChange(func(user *models.User) {
		if user == nil {
			events = append(events, "signed-out")
		} else {
			events = append(events, "signed-in:"+user.Email)
		}
	})

	_, err := svc.SignUp(ctx, "trader@example.com", "secret123", "")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut())
	_, err = svc.SignIn(ctx, "trader@example.com", "secret123")
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.True(t, strings.HasPrefix(events[0], "signed-in:"))
	assert.Equal(t, "signed-out", events[1])
	assert.Equal(t, "signed-in:trader@example.com", events[2])
}
