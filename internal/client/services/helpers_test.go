package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/erpdesk/internal/client/client"
	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "desk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func mintToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func hrToken(t *testing.T, exp time.Time) string {
	return mintToken(t, &models.PermissionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "auth.erp.local",
			Audience:  jwt.ClaimStrings{"erp-desk"},
		},
		UserID:     "42",
		UserName:   "E100",
		EmployeeID: "6f1c1f57-2a8c-4d8b-9f8e-0d5c1c3b7a10",
		Role:       "Recruiter",
		PerModule:  jwt.ClaimStrings{"HR", "Core"},
		PerMenu:    jwt.ClaimStrings{"Recruitment"},
		PerAPI:     jwt.ClaimStrings{"candidates.read", "candidates.write"},
	})
}

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	LoginFn   func(ctx context.Context, username string, password []byte) (models.AuthTokens, error)
	RefreshFn func(ctx context.Context) (models.AuthTokens, error)
	CloseErr  error

	LoginCalls   int
	RefreshCalls int
	LastUser     string
	LastPassword []byte
}

func (f *fakeClient) Login(ctx context.Context, username string, password []byte) (models.AuthTokens, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastUser = username
	f.LastPassword = append([]byte(nil), password...)
	fn := f.LoginFn
	f.mu.Unlock()

	if fn == nil {
		return models.AuthTokens{}, nil
	}
	return fn(ctx, username, password)
}

func (f *fakeClient) RefreshToken(ctx context.Context) (models.AuthTokens, error) {
	f.mu.Lock()
	f.RefreshCalls++
	fn := f.RefreshFn
	f.mu.Unlock()

	if fn == nil {
		return models.AuthTokens{}, nil
	}
	return fn(ctx)
}

func (f *fakeClient) Close() error { return f.CloseErr }

func tokensFn(tokens models.AuthTokens) func(context.Context, string, []byte) (models.AuthTokens, error) {
	return func(context.Context, string, []byte) (models.AuthTokens, error) { return tokens, nil }
}
