package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/erpdesk/internal/client/client"
	"github.com/dmitrijs2005/erpdesk/internal/client/models"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/erpdesk/internal/common"
	"github.com/dmitrijs2005/erpdesk/internal/dbx"
	"github.com/dmitrijs2005/erpdesk/internal/logging"
)

// SessionService owns the access token of the signed-in user.
//
// Contract:
//   - Login: authenticate and store the token with an expiry matching it.
//   - Refresh: exchange the refresh cookie for a new token; a refusal is
//     a *SessionExpiredError.
//   - Logout: forget the token. Idempotent.
//   - IsAuthenticated: a stored, unexpired token is present. This is the
//     only "logged in" predicate; nothing else is stored for it.
//   - HasPermission: membership test on the token claims. Never fails.
//
// A second Login (or Refresh) while one is pending fails with
// ErrLoginInProgress (ErrRefreshInProgress) instead of racing it. A Refresh
// that was already waiting on the server when Login or Logout ran does not
// store its result.
type SessionService interface {
	Login(ctx context.Context, username string, password []byte) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	HasPermission(ctx context.Context, permission string, kind models.PermissionKind) bool

	// Claims decodes the current token. ErrNotAuthenticated when there is
	// none, ErrDecode when it cannot be read.
	Claims(ctx context.Context) (*models.PermissionClaims, error)
	ExpiresAt(ctx context.Context) (time.Time, bool)

	// RefreshIfExpiring refreshes when the token expires within leeway and
	// reports whether it did. A refused refresh logs the user out.
	RefreshIfExpiring(ctx context.Context, leeway time.Duration) (bool, error)

	Close(ctx context.Context) error
}

type sessionService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
	log    logging.Logger
	parser *jwt.Parser

	// mu guards the token rows and gen, which Login and Logout bump.
	mu  sync.Mutex
	gen uint64

	loginBusy   atomic.Bool
	refreshBusy atomic.Bool
}

type SessionOption func(*sessionService)

func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *sessionService) { s.now = now }
}

func WithSessionLogger(l logging.Logger) SessionOption {
	return func(s *sessionService) { s.log = l }
}

// NewSessionService binds the service to the auth transport and the local
// database holding the token rows.
func NewSessionService(c client.Client, db *sql.DB, opts ...SessionOption) SessionService {
	s := &sessionService{
		client: c,
		db:     db,
		now:    time.Now,
		log:    logging.Nop(),
		parser: jwt.NewParser(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *sessionService) repo(db dbx.DBTX) kv.Repository {
	return kv.NewSQLiteRepository(db, kv.WithClock(s.now))
}

func (s *sessionService) Login(ctx context.Context, username string, password []byte) error {
	if !s.loginBusy.CompareAndSwap(false, true) {
		return ErrLoginInProgress
	}
	defer s.loginBusy.Store(false)

	tokens, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.log.Info(ctx, "login failed", "user", username, "error", err)
		return fmt.Errorf("login: %w", err)
	}
	if err := s.checkTokens(tokens); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if err := s.saveTokens(ctx, tokens); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.log.Info(ctx, "login succeeded", "user", username, "expires_at", tokens.ExpiresAt)
	return nil
}

func (s *sessionService) Refresh(ctx context.Context) error {
	if !s.refreshBusy.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	defer s.refreshBusy.Store(false)

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	tokens, err := s.client.RefreshToken(ctx)
	if err != nil {
		// An unreachable service says nothing about the session itself.
		if errors.Is(err, client.ErrUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("refresh: %w", err)
		}
		s.log.Warn(ctx, "refresh refused", "error", err)
		return &SessionExpiredError{Err: err}
	}
	if err := s.checkTokens(tokens); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.log.Info(ctx, "session changed during refresh, discarding token")
		return fmt.Errorf("refresh: %w", ErrNotAuthenticated)
	}
	if err := s.saveTokens(ctx, tokens); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	s.log.Debug(ctx, "token refreshed", "expires_at", tokens.ExpiresAt)
	return nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.ExpiresAtKey)
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Debug(ctx, "logged out")
	return nil
}

func (s *sessionService) IsAuthenticated(ctx context.Context) bool {
	_, ok, err := s.loadTokens(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading session failed", "error", err)
		return false
	}
	return ok
}

func (s *sessionService) HasPermission(ctx context.Context, permission string, kind models.PermissionKind) bool {
	claims, err := s.Claims(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotAuthenticated) {
			s.log.Warn(ctx, "permission check failed", "permission", permission, "kind", kind, "error", err)
		}
		return false
	}
	return claims.Has(permission, kind)
}

func (s *sessionService) Claims(ctx context.Context) (*models.PermissionClaims, error) {
	tokens, ok, err := s.loadTokens(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.decode(tokens.AccessToken)
}

func (s *sessionService) ExpiresAt(ctx context.Context) (time.Time, bool) {
	tokens, ok, err := s.loadTokens(ctx)
	if err != nil || !ok {
		return time.Time{}, false
	}
	return tokens.ExpiresAt, true
}

func (s *sessionService) RefreshIfExpiring(ctx context.Context, leeway time.Duration) (bool, error) {
	exp, ok := s.ExpiresAt(ctx)
	if !ok || s.now().Add(leeway).Before(exp) {
		return false, nil
	}

	err := s.Refresh(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrRefreshInProgress), errors.Is(err, ErrNotAuthenticated):
		return false, nil
	}

	var expired *SessionExpiredError
	if errors.As(err, &expired) {
		if lerr := s.Logout(ctx); lerr != nil {
			s.log.Error(ctx, "forced logout failed", "error", lerr)
		}
	}
	return false, err
}

func (s *sessionService) Close(ctx context.Context) error {
	return s.client.Close()
}

// decode reads the token payload without verifying the signature; the
// client does not hold the signing key.
func (s *sessionService) decode(token string) (*models.PermissionClaims, error) {
	claims := &models.PermissionClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return claims, nil
}

// checkTokens rejects a response that could not establish a session.
func (s *sessionService) checkTokens(t models.AuthTokens) error {
	if t.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", client.ErrMalformedResponse)
	}
	if !t.Valid(s.now()) {
		return fmt.Errorf("%w: token already expired at %s", client.ErrMalformedResponse, t.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

// saveTokens writes both token rows in one transaction, each expiring with
// the token itself. Callers hold mu.
func (s *sessionService) saveTokens(ctx context.Context, t models.AuthTokens) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(t.AccessToken), t.ExpiresAt); err != nil {
			return err
		}
		exp := t.ExpiresAt.UTC().Format(time.RFC3339Nano)
		return repo.Set(ctx, common.ExpiresAtKey, []byte(exp), t.ExpiresAt)
	})
}

// loadTokens returns ok=false unless both rows are present, readable and
// unexpired at this instant. Both rows are read in one transaction so a
// token is never paired with another token's expiry.
func (s *sessionService) loadTokens(ctx context.Context) (models.AuthTokens, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token, rawExp []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		var err error
		if token, err = repo.Get(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		rawExp, err = repo.Get(ctx, common.ExpiresAtKey)
		return err
	})
	if err != nil {
		return models.AuthTokens{}, false, err
	}
	if len(token) == 0 || len(rawExp) == 0 {
		return models.AuthTokens{}, false, nil
	}

	exp, err := time.Parse(time.RFC3339Nano, string(rawExp))
	if err != nil {
		s.log.Warn(ctx, "stored expiry is unreadable", "value", string(rawExp))
		return models.AuthTokens{}, false, nil
	}

	tokens := models.AuthTokens{AccessToken: string(token), ExpiresAt: exp}
	return tokens, tokens.Valid(s.now()), nil
}
