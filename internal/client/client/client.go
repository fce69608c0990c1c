package client

import (
	"context"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

// Client is the transport to the Authentication Service.
type Client interface {
	Login(ctx context.Context, username string, password []byte) (models.AuthTokens, error)
	// RefreshToken relies on the refresh credential the service left with
	// the client on Login; it sends no body.
	RefreshToken(ctx context.Context) (models.AuthTokens, error)
	Close() error
}

// Prober checks whether the backend is reachable.
type Prober interface {
	Ping(ctx context.Context) error
	Close() error
}
