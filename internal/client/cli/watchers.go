package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/erpdesk/internal/client/services"
)

const probeTimeout = 3 * time.Second

// StartOnlineStatusWatcher probes the backend every interval and switches
// the app between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probeOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probeOnce(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := a.prober.Ping(pctx)
	cancel()

	if err != nil {
		a.log.Debug(ctx, "probe failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartTokenRefresher refreshes the access token when it is about to
// expire. A refused refresh ends the session and the user is told to log in
// again.
func (a *App) StartTokenRefresher(ctx context.Context, interval, leeway time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refreshOnce(ctx, leeway)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) refreshOnce(ctx context.Context, leeway time.Duration) {
	refreshed, err := a.session.RefreshIfExpiring(ctx, leeway)
	if err != nil {
		var expired *services.SessionExpiredError
		if errors.As(err, &expired) {
			a.println("Your session has expired, please log in again.")
			return
		}
		a.log.Warn(ctx, "token refresh failed", "error", err)
		return
	}
	if refreshed {
		a.log.Debug(ctx, "token refreshed in background")
	}
}
