// Package guard decides whether a route may be entered. It consults only the
// two session predicates, IsAuthenticated and HasPermission, so there is a
// single source of truth for "logged in".
package guard

import (
	"context"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

// Authorizer is the part of the session a guard needs.
type Authorizer interface {
	IsAuthenticated(ctx context.Context) bool
	HasPermission(ctx context.Context, permission string, kind models.PermissionKind) bool
}

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Route describes a gated destination. A Public route is always allowed. An
// empty Permission only requires a session.
type Route struct {
	Name       string
	Public     bool
	Permission string
	Kind       models.PermissionKind
}

type Guard struct {
	auth Authorizer
}

func New(auth Authorizer) *Guard {
	return &Guard{auth: auth}
}

func (g *Guard) Check(ctx context.Context, r Route) Decision {
	if r.Public {
		return Allow
	}
	if !g.auth.IsAuthenticated(ctx) {
		return RedirectToLogin
	}
	if r.Permission == "" {
		return Allow
	}

	kind := r.Kind
	if kind == "" {
		kind = models.PermissionAPI
	}
	if !g.auth.HasPermission(ctx, r.Permission, kind) {
		return Forbidden
	}
	return Allow
}
