package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

type fakeAuth struct {
	authenticated bool
	perms         map[models.PermissionKind][]string

	lastKind models.PermissionKind
}

func (f *fakeAuth) IsAuthenticated(context.Context) bool { return f.authenticated }

func (f *fakeAuth) HasPermission(_ context.Context, permission string, kind models.PermissionKind) bool {
	f.lastKind = kind
	for _, p := range f.perms[kind] {
		if p == permission {
			return true
		}
	}
	return false
}

func TestGuard_Check(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{
		authenticated: true,
		perms: map[models.PermissionKind][]string{
			models.PermissionModule: {"HR"},
			models.PermissionAPI:    {"candidates.write"},
		},
	}
	anon := &fakeAuth{}

	tests := []struct {
		name  string
		auth  *fakeAuth
		route Route
		want  Decision
	}{
		{"public route for anonymous", anon, Route{Name: "login", Public: true}, Allow},
		{"private route for anonymous", anon, Route{Name: "whoami"}, RedirectToLogin},
		{"permission route for anonymous", anon, Route{Name: "hr", Permission: "HR", Kind: models.PermissionModule}, RedirectToLogin},
		{"session only", auth, Route{Name: "whoami"}, Allow},
		{"granted module", auth, Route{Name: "hr", Permission: "HR", Kind: models.PermissionModule}, Allow},
		{"missing module", auth, Route{Name: "finance", Permission: "Finance", Kind: models.PermissionModule}, Forbidden},
		{"default kind is api", auth, Route{Name: "stage", Permission: "candidates.write"}, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, New(tt.auth).Check(ctx, tt.route))
		})
	}
}

func TestGuard_DefaultKindIsAPI(t *testing.T) {
	auth := &fakeAuth{authenticated: true}
	_ = New(auth).Check(context.Background(), Route{Permission: "x"})
	require.Equal(t, models.PermissionAPI, auth.lastKind)
}

func TestDecision_String(t *testing.T) {
	require.Equal(t, "allow", Allow.String())
	require.Equal(t, "redirect-to-login", RedirectToLogin.String())
	require.Equal(t, "forbidden", Forbidden.String())
	require.Equal(t, "unknown", Decision(42).String())
}
