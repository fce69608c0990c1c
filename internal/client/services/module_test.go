package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/erpdesk/internal/common"
	"github.com/dmitrijs2005/erpdesk/internal/logging"
)

type fakePerms map[string]bool

func (f fakePerms) HasPermission(_ context.Context, permission string, kind models.PermissionKind) bool {
	return kind == models.PermissionModule && f[permission]
}

func TestModule_DefaultsToCore(t *testing.T) {
	store := kv.NewSQLiteRepository(setupDB(t))
	svc := NewModuleService(store, fakePerms{}, nil)

	require.Equal(t, models.ModuleCore, svc.Current(context.Background()))
}

func TestModule_RestoresPersistedChoice(t *testing.T) {
	ctx := context.Background()
	store := kv.NewSQLiteRepository(setupDB(t))
	require.NoError(t, store.Set(ctx, common.ActiveModuleKey, []byte("finance"), time.Time{}))

	svc := NewModuleService(store, fakePerms{}, logging.Nop())
	require.Equal(t, models.ModuleFinance, svc.Current(ctx))
}

func TestModule_UnknownPersistedValueFallsBack(t *testing.T) {
	ctx := context.Background()
	store := kv.NewSQLiteRepository(setupDB(t))
	require.NoError(t, store.Set(ctx, common.ActiveModuleKey, []byte("Payroll"), time.Time{}))

	svc := NewModuleService(store, fakePerms{}, nil)
	require.Equal(t, models.DefaultModule, svc.Current(ctx))
}

func TestModule_SwitchPersists(t *testing.T) {
	ctx := context.Background()
	store := kv.NewSQLiteRepository(setupDB(t))
	perms := fakePerms{"HR": true}

	svc := NewModuleService(store, perms, nil)
	require.NoError(t, svc.Switch(ctx, "hr"))
	require.Equal(t, models.ModuleHR, svc.Current(ctx))

	raw, err := store.Get(ctx, common.ActiveModuleKey)
	require.NoError(t, err)
	require.Equal(t, "HR", string(raw))

	again := NewModuleService(store, perms, nil)
	require.Equal(t, models.ModuleHR, again.Current(ctx))
}

func TestModule_SwitchRejected(t *testing.T) {
	ctx := context.Background()
	store := kv.NewSQLiteRepository(setupDB(t))
	svc := NewModuleService(store, fakePerms{"HR": true}, nil)

	require.ErrorIs(t, svc.Switch(ctx, "Payroll"), models.ErrUnknownModule)
	require.ErrorIs(t, svc.Switch(ctx, models.ModuleFinance), ErrModuleForbidden)
	require.Equal(t, models.ModuleCore, svc.Current(ctx))
}
