package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/erpdesk/internal/common"
	"github.com/dmitrijs2005/erpdesk/internal/logging"
)

// PermissionChecker is the part of SessionService a module switch needs.
type PermissionChecker interface {
	HasPermission(ctx context.Context, permission string, kind models.PermissionKind) bool
}

// ModuleService holds the ERP module the user is working in. The choice is
// kept in local storage and survives restarts.
type ModuleService interface {
	Current(ctx context.Context) models.Module
	// Switch makes m active. The token must grant m in its module set.
	Switch(ctx context.Context, m models.Module) error
}

type moduleService struct {
	mu      sync.Mutex
	loaded  bool
	current models.Module

	store kv.Repository
	perms PermissionChecker
	log   logging.Logger
}

func NewModuleService(store kv.Repository, perms PermissionChecker, log logging.Logger) ModuleService {
	if log == nil {
		log = logging.Nop()
	}
	return &moduleService{store: store, perms: perms, log: log, current: models.DefaultModule}
}

// Current reads the persisted choice once; unreadable or unknown values fall
// back to the default module.
func (s *moduleService) Current(ctx context.Context) models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.current
	}

	raw, err := s.store.Get(ctx, common.ActiveModuleKey)
	if err != nil {
		s.log.Warn(ctx, "reading active module failed", "error", err)
		return s.current
	}
	s.loaded = true

	if len(raw) == 0 {
		return s.current
	}
	m, err := models.ParseModule(string(raw))
	if err != nil {
		s.log.Warn(ctx, "stored module ignored", "value", string(raw))
		return s.current
	}
	s.current = m
	return s.current
}

func (s *moduleService) Switch(ctx context.Context, m models.Module) error {
	m, err := models.ParseModule(string(m))
	if err != nil {
		return err
	}
	if !s.perms.HasPermission(ctx, string(m), models.PermissionModule) {
		return fmt.Errorf("%w: %s", ErrModuleForbidden, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, common.ActiveModuleKey, []byte(m), time.Time{}); err != nil {
		return fmt.Errorf("switch module: %w", err)
	}
	s.current = m
	s.loaded = true
	s.log.Info(ctx, "module switched", "module", m)
	return nil
}
