package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownModule = errors.New("unknown module")

// Module is a top-level ERP area. Its name doubles as the permission checked
// against the token's perModule set.
type Module string

const (
	ModuleHR          Module = "HR"
	ModuleFinance     Module = "Finance"
	ModuleCRM         Module = "CRM"
	ModuleInventory   Module = "Inventory"
	ModuleProcurement Module = "Procurement"
	ModuleCore        Module = "Core"
)

var Modules = []Module{ModuleHR, ModuleFinance, ModuleCRM, ModuleInventory, ModuleProcurement, ModuleCore}

// DefaultModule is active until the user switches away from it.
const DefaultModule = ModuleCore

func ParseModule(s string) (Module, error) {
	s = strings.TrimSpace(s)
	for _, m := range Modules {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModule, s)
}
