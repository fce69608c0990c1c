package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidPermissionKind = errors.New("invalid permission kind")

// PermissionKind selects one of the three permission sets of a token.
type PermissionKind string

const (
	PermissionModule PermissionKind = "module"
	PermissionMenu   PermissionKind = "menu"
	PermissionAPI    PermissionKind = "api"
)

// ParsePermissionKind accepts "module", "menu" and "api" in any case. An
// empty string selects the api set.
func ParsePermissionKind(s string) (PermissionKind, error) {
	switch PermissionKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", PermissionAPI:
		return PermissionAPI, nil
	case PermissionModule:
		return PermissionModule, nil
	case PermissionMenu:
		return PermissionMenu, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPermissionKind, s)
	}
}

// PermissionClaims is the payload of the access token issued by the
// Authentication Service. exp, iss and aud come from the registered claims.
//
// The per* sets use jwt.ClaimStrings because the issuer writes a claim with a
// single value as a plain string and one with several values as an array.
type PermissionClaims struct {
	jwt.RegisteredClaims

	UserID     string           `json:"userId"`
	UserName   string           `json:"userName"`
	EmployeeID string           `json:"employeeId"`
	Role       string           `json:"role"`
	PerModule  jwt.ClaimStrings `json:"perModule"`
	PerMenu    jwt.ClaimStrings `json:"perMenu"`
	PerAPI     jwt.ClaimStrings `json:"perApi"`
}

// Permissions returns the set selected by kind; nil for an unknown kind.
func (c *PermissionClaims) Permissions(kind PermissionKind) []string {
	if c == nil {
		return nil
	}
	switch kind {
	case PermissionModule:
		return c.PerModule
	case PermissionMenu:
		return c.PerMenu
	case PermissionAPI:
		return c.PerAPI
	default:
		return nil
	}
}

func (c *PermissionClaims) Has(permission string, kind PermissionKind) bool {
	for _, p := range c.Permissions(kind) {
		if p == permission {
			return true
		}
	}
	return false
}
