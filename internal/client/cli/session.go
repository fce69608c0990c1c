package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
	"github.com/dmitrijs2005/erpdesk/internal/client/services"
	"github.com/dmitrijs2005/erpdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and opens a session. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, userName, password); err != nil {
		return err
	}

	a.println("Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

// Refresh renews the token on demand. A refused refresh ends the session.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	err := a.session.Refresh(ctx)
	var expired *services.SessionExpiredError
	if errors.As(err, &expired) {
		if lerr := a.session.Logout(ctx); lerr != nil {
			a.log.Error(ctx, "forced logout failed", "error", lerr)
		}
		a.println("Your session has expired, please log in again.")
		return nil
	}
	if err != nil {
		return err
	}

	if exp, ok := a.session.ExpiresAt(ctx); ok {
		a.printf("Token refreshed, valid until %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	claims, err := a.session.Claims(ctx)
	if err != nil {
		return err
	}

	a.printf("User:      %s (id %s)\n", claims.UserName, claims.UserID)
	a.printf("Employee:  %s\n", claims.EmployeeID)
	a.printf("Role:      %s\n", claims.Role)
	if exp, ok := a.session.ExpiresAt(ctx); ok {
		a.printf("Expires:   %s\n", exp.Local().Format(time.DateTime))
	}
	a.printf("Modules:   %s\n", strings.Join(claims.PerModule, ", "))
	a.printf("Menus:     %s\n", strings.Join(claims.PerMenu, ", "))
	a.printf("APIs:      %s\n", strings.Join(claims.PerAPI, ", "))
	return nil
}

// Can answers a permission question: "can <kind> <permission>" or
// "can <permission>" for the api set.
func (a *App) Can(ctx context.Context, args []string) error {
	var kindArg, perm string
	switch len(args) {
	case 1:
		perm = args[0]
	case 2:
		kindArg, perm = args[0], args[1]
	default:
		a.println("Usage: can [module|menu|api] <permission>")
		return nil
	}

	kind, err := models.ParsePermissionKind(kindArg)
	if err != nil {
		return err
	}

	if a.session.HasPermission(ctx, perm, kind) {
		a.printf("yes: %s %q granted\n", kind, perm)
	} else {
		a.printf("no: %s %q not granted\n", kind, perm)
	}
	return nil
}

// Module prints the active module and the ones the token grants, or
// switches to the named one.
func (a *App) Module(ctx context.Context, args []string) error {
	if len(args) == 0 {
		current := a.modules.Current(ctx)
		a.printf("Active module: %s\n", current)
		for _, m := range models.Modules {
			mark := " "
			if m == current {
				mark = "*"
			}
			if a.session.HasPermission(ctx, string(m), models.PermissionModule) {
				a.printf(" %s %s\n", mark, m)
			}
		}
		return nil
	}

	if err := a.modules.Switch(ctx, models.Module(args[0])); err != nil {
		return err
	}
	a.printf("Switched to %s\n", a.modules.Current(ctx))
	return nil
}
