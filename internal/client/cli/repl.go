package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/erpdesk/internal/client/guard"
	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a stub.
type execIface interface {
	Check(ctx context.Context, r guard.Route) guard.Decision

	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Can(ctx context.Context, args []string) error
	Module(ctx context.Context, args []string) error

	Candidates(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Stage(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

type command struct {
	route guard.Route
	help  string
	run   func(e execIface, ctx context.Context, args []string) error
}

var (
	sessionRoute  = guard.Route{}
	recruitRoute  = guard.Route{Permission: string(models.ModuleHR), Kind: models.PermissionModule}
	commandOrder  = []string{"login", "logout", "refresh", "whoami", "can", "module", "candidates", "add", "show", "stage", "status", "next", "export"}
	commandsByKey = map[string]command{
		"login":      {guard.Route{Public: true}, "log in", execIface.Login},
		"logout":     {sessionRoute, "log out", execIface.Logout},
		"refresh":    {sessionRoute, "renew the access token", execIface.Refresh},
		"whoami":     {sessionRoute, "show the signed-in user", execIface.WhoAmI},
		"can":        {sessionRoute, "can [module|menu|api] <perm>", execIface.Can},
		"module":     {sessionRoute, "module [name]: show or switch module", execIface.Module},
		"candidates": {recruitRoute, "list candidates", execIface.Candidates},
		"add":        {recruitRoute, "add a candidate", execIface.Add},
		"show":       {recruitRoute, "show <id>", execIface.Show},
		"stage":      {recruitRoute, "stage <id> <stage>", execIface.Stage},
		"status":     {recruitRoute, "status <id> <status>", execIface.Status},
		"next":       {recruitRoute, "next <id>: move to the next stage", execIface.Next},
		"export":     {recruitRoute, "export candidates to storage", execIface.Export},
	}
)

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
// Each command is checked against its route first. Without a session the
// user is sent to login; without the permission the command is refused.
// Errors from handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("erp %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "help":
			printHelp()
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := commandsByKey[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}

		route := cmd.route
		route.Name = name
		switch a.Check(ctx, route) {
		case guard.RedirectToLogin:
			printlnFn("Please log in first.")
			if err := a.Login(ctx, nil); err != nil {
				printlnFn("Error:", userMessage(err))
			}
			continue
		case guard.Forbidden:
			printlnFn(fmt.Sprintf("Access denied: %s requires the %s permission %q", name, route.Kind, route.Permission))
			continue
		}

		if err := cmd.run(a, ctx, args); err != nil {
			printlnFn("Error:", userMessage(err))
		}
	}
}

func printHelp() {
	printlnFn("Available commands:")
	for _, name := range commandOrder {
		printlnFn(fmt.Sprintf("  %-11s %s", name, commandsByKey[name].help))
	}
	printlnFn(fmt.Sprintf("  %-11s %s", "exit", "leave the program"))
}
