// Package cli provides the interactive desk client.
//
// It wires configuration, local storage, the Authentication Service client,
// the application services and a REPL standing in for the routed pages.
// Every command except help, login and exit is a guarded route: without a
// session the user is sent to login, without the permission the command is
// refused.
//
// Two background watchers run next to the REPL: one probes the backend
// health endpoint and toggles online/offline mode, the other refreshes the
// access token shortly before it expires.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
