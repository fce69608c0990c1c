// Package client contains the transport-level building blocks of the desk
// client.
//
// # Overview
//
// The package provides:
//  1. The Client contract for the Authentication Service (Login and
//     RefreshToken) and its HTTP/JSON implementation, HTTPClient. The
//     refresh credential travels as an HTTP-only cookie that lives in the
//     client's cookie jar and is never visible to callers.
//  2. A Prober backed by the standard gRPC health service (HealthProber),
//     used by the CLI to show online/offline status.
//  3. Local persistence bootstrap (InitDatabase, OpenSessionDatabase,
//     RunMigrations) wiring SQLite databases and embedded goose migrations.
//
// # Error Handling
//
// Transport failures and 5xx responses are reported as ErrUnavailable.
// Rejections by the service are *AuthenticationError values carrying the
// server's message. Envelopes that cannot be understood are
// ErrMalformedResponse.
package client
