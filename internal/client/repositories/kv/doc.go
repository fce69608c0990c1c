// Package kv is the storage primitive of the desk client: a key/value table
// whose rows may carry a medium-native expiry, like a browser cookie.
//
// The same schema backs two media:
//   - the local medium, a SQLite file that survives restarts (tokens, the
//     active module);
//   - the session medium, a named in-memory SQLite database that disappears
//     with the process (the candidate cache).
//
// An expired row is never returned: Get and List treat it as absent and Get
// purges it. Writes are upserts, so concurrent writers from several client
// processes sharing one file follow last-writer-wins.
package kv
