// Package candidates stores the recruitment candidate list as a single JSON
// document in a key/value medium. The desk client keeps it in the session
// database so it is dropped when the process exits.
package candidates
