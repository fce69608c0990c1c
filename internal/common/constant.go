// Package common holds the storage keys and small helpers shared by the
// desk client packages.
package common

// Keys of the persisted state (see the kv repositories). The token keys live
// in the local, expiring medium; CandidatesKey lives in the session medium.
const (
	AccessTokenKey  = "accessToken"
	ExpiresAtKey    = "expiresAt"
	ActiveModuleKey = "activeModule"
	CandidatesKey   = "candidates"
)

// DateLayout is the calendar-day format used in candidate history.
const DateLayout = "2006-01-02"
