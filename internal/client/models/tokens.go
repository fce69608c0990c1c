package models

import "time"

// AuthTokens is what a successful Login or RefreshToken call yields.
type AuthTokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the pair can be stored: a token is present and it
// expires after now.
func (t AuthTokens) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt)
}
