package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// envelope is the response wrapper of every Authentication Service endpoint.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       *tokenData      `json:"data"`
	StatusCode int             `json:"statusCode"`
	Errors     json.RawMessage `json:"errors"`
	TraceID    string          `json:"traceId"`
	Timestamp  string          `json:"timestamp"`
}

type tokenData struct {
	AccessToken string `json:"accessToken"`
	ExpiresDate string `json:"expiresDate"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// The service emits ISO-8601 timestamps, sometimes without a zone offset;
// those are read as UTC.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

func parseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: expiresDate %q", ErrMalformedResponse, s)
}
