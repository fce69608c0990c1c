package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

const maxResponseBytes = 1 << 20

// HTTPClient talks to the Authentication Service over HTTP/JSON. Its cookie
// jar holds the refresh cookie set by the service on Login, the way a
// browser keeps an HTTP-only cookie.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (models.AuthTokens, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: string(password)})
	if err != nil {
		return models.AuthTokens{}, err
	}
	return c.post(ctx, "/Login", body)
}

func (c *HTTPClient) RefreshToken(ctx context.Context) (models.AuthTokens, error) {
	return c.post(ctx, "/RefreshToken", nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte) (models.AuthTokens, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return models.AuthTokens{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.AuthTokens{}, mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.AuthTokens{}, mapTransportError(err)
	}

	return decodeResponse(resp.StatusCode, raw)
}

// decodeResponse turns a status code and body into tokens or a classified
// error: 5xx is ErrUnavailable, 4xx or success=false is *AuthenticationError.
func decodeResponse(status int, raw []byte) (models.AuthTokens, error) {
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status >= http.StatusInternalServerError {
		return models.AuthTokens{}, fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}

	if status >= http.StatusBadRequest {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(status)
		}
		return models.AuthTokens{}, &AuthenticationError{Message: msg, StatusCode: status, TraceID: env.TraceID}
	}

	if decodeErr != nil {
		return models.AuthTokens{}, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	if !env.Success {
		return models.AuthTokens{}, &AuthenticationError{Message: env.Message, StatusCode: env.StatusCode, TraceID: env.TraceID}
	}

	if env.Data == nil || env.Data.AccessToken == "" {
		return models.AuthTokens{}, fmt.Errorf("%w: no access token", ErrMalformedResponse)
	}

	exp, err := parseExpiry(env.Data.ExpiresDate)
	if err != nil {
		return models.AuthTokens{}, err
	}

	return models.AuthTokens{AccessToken: env.Data.AccessToken, ExpiresAt: exp}, nil
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
