// internal/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/anmicius0/testrail-client-go/internal/config"
)

// Session is the authenticated transport owned by the API client. It binds a
// resty client to the resolved base URL and basic-auth credentials once;
// nothing is mutated after construction.
type Session struct {
	baseURL string
	logger  zerolog.Logger
	http    *resty.Client
}

// New opens a session for the given credentials. The secret (API key or
// password) becomes the basic-auth password.
func New(creds *config.Credentials, logger zerolog.Logger) (*Session, error) {
	if creds == nil {
		return nil, fmt.Errorf("credentials are required")
	}

	baseURL := strings.TrimSuffix(creds.URL, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if u.Path != "" {
		u.Path = path.Clean(u.Path)
	}
	baseURL = strings.TrimRight(u.String(), "/") + "/"

	r := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(creds.Username, creds.Secret).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	// Resty hooks for logging
	r.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Str("query", req.QueryParam.Encode()).
			Msg("Executing request")
		return nil
	})
	r.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Int("status", resp.StatusCode()).
			Str("url", resp.Request.URL).
			Str("method", resp.Request.Method).
			Msg("Request completed")
		return nil
	})

	s := &Session{
		baseURL: baseURL,
		logger:  logger,
		http:    r,
	}
	logger.Info().Str("baseURL", baseURL).Str("username", creds.Username).Msg("Opened API session")
	return s, nil
}

// BaseURL returns the normalized server URL the session is bound to.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Request performs one blocking round trip and returns the elements of the
// JSON array response body, undecoded. Transport failures and non-2xx
// responses surface as errors; there is no retry, caching, or pagination at
// this layer.
func (s *Session) Request(ctx context.Context, method, apiPath string, params url.Values) ([]json.RawMessage, error) {
	req := s.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Execute(method, apiPath)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		s.logger.Error().
			Str("path", apiPath).
			Int("status", resp.StatusCode()).
			Str("statusText", resp.Status()).
			Str("rawBodySnippet", strings.TrimSpace(resp.String())).
			Msg("API request returned an error status")
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(resp.String()),
		}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &elems); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return elems, nil
}
