// internal/client/client.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/anmicius0/testrail-client-go/internal/config"
	"github.com/anmicius0/testrail-client-go/internal/session"
)

// Record is one decoded element of a list-valued API response. Records are
// produced fresh per request and never cached.
type Record map[string]any

// Requester is the transport capability the client depends on. It is
// satisfied by *session.Session and by fakes in tests.
type Requester interface {
	Request(ctx context.Context, method, path string, params url.Values) ([]json.RawMessage, error)
}

// Resource paths. Each resource method issues a single GET against one of
// these, with at most one query parameter.
const (
	pathGetProjects   = "get_projects"
	pathGetUsers      = "get_users"
	pathGetStatuses   = "get_statuses"
	pathGetMilestones = "get_milestones"
)

// Client is the API surface. It resolves credentials once at construction,
// opens the session, and forwards resource calls through it.
type Client struct {
	session Requester
	logger  zerolog.Logger
}

// New resolves credentials (explicit options, then environment, then config
// file) and opens an authenticated session. A *config.LoginError from the
// resolver passes through unchanged.
func New(logger zerolog.Logger, opts ...config.Option) (*Client, error) {
	creds, err := config.Resolve(opts...)
	if err != nil {
		return nil, err
	}

	s, err := session.New(creds, logger)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	logger.Info().Str("url", creds.URL).Msg("Initialized API client")
	return &Client{session: s, logger: logger}, nil
}

// NewWithRequester wires a custom transport, bypassing credential
// resolution and the session entirely.
func NewWithRequester(r Requester, logger zerolog.Logger) (*Client, error) {
	if r == nil {
		return nil, fmt.Errorf("requester is required")
	}
	return &Client{session: r, logger: logger}, nil
}

// Projects yields the projects visible to the authenticated user. A non-nil
// isCompleted restricts the listing to completed (true) or active (false)
// projects; nil sends no parameter at all.
func (c *Client) Projects(ctx context.Context, isCompleted *bool) (iter.Seq[Record], error) {
	var params url.Values
	if isCompleted != nil {
		params = url.Values{"is_completed": []string{boolParam(*isCompleted)}}
	}
	return c.get(ctx, pathGetProjects, params)
}

// Users yields all users on the server.
func (c *Client) Users(ctx context.Context) (iter.Seq[Record], error) {
	return c.get(ctx, pathGetUsers, nil)
}

// Statuses yields the available test statuses.
func (c *Client) Statuses(ctx context.Context) (iter.Seq[Record], error) {
	return c.get(ctx, pathGetStatuses, nil)
}

// Milestones yields the milestones of a project, optionally filtered by
// completion state.
func (c *Client) Milestones(ctx context.Context, projectID int, isCompleted *bool) (iter.Seq[Record], error) {
	var params url.Values
	if isCompleted != nil {
		params = url.Values{"is_completed": []string{boolParam(*isCompleted)}}
	}
	return c.get(ctx, fmt.Sprintf("%s/%d", pathGetMilestones, projectID), params)
}

// get performs the round trip eagerly and returns a sequence that decodes
// each element on demand. The sequence is single-use: a second range yields
// nothing, like the consumed response it wraps. A malformed element
// terminates the sequence.
func (c *Client) get(ctx context.Context, apiPath string, params url.Values) (iter.Seq[Record], error) {
	raw, err := c.session.Request(ctx, http.MethodGet, apiPath, params)
	if err != nil {
		return nil, err
	}

	spent := false
	return func(yield func(Record) bool) {
		if spent {
			return
		}
		spent = true
		for i, elem := range raw {
			var rec Record
			if err := json.Unmarshal(elem, &rec); err != nil {
				c.logger.Error().Err(err).Str("path", apiPath).Int("index", i).Msg("undecodable response element")
				return
			}
			if !yield(rec) {
				return
			}
		}
	}, nil
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
