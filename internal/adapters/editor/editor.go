// Package editor talks to a web editor service for long-form text editing.
// A session is opened with the current text and a submit command template;
// once the author saves, the edited text is retrieved by session token.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "vfaq/internal/platform/errors"
)

// Client issues requests against one editor deployment
type Client struct {
	base string
	hc   *http.Client
}

// New builds a Client for the editor at base
func New(base string, timeout time.Duration) *Client {
	if base == "" {
		panic("editor: base URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// Ping verifies the editor service is reachable. The root page is served by
// every deployment, API-only or not, so anything short of a server error
// counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "editor: build ping request")
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "editor: ping")
	}
	defer res.Body.Close() // nolint:errcheck
	if res.StatusCode >= 500 {
		return perr.Upstreamf("editor: ping returned %d", res.StatusCode)
	}
	return nil
}

type startRequest struct {
	Input       string `json:"input"`
	Command     string `json:"command"`
	Application string `json:"application"`
}

type startResponse struct {
	Token string `json:"token"`
}

// Start opens an editing session seeded with input. Command is the template
// the editor renders into its save action; application names the caller.
// The returned token addresses the session until it expires upstream.
func (c *Client) Start(ctx context.Context, input, command, application string) (string, error) {
	buf, err := json.Marshal(startRequest{Input: input, Command: command, Application: application})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "editor: encode session request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/editor/input", bytes.NewReader(buf))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "editor: build session request")
	}
	req.Header.Set("content-type", "application/json; charset=UTF-8")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "editor: start session")
	}
	defer res.Body.Close() // nolint:errcheck

	if res.StatusCode != http.StatusOK {
		return "", perr.Upstreamf("editor: start session returned %d", res.StatusCode)
	}

	var out startResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "editor: decode session response")
	}
	if out.Token == "" {
		return "", perr.Upstreamf("editor: session response carried no token")
	}
	return out.Token, nil
}

// Retrieve fetches the edited text for token. An unknown or expired token
// comes back as a not-found error.
func (c *Client) Retrieve(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/editor/output?token="+url.QueryEscape(token), nil)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "editor: build retrieve request")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "editor: retrieve session")
	}
	defer res.Body.Close() // nolint:errcheck

	switch res.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return "", perr.Wrap(err, perr.ErrorCodeUpstream, "editor: read session output")
		}
		return string(body), nil
	case http.StatusNotFound:
		return "", perr.NotFoundf("editor: no session output for token")
	default:
		return "", perr.Upstreamf("editor: retrieve session returned %d", res.StatusCode)
	}
}
