// Package pgrest is a thin client for a PostgREST-style HTTP data API.
// Tables are addressed as /rest/v1/{table} and rows are filtered with the
// usual query operators (eq., is., order, ...).
package pgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	perr "vfaq/internal/platform/errors"
	"vfaq/internal/platform/logger"
)

const restPrefix = "/rest/v1/"

// bodySnippet caps how much of an upstream error body is carried into errors
const bodySnippet = 512

// Config carries the upstream coordinates. AnonKey identifies the project,
// AuthKey is the service role used for the bearer grant.
type Config struct {
	BaseURL string
	AnonKey string
	AuthKey string
	Timeout time.Duration
}

// Client issues authenticated requests against one PostgREST deployment
type Client struct {
	base    string
	anonKey string
	authKey string
	hc      *http.Client
	log     *zerolog.Logger
}

// New builds a Client. The base URL must not be empty; a trailing slash is
// tolerated and stripped.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		panic("pgrest: BaseURL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		authKey: cfg.AuthKey,
		hc:      &http.Client{Timeout: timeout},
		log:     logger.Named("pgrest"),
	}
}

// Ping verifies the upstream answers authenticated requests. PostgREST serves
// its schema document at the rest root, so a cheap GET there suffices.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "", "", nil)
	if err != nil {
		return err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "pgrest: ping")
	}
	defer res.Body.Close() // nolint:errcheck
	if res.StatusCode >= 400 {
		return perr.Upstreamf("pgrest: ping returned %d", res.StatusCode)
	}
	return nil
}

// Select issues GET /rest/v1/{table}?{query} and decodes the row array into out
func (c *Client) Select(ctx context.Context, table, query string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusOK, out)
}

// SelectSingle issues GET /rest/v1/{table}?{query} with the single-object
// accept header and decodes exactly one row into out. Zero or many matches
// are an upstream rejection.
func (c *Client) SelectSingle(ctx context.Context, table, query string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/vnd.pgrst.object+json")
	return c.do(req, http.StatusOK, out)
}

// InsertSingle POSTs one row and decodes the created row's representation.
// PostgREST acknowledges a representation insert with 201.
func (c *Client) InsertSingle(ctx context.Context, table string, row, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, table, "", row)
	if err != nil {
		return err
	}
	singleObject(req)
	return c.do(req, http.StatusCreated, out)
}

// UpdateSingle PATCHes the rows matching query and decodes the single updated
// representation. The object accept header makes PostgREST reject multi-row
// matches, so a bad filter fails loudly instead of updating quietly.
func (c *Client) UpdateSingle(ctx context.Context, table, query string, patch, out any) error {
	req, err := c.newRequest(ctx, http.MethodPatch, table, query, patch)
	if err != nil {
		return err
	}
	singleObject(req)
	return c.do(req, http.StatusOK, out)
}

// Insert POSTs one row without asking for the representation. The call only
// succeeds on a 201 acknowledgement.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	req, err := c.newRequest(ctx, http.MethodPost, table, "", row)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusCreated, nil)
}

func (c *Client) newRequest(ctx context.Context, method, table, query string, body any) (*http.Request, error) {
	u := c.base + restPrefix + table
	if query != "" {
		u += "?" + query
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "pgrest: encode %s body", table)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "pgrest: build %s %s", method, table)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("authorization", "Bearer "+c.authKey)
	req.Header.Set("content-type", "application/json")
	return req, nil
}

// singleObject asks PostgREST for exactly one object back
func singleObject(req *http.Request) {
	req.Header.Set("prefer", "return=representation")
	req.Header.Set("accept", "application/vnd.pgrst.object+json")
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "pgrest: %s %s", req.Method, req.URL.Path)
	}
	defer res.Body.Close() // nolint:errcheck

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("pgrest call")

	if res.StatusCode != wantStatus {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, bodySnippet))
		return perr.Upstreamf("pgrest: %s %s returned %d (want %d): %s",
			req.Method, req.URL.Path, res.StatusCode, wantStatus, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "pgrest: decode %s %s response", req.Method, req.URL.Path)
	}
	return nil
}

// String implements fmt.Stringer without leaking keys
func (c *Client) String() string {
	return fmt.Sprintf("pgrest(%s)", c.base)
}
