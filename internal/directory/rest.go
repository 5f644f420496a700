package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cardpark/internal/domain"
	"cardpark/internal/observability"
)

// RESTDirectory talks to a hosted PostgREST-style table API, the
// backend shape the original deployment used. Every request is bounded
// by the configured timeout so a hung lookup surfaces as a transient
// error instead of blocking the caller.
type RESTDirectory struct {
	endpoint string
	apiKey   string
	table    string
	client   *http.Client
}

type RESTOption func(*RESTDirectory)

func WithHTTPClient(c *http.Client) RESTOption {
	return func(d *RESTDirectory) { d.client = c }
}

func WithTable(table string) RESTOption {
	return func(d *RESTDirectory) { d.table = table }
}

func NewRESTDirectory(endpoint, apiKey string, timeout time.Duration, opts ...RESTOption) *RESTDirectory {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &RESTDirectory{
		endpoint: endpoint,
		apiKey:   apiKey,
		table:    "access_codes",
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *RESTDirectory) Get(ctx context.Context, code string) (*domain.AccessCode, error) {
	u := fmt.Sprintf("%s/%s?code=eq.%s&limit=1", d.endpoint, d.table, url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	d.setHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		observability.RecordDirectoryOperation(ctx, "rest", "get", "error")
		return nil, fmt.Errorf("directory get: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		observability.RecordDirectoryOperation(ctx, "rest", "get", "error")
		return nil, err
	}
	var rows []domain.AccessCode
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		observability.RecordDirectoryOperation(ctx, "rest", "get", "error")
		return nil, fmt.Errorf("directory get: decode: %w", err)
	}
	if len(rows) == 0 {
		observability.RecordDirectoryOperation(ctx, "rest", "get", "not_found")
		return nil, ErrCodeNotFound
	}
	observability.RecordDirectoryOperation(ctx, "rest", "get", "success")
	return &rows[0], nil
}

func (d *RESTDirectory) Claim(ctx context.Context, code string, p domain.Profile, at time.Time) (*domain.AccessCode, error) {
	// The is_used filter makes the PATCH a compare-and-set: a row that
	// was claimed in the meantime no longer matches and comes back as
	// an empty representation.
	u := fmt.Sprintf("%s/%s?code=eq.%s&is_used=eq.false", d.endpoint, d.table, url.QueryEscape(code))
	body, err := json.Marshal(claimColumns(p, at))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	d.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := d.client.Do(req)
	if err != nil {
		observability.RecordDirectoryOperation(ctx, "rest", "claim", "error")
		return nil, fmt.Errorf("directory claim: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusConflict:
		observability.RecordDirectoryOperation(ctx, "rest", "claim", "duplicate_email")
		return nil, ErrDuplicateEmail
	case http.StatusUnauthorized, http.StatusForbidden:
		observability.RecordDirectoryOperation(ctx, "rest", "claim", "permission_denied")
		return nil, ErrPermissionDenied
	}
	if err := checkStatus(resp); err != nil {
		observability.RecordDirectoryOperation(ctx, "rest", "claim", "error")
		return nil, err
	}
	var rows []domain.AccessCode
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		observability.RecordDirectoryOperation(ctx, "rest", "claim", "error")
		return nil, fmt.Errorf("directory claim: decode: %w", err)
	}
	if len(rows) == 0 {
		// Nothing matched the conditional filter. Distinguish a missing
		// code from a lost race with a plain lookup.
		if _, err := d.Get(ctx, code); err != nil {
			observability.RecordDirectoryOperation(ctx, "rest", "claim", "not_found")
			return nil, ErrCodeNotFound
		}
		observability.RecordDirectoryOperation(ctx, "rest", "claim", "already_claimed")
		return nil, ErrAlreadyClaimed
	}
	observability.RecordDirectoryOperation(ctx, "rest", "claim", "success")
	return &rows[0], nil
}

func (d *RESTDirectory) setHeaders(req *http.Request) {
	if d.apiKey != "" {
		req.Header.Set("apikey", d.apiKey)
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("directory backend status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
}
