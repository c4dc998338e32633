package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-jobscout-automation/internal/store"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.airtable.com/v0"

type Config struct {
	APIKey    string
	BaseID    string
	RunsTable string
	// BaseURL overrides the API root, mostly for tests.
	BaseURL string
	// RequestsPerSecond caps outgoing calls. Airtable allows five per base.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client writes records through the Airtable REST API.
type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		cfg:     cfg,
		hc:      hc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// APIError carries the status and body of a rejected call.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable status %d: %s", e.Status, e.Body)
}

type createRequest struct {
	Records []recordFields `json:"records"`
}

type recordFields struct {
	Fields store.Record `json:"fields"`
}

func (c *Client) CreateRecords(ctx context.Context, table string, records []store.Record) error {
	return c.create(ctx, table, records)
}

func (c *Client) CreateRunRecord(ctx context.Context, record store.Record) error {
	if c.cfg.RunsTable == "" {
		return fmt.Errorf("airtable: runs table is not configured")
	}
	return c.create(ctx, c.cfg.RunsTable, []store.Record{record})
}

func (c *Client) create(ctx context.Context, table string, records []store.Record) error {
	payload := createRequest{Records: make([]recordFields, len(records))}
	for i, r := range records {
		payload.Records[i] = recordFields{Fields: r}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("airtable encode: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(c.cfg.BaseID) + "/" + url.PathEscape(table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("airtable post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		diag, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(diag))}
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
