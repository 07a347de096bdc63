// Package leaddesk is the HTTP client for the Lead Desk CRM.
package leaddesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/prospect-desk/internal/config"
	"github.com/ignite/prospect-desk/internal/service/crm"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Client creates leads in Lead Desk. It implements crm.Pusher.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client from configuration. Client credentials take
// precedence over a static API token.
func NewClient(ctx context.Context, cfg config.LeadDeskConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("leaddesk: base_url is required")
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})

	var hc *http.Client
	switch {
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		if cfg.TokenURL == "" {
			return nil, errors.New("leaddesk: token_url is required with client credentials")
		}
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		hc = cc.Client(ctx)
	case cfg.APIToken != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"}))
	default:
		return nil, errors.New("leaddesk: api_token or client credentials are required")
	}
	hc.Timeout = timeout

	return &Client{baseURL: strings.TrimRight(cfg.BaseURL, "/"), httpClient: hc}, nil
}

type createLeadResponse struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PushLead creates the lead and returns the id Lead Desk assigned.
func (c *Client) PushLead(ctx context.Context, lead crm.Lead) (string, error) {
	payload, err := json.Marshal(lead)
	if err != nil {
		return "", fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/leads", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", lead.ExternalID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", crm.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", crm.ErrUpstream, resp.StatusCode, truncate(string(body), 200))
	}

	var out createLeadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", crm.ErrUpstream, err)
	}
	id := out.ID
	if id == "" {
		id = out.Data.ID
	}
	if id == "" {
		return "", fmt.Errorf("%w: response carried no lead id", crm.ErrUpstream)
	}
	return id, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
