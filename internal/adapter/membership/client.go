// Package membership reads memberships from the membership provider's REST API.
package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dunning-dashboard/config"
	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an API client, or Unconfigured when the API key or app id is missing.
func New(cfg config.MembershipConfig, httpClient HTTPClient) ports.MembershipClient {
	if !cfg.Configured() {
		return Unconfigured{}
	}
	return NewClient(cfg, httpClient)
}

// Client implements ports.MembershipClient.
type Client struct {
	baseURL     string
	apiKey      string
	appID       string
	agentUserID string
	httpClient  HTTPClient
}

// NewClient creates a membership API client.
func NewClient(cfg config.MembershipConfig, httpClient HTTPClient) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		appID:       cfg.AppID,
		agentUserID: cfg.AgentUserID,
		httpClient:  httpClient,
	}
}

type listResponse struct {
	Data []membershipJSON `json:"data"`
}

type membershipJSON struct {
	ID                  string `json:"id"`
	Status              string `json:"status"`
	Valid               bool   `json:"valid"`
	LicenseKey          string `json:"license_key"`
	ProductID           string `json:"product_id"`
	PaymentsFailedCount int    `json:"payments_failed_count"`
	CreatedAt           int64  `json:"created_at"`
	User                struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Plan struct {
		ID           string `json:"id"`
		InitialPrice int64  `json:"initial_price"`
	} `json:"plan"`
}

func (m membershipJSON) toDomain() domain.Membership {
	return domain.Membership{
		ID:                  m.ID,
		Status:              m.Status,
		Valid:               m.Valid,
		LicenseKey:          m.LicenseKey,
		UserID:              m.User.ID,
		UserEmail:           m.User.Email,
		PlanID:              m.Plan.ID,
		ProductID:           m.ProductID,
		InitialPrice:        m.Plan.InitialPrice,
		PaymentsFailedCount: m.PaymentsFailedCount,
		CreatedAt:           m.CreatedAt,
	}
}

// ListMemberships fetches one page of a company's memberships.
func (c *Client) ListMemberships(ctx context.Context, q domain.MembershipQuery) ([]domain.Membership, error) {
	params := url.Values{}
	params.Set("company_id", q.CompanyID)
	params.Set("first", strconv.Itoa(q.First))
	params.Set("order", q.Order)
	params.Set("direction", q.Direction)
	if q.MembershipStatus != "" {
		params.Set("membership_status", q.MembershipStatus)
	}
	for _, action := range q.MostRecentActions {
		params.Add("most_recent_actions[]", action)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/company/memberships?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build membership request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-App-Id", c.appID)
	if c.agentUserID != "" {
		req.Header.Set("X-On-Behalf-Of", c.agentUserID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("list memberships: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode memberships: %w", err)
	}

	memberships := make([]domain.Membership, 0, len(out.Data))
	for _, m := range out.Data {
		memberships = append(memberships, m.toDomain())
	}
	return memberships, nil
}

// Unconfigured fails every call with ports.ErrMembershipNotConfigured.
type Unconfigured struct{}

func (Unconfigured) ListMemberships(context.Context, domain.MembershipQuery) ([]domain.Membership, error) {
	return nil, ports.ErrMembershipNotConfigured
}
