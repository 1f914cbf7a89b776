package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client posts donation records to the external donation-ledger service. The
// ledger is the system of record for donation bookkeeping; this service keeps
// nothing locally.
type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type Donation struct {
	Reference    string `json:"reference"`
	CampaignID   string `json:"campaignId"`
	DonorID      string `json:"donorId"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	DonationDate string `json:"donationDate"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Name         string `json:"name,omitempty"`
}

// CreateDonation posts a record with the caller-supplied bearer token. The
// ledger's response body is not consumed beyond the status line.
func (c *Client) CreateDonation(ctx context.Context, bearer string, d Donation) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("ledger: encode donation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/donations", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: create donation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ledger: create donation: %d %s", resp.StatusCode, respBody)
	}
	return nil
}
