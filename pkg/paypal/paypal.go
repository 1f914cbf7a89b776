package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to a PayPal-compatible processor. Access tokens come from the
// client-credentials grant and are cached until expiry; refreshes are
// serialized by the token source, so concurrent requests share one exchange.
type Client struct {
	BaseURL string
	client  *http.Client
	tokens  oauth2.TokenSource
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	if baseURL == "" {
		baseURL = "https://api-m.sandbox.paypal.com"
	}
	hc := &http.Client{
		Timeout:   30 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	grant := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
	return &Client{
		BaseURL: baseURL,
		client:  hc,
		tokens:  grant.TokenSource(ctx),
	}
}

// token returns a valid bearer, hitting the token endpoint only when the
// cached one has expired.
func (c *Client) token() (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return "", &AuthError{StatusCode: rerr.Response.StatusCode, Body: rerr.Body, Err: err}
		}
		return "", &AuthError{Err: err}
	}
	return tok.AccessToken, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: respBody}
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// OrderParams is everything needed for a CAPTURE-intent order with a single
// purchase unit.
type OrderParams struct {
	Amount      Amount
	CustomID    string // campaign identifier, echoed back on the order resource
	ReferenceID string // donor identifier, echoed back on the order resource
	InvoiceID   string
	BrandName   string
	ReturnURL   string
	CancelURL   string
}

func (c *Client) CreateOrder(ctx context.Context, p OrderParams) (*Order, error) {
	payload := orderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			ReferenceID: p.ReferenceID,
			CustomID:    p.CustomID,
			InvoiceID:   p.InvoiceID,
			Amount:      &p.Amount,
		}},
		ApplicationContext: &ApplicationContext{
			BrandName:   p.BrandName,
			LandingPage: "NO_PREFERENCE",
			UserAction:  "PAY_NOW",
			ReturnURL:   p.ReturnURL,
			CancelURL:   p.CancelURL,
		},
	}
	var out Order
	if err := c.do(ctx, "create order", http.MethodPost, "/v2/checkout/orders", payload, &out); err != nil {
		return nil, err
	}
	log.Printf("[PayPal] order created id=%s status=%s", out.ID, out.Status)
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := c.do(ctx, "get order", http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaptureOrder finalizes an approved order. The response is an order resource
// whose nested captures array carries the capture id.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := c.do(ctx, "capture order", http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &out); err != nil {
		return nil, err
	}
	log.Printf("[PayPal] order captured id=%s status=%s", out.ID, out.Status)
	return &out, nil
}

func (c *Client) GetCapture(ctx context.Context, captureID string) (*Capture, error) {
	var out Capture
	if err := c.do(ctx, "get capture", http.MethodGet, "/v2/payments/captures/"+captureID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
