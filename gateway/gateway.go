package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/novendra27/ebook-store-sub000/config"
)

// Client talks to the hosted-invoice payment gateway. The gateway hosts the
// actual payment page; we only create invoices on it and receive the outcome
// later via webhook.
type Client struct {
	cfg  config.GatewayConfig
	http *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// InvoiceItem is one purchasable line on the hosted invoice.
type InvoiceItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// InvoiceRequest is the create-hosted-invoice payload. ExternalID is our
// invoice code; the gateway echoes it back on the webhook.
type InvoiceRequest struct {
	ExternalID string `json:"external_id"`
	Customer   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer"`
	Amount             int64         `json:"amount"`
	Items              []InvoiceItem `json:"items"`
	SuccessRedirectURL string        `json:"success_redirect_url"`
	FailureRedirectURL string        `json:"failure_redirect_url"`
}

type invoiceResponse struct {
	InvoiceURL string `json:"invoice_url"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateInvoice requests a hosted payment page and returns its URL.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.cfg.APIKey, "")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}

	var gw invoiceResponse
	if err := json.Unmarshal(body, &gw); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if gw.Error != nil {
		return "", fmt.Errorf("gateway error: %s", gw.Error.Message)
	}
	if gw.InvoiceURL == "" {
		return "", fmt.Errorf("gateway returned empty invoice URL")
	}
	return gw.InvoiceURL, nil
}
