// Package mailer delivers transactional email through the Brevo HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.brevo.com/v3/smtp/email"

// Mailer is the delivery collaborator consumed by the auth service.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type Client struct {
	apiKey    string
	fromEmail string
	fromName  string

	// APIURL can be pointed at a test server; defaults to the Brevo endpoint.
	APIURL     string
	httpClient *http.Client
}

func NewClient(apiKey, fromEmail, fromName string) *Client {
	return &Client{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		APIURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
}

// Send posts a single HTML email. Any non-2xx response is an error.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(sendEmailReq{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": to}},
		Subject:     subject,
		HtmlContent: html,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}
