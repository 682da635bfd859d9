package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const postmarkURL = "https://api.postmarkapp.com/email"

// Client sends transactional email through Postmark.
type Client struct {
	serverToken string
	fromEmail   string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendMagicLink delivers the sign-in link. Transient delivery failures are
// retried with fibonacci backoff; the link stays valid either way.
func (c *Client) SendMagicLink(ctx context.Context, toEmail, verifyURL string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	textBody := fmt.Sprintf("Click the link below to sign in:\n\n%s\n\nThis link expires in 15 minutes.", verifyURL)
	htmlBody := fmt.Sprintf(
		`<p>Click the link below to sign in:</p><p><a href="%s">Sign in to Absurd Industries</a></p><p>This link expires in 15 minutes.</p>`,
		verifyURL,
	)

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Sign in to Absurd Industries",
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postmarkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("send email: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("postmark API error: status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}
	return nil
}
