package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/graamkart/graamkart-backend/pkg/config"
)

// ErrDisabled signals that email delivery was not configured.
var ErrDisabled = errors.New("email delivery is not configured")

// Client wraps SendGrid. A nil receiver is a disabled client so email
// stays a best-effort side effect.
type Client struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// New builds a SendGrid client from configuration. Returns nil when no
// API key is configured.
func New(cfg config.SendgridConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	return &Client{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     cfg.DefaultFrom,
		fromName: cfg.FromName,
	}
}

// Enabled reports whether email delivery is available.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Send delivers a plain-text email with a minimal HTML rendering.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if to == "" {
		return errors.New("to address is required")
	}

	from := mail.NewEmail(c.fromName, c.from)
	toEmail := mail.NewEmail("", to)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", body)
	message := mail.NewSingleEmail(from, subject, toEmail, body, htmlContent)

	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
