package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/logger"
)

// ErrDisabled signals that push delivery was not configured.
var ErrDisabled = errors.New("push messaging is not configured")

// Sender abstracts the FCM messaging API so delivery can be faked in
// tests.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Client wraps FCM messaging. A nil receiver is a disabled client so
// callers can treat push as a best-effort side effect.
type Client struct {
	messaging Sender
	topic     string
}

// NewWithSender builds a client around an explicit sender.
func NewWithSender(sender Sender, topic string) *Client {
	return &Client{messaging: sender, topic: topic}
}

// New builds an FCM client from configuration. Returns (nil, nil) when
// no Firebase project is configured so startup proceeds without push.
func New(ctx context.Context, cfg config.FirebaseConfig, logg *logger.Logger) (*Client, error) {
	if cfg.ProjectID == "" && cfg.CredentialsJSON == "" && cfg.CredentialsFile == "" {
		return nil, nil
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	fbCfg := &firebase.Config{ProjectID: cfg.ProjectID}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	msg, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "fcm client initialized")
	}
	return &Client{messaging: msg, topic: cfg.BroadcastTopic}, nil
}

// Enabled reports whether push delivery is available.
func (c *Client) Enabled() bool {
	return c != nil && c.messaging != nil
}

// BroadcastTopic returns the configured public topic.
func (c *Client) BroadcastTopic() string {
	if c == nil {
		return ""
	}
	return c.topic
}

// SendToToken delivers a notification to a single device token and
// returns the provider message id.
func (c *Client) SendToToken(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if token == "" {
		return "", errors.New("device token is required")
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	id, err := c.messaging.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("fcm send to token: %w", err)
	}
	return id, nil
}

// SendToTopic broadcasts a notification to all topic subscribers and
// returns the provider message id.
func (c *Client) SendToTopic(ctx context.Context, topic, title, body, imageURL string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if topic == "" {
		topic = c.topic
	}
	if topic == "" {
		return "", errors.New("topic is required")
	}
	msg := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title:    title,
			Body:     body,
			ImageURL: imageURL,
		},
	}
	id, err := c.messaging.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("fcm send to topic: %w", err)
	}
	return id, nil
}
