package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/logger"
)

const (
	publicBaseURL = "https://storage.googleapis.com"
	pingTimeout   = 5 * time.Second
)

// Client wraps the GCS SDK for asset uploads. A nil receiver is a
// disabled client: every operation reports ErrDisabled so callers can
// degrade gracefully when storage is not configured.
type Client struct {
	raw    *storage.Client
	bucket string
}

// ErrDisabled signals that asset storage was not configured.
var ErrDisabled = errors.New("asset storage is not configured")

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient builds a storage client from configuration. Returns
// (nil, nil) when no bucket is configured so startup can proceed
// without storage.
func NewClient(ctx context.Context, cfg config.GCSConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, nil
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	raw, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	client := &Client{raw: raw, bucket: cfg.BucketName}
	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}
	return client, nil
}

// Enabled reports whether the client can serve uploads.
func (c *Client) Enabled() bool {
	return c != nil && c.raw != nil
}

// Upload writes the object and returns its public URL. The bucket is
// expected to grant allUsers object-viewer access, so no per-object
// ACL is set.
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	objectPath = strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if objectPath == "" {
		return "", errors.New("object path is required")
	}

	w := c.raw.Bucket(c.bucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing object %q: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing object %q: %w", objectPath, err)
	}

	return fmt.Sprintf("%s/%s/%s", publicBaseURL, c.bucket, objectPath), nil
}

// Delete removes the object, treating a missing object as success.
func (c *Client) Delete(ctx context.Context, objectPath string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	objectPath = strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if objectPath == "" {
		return nil
	}
	err := c.raw.Bucket(c.bucket).Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting object %q: %w", objectPath, err)
	}
	return nil
}

// ObjectPathFromURL extracts the object path from a public URL minted
// by Upload. Returns "" when the URL does not belong to our bucket.
func (c *Client) ObjectPathFromURL(publicURL string) string {
	if c == nil {
		return ""
	}
	prefix := fmt.Sprintf("%s/%s/", publicBaseURL, c.bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(publicURL, prefix)
}

// Ping verifies the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := c.raw.Bucket(c.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.raw.Close()
}
