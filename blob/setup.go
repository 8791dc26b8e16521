package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Logger defines the logging surface the blob store needs. Any compatible
// logger implementation can be injected.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Client stores generated images in a MinIO (S3-compatible) bucket and
// hands out stable references for the cache and API responses.
type Client struct {
	api *minio.Client
	cfg *Config
	log Logger
}

// NewClient creates and validates a new blob store client. It establishes
// the connection and verifies credentials by listing buckets.
func NewClient(cfg *Config, log Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("Connecting to MinIO", nil, map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"region":   cfg.Region,
		"secure":   cfg.UseSSL,
		"bucket":   cfg.BucketName,
	})

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: failed to create minio client: %w", err)
	}

	c := &Client{api: api, cfg: cfg, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := api.ListBuckets(ctx); err != nil {
		log.Error("failed to validate minio connection", err, map[string]interface{}{
			"endpoint": cfg.Endpoint,
		})
		return nil, fmt.Errorf("blob: connection validation failed: %w", err)
	}

	return c, nil
}

// EnsureBucket creates the configured bucket if it does not exist.
// Safe to call multiple times.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("blob: failed to check bucket %q: %w", c.cfg.BucketName, err)
	}
	if exists {
		return nil
	}

	c.log.Info("Bucket does not exist, creating it", nil, map[string]interface{}{
		"bucket": c.cfg.BucketName,
		"region": c.cfg.Region,
	})

	if err := c.api.MakeBucket(ctx, c.cfg.BucketName, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
		return fmt.Errorf("blob: failed to create bucket %q: %w", c.cfg.BucketName, err)
	}
	return nil
}

// Put uploads an image under the given key and returns its reference.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob: object key is empty")
	}

	_, err := c.api.PutObject(ctx, c.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("blob: upload of %q failed: %w", key, err)
	}

	c.log.Debug("image uploaded", nil, map[string]interface{}{
		"bucket": c.cfg.BucketName,
		"key":    key,
		"bytes":  len(data),
	})
	return c.URL(key), nil
}

// Get downloads an object by key.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("blob: get %q failed: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("blob: read %q failed: %w", key, err)
	}
	return data, nil
}

// Delete removes an object by key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.api.RemoveObject(ctx, c.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("blob: delete %q failed: %w", key, err)
	}
	return nil
}

// URL builds the public reference for an object key.
func (c *Client) URL(key string) string {
	if c.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", c.cfg.PublicBaseURL, c.cfg.BucketName, key)
	}

	scheme := "http"
	if c.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.cfg.Endpoint, c.cfg.BucketName, key)
}
