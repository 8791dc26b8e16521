package blob

import (
	"fmt"
	"os"
	"strconv"
)

// Config defines the connection settings for the image blob store.
type Config struct {
	Endpoint        string // MinIO server endpoint, e.g. "localhost:9000"
	AccessKeyID     string // MinIO access key
	SecretAccessKey string // MinIO secret key
	UseSSL          bool   // Use SSL (true for "https", false for "http")
	BucketName      string // Bucket holding generated images
	Region          string // Region for the bucket (e.g. "us-east-1")

	// PublicBaseURL, when set, is used to build the image references stored
	// in the cache and returned to clients (e.g. a CDN in front of the
	// bucket). Falls back to the endpoint itself.
	PublicBaseURL string
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "generated-images"
	}

	useSSL := false
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			useSSL = b
		}
	}

	return &Config{
		Endpoint:        os.Getenv("MINIO_ENDPOINT"),
		AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:          useSSL,
		BucketName:      bucket,
		Region:          os.Getenv("MINIO_REGION"),
		PublicBaseURL:   os.Getenv("MINIO_PUBLIC_BASE_URL"),
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("blob: missing MINIO_ENDPOINT")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("blob: missing MINIO_ACCESS_KEY or MINIO_SECRET_KEY")
	}
	if c.BucketName == "" {
		return fmt.Errorf("blob: bucket name is empty")
	}
	return nil
}
