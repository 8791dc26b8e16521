package blob

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Endpoint: "localhost:9000", AccessKeyID: "a", SecretAccessKey: "s", BucketName: "b"}
	assert.NoError(t, cfg.Validate())

	cfg.BucketName = ""
	assert.Error(t, cfg.Validate())
}

func TestURL(t *testing.T) {
	c := &Client{cfg: &Config{Endpoint: "localhost:9000", BucketName: "images"}}
	assert.Equal(t, "http://localhost:9000/images/a/b.png", c.URL("a/b.png"))

	c.cfg.UseSSL = true
	assert.Equal(t, "https://localhost:9000/images/a/b.png", c.URL("a/b.png"))

	c.cfg.PublicBaseURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/images/a/b.png", c.URL("a/b.png"))
}

// TestBlobRoundTrip exercises upload, download and delete against a real
// MinIO instance.
func TestBlobRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "minio/minio:RELEASE.2024-08-17T01-24-54Z",
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort(nat.Port("9000/tcp")).WithStartupTimeout(60 * time.Second),
	}

	instance, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() {
		if err := instance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	host, err := instance.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := instance.MappedPort(ctx, "9000")
	require.NoError(t, err)

	cfg := &Config{
		Endpoint:        fmt.Sprintf("%s:%s", host, mappedPort.Port()),
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "generated-images-test",
	}

	client, err := NewClient(cfg, nopLogger{})
	require.NoError(t, err)

	require.NoError(t, client.EnsureBucket(ctx))
	// Idempotent second call.
	require.NoError(t, client.EnsureBucket(ctx))

	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	ref, err := client.Put(ctx, "tests/sample.png", payload, "image/png")
	require.NoError(t, err)
	assert.Contains(t, ref, "generated-images-test/tests/sample.png")

	got, err := client.Get(ctx, "tests/sample.png")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, client.Delete(ctx, "tests/sample.png"))

	_, err = client.Get(ctx, "tests/sample.png")
	assert.Error(t, err)
}
