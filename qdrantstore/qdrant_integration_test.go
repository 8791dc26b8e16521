package qdrantstore

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/brightwave/imagegen/semanticcache"
)

const testVectorSize = 8

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.11.0",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	instance, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := instance.Host(ctx)
	if err != nil {
		_ = instance.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := instance.MappedPort(ctx, "6334")
	if err != nil {
		_ = instance.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	portStr = mappedPort.Port()

	if err := waitForQdrantReady(host, portStr, 30*time.Second); err != nil {
		_ = instance.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}

	return &QdrantContainer{
		Container: instance,
		Host:      host,
		Port:      portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func(addr net.Listener) {
		if err := addr.Close(); err != nil {
			fmt.Printf("Failed to close listener: %v", err)
		}
	}(addr)

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForQdrantReady attempts to connect to Qdrant until it's ready or times out
func waitForQdrantReady(host, port string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
		}

		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			// Additional wait to ensure the service is fully ready
			time.Sleep(2 * time.Second)
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

// TestMain sets up the testing environment
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func testEntry(topics []string, style string) semanticcache.Entry {
	return semanticcache.Entry{
		ID:     uuid.NewString(),
		Prompt: "test prompt",
		Tags: semanticcache.Tags{
			Topics:      topics,
			VisualStyle: style,
			SlideType:   "concept",
		},
		ImageRef: "images/" + uuid.NewString() + ".png",
	}
}

func unitVector(axis int) []float32 {
	v := make([]float32, testVectorSize)
	v[axis%testVectorSize] = 1
	return v
}

// TestStoreRoundTrip exercises insert, count, search and hit recording
// against a real Qdrant instance.
func TestStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	t.Logf("Using Qdrant on %s:%s", containerInstance.Host, containerInstance.Port)

	portNum, err := strconv.Atoi(containerInstance.Port)
	require.NoError(t, err)

	cfg := &Config{
		Endpoint:           containerInstance.Host,
		Port:               portNum,
		Collection:         "image_semantic_cache_test",
		VectorSize:         testVectorSize,
		Timeout:            10 * time.Second,
		CheckCompatibility: false,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.EnsureCollection(ctx))
	// Idempotent second call.
	require.NoError(t, client.EnsureCollection(ctx))

	store := NewStore(client)

	t.Run("CountCandidatesEmptyCollection", func(t *testing.T) {
		n, err := store.CountCandidates(ctx, semanticcache.Tags{
			Topics: []string{"nothing"}, VisualStyle: "photo", SlideType: "concept",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	bio := testEntry([]string{"photosynthesis", "biology"}, "minimalist_vector_art")
	geo := testEntry([]string{"erosion", "geology"}, "photo")

	t.Run("InsertAndSearch", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, bio, unitVector(0)))
		require.NoError(t, store.Insert(ctx, geo, unitVector(1)))

		time.Sleep(1 * time.Second) // Allow time for indexing

		matches, err := store.SearchSimilar(ctx, unitVector(0), bio.Tags, 5)
		require.NoError(t, err)
		require.Len(t, matches, 1, "tag filter excludes the geology entry")

		assert.Equal(t, bio.ID, matches[0].Entry.ID)
		assert.Equal(t, bio.ImageRef, matches[0].Entry.ImageRef)
		assert.Greater(t, matches[0].Similarity, 0.99)
	})

	t.Run("CountCandidatesWithOverlap", func(t *testing.T) {
		n, err := store.CountCandidates(ctx, semanticcache.Tags{
			Topics:      []string{"biology", "unrelated"},
			VisualStyle: "minimalist_vector_art",
			SlideType:   "concept",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("TagFilterExcludesMismatchedStyle", func(t *testing.T) {
		matches, err := store.SearchSimilar(ctx, unitVector(0), semanticcache.Tags{
			Topics:      []string{"photosynthesis"},
			VisualStyle: "photo",
			SlideType:   "concept",
		}, 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("RecordHitIncrements", func(t *testing.T) {
		require.NoError(t, store.RecordHit(ctx, bio.ID))
		require.NoError(t, store.RecordHit(ctx, bio.ID))

		matches, err := store.SearchSimilar(ctx, unitVector(0), bio.Tags, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.EqualValues(t, 2, matches[0].Entry.HitCount)
	})

	t.Run("RecordHitUnknownEntry", func(t *testing.T) {
		err := store.RecordHit(ctx, uuid.NewString())
		assert.Error(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, []string{bio.ID, geo.ID}))
		require.NoError(t, store.Delete(ctx, nil))

		time.Sleep(1 * time.Second)

		n, err := store.CountCandidates(ctx, bio.Tags)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}
