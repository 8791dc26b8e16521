package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string, dims int) *Config {
	return &Config{
		Endpoint:     endpoint,
		ServiceToken: "token",
		Model:        "test-model",
		Dimensions:   dims,
		HTTPTimeoutS: 5,
	}
}

func embeddingResponse(vecs ...[]float32) map[string]any {
	data := make([]map[string]any, len(vecs))
	for i, v := range vecs {
		data[i] = map[string]any{"embedding": v}
	}
	return map[string]any{"data": data}
}

func TestClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])
		assert.Equal(t, []any{"hello"}, body["input"])

		json.NewEncoder(w).Encode(embeddingResponse([]float32{0.1, 0.2, 0.3}))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL, 3))
	require.NoError(t, err)

	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestClientEmbedDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse([]float32{0.1, 0.2}))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL, 3))
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "dimensions")
}

func TestClientEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["input"], 2)

		json.NewEncoder(w).Encode(embeddingResponse([]float32{1}, []float32{2}))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL, 1))
	require.NoError(t, err)

	vecs, err := client.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
}

func TestClientEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL, 3))
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig("", 3)
	assert.Error(t, cfg.Validate())

	cfg = testConfig("http://localhost", 3)
	cfg.ServiceToken = ""
	assert.Error(t, cfg.Validate())

	cfg = testConfig("http://localhost", 3)
	assert.NoError(t, cfg.Validate())
}
