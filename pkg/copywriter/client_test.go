package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
)

func testConfig(baseURL string) config.CopywriterConfig {
	return config.CopywriterConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "test-model",
		HTTPTimeout: 2 * time.Second,
	}
}

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Sepatu lari ringan untuk harian.  "}}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	require.True(t, client.Enabled())

	copyText, err := client.Generate(context.Background(), "Sepatu lari ringan")
	require.NoError(t, err)
	assert.Equal(t, "Sepatu lari ringan untuk harian.", copyText)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)

	_, err := client.Generate(context.Background(), "anything")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "model overloaded")
}

func TestGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)

	_, err := client.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoCompletion)
}

func TestDisabledWithoutCredentials(t *testing.T) {
	client := NewClient(config.CopywriterConfig{BaseURL: "https://openrouter.ai/api/v1"}, nil)
	assert.False(t, client.Enabled())

	_, err := client.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateEmptyPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)

	_, err := client.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestProductDescriptionRequiresName(t *testing.T) {
	client := NewClient(config.CopywriterConfig{}, nil)
	_, err := client.ProductDescription(context.Background(), "", "Brand", 100)
	require.True(t, errors.Is(err, ErrEmptyPrompt))
}
