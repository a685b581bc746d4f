package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas-lab/pkg/logger"
)

func TestHFClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/microsoft/resnet-50", r.URL.Path)
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, body)
		_, _ = w.Write([]byte(`[{"label":"comic book","score":0.61},{"label":"wig","score":0.1}]`))
	}))
	defer srv.Close()

	c := NewHFClient(HFConfig{Token: "hf-token", BaseURL: srv.URL, Timeout: time.Second}, logger.NewNop())
	preds, err := c.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "image/jpeg")

	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "comic book", preds[0].Label)
	assert.InDelta(t, 0.61, preds[0].Score, 0.0001)
}

func TestHFClassifyUpstreamError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is loading"}`))
	}))
	defer srv.Close()

	c := NewHFClient(HFConfig{Token: "t", BaseURL: srv.URL}, logger.NewNop())
	_, err := c.Classify(context.Background(), []byte("x"), "image/png")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestHFClassifyNotConfigured(t *testing.T) {
	c := NewHFClient(HFConfig{}, logger.NewNop())
	_, err := c.Classify(context.Background(), []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
