package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)

		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Contents, 1) {
			assert.Equal(t, "user", req.Contents[0].Role)
			assert.Equal(t, "salom", req.Contents[0].Parts[0].Text)
		}

		w.Write([]byte(`{
			"candidates":[{"content":{"role":"model","parts":[{"text":"MAHSULOT ID LARI: "},{"text":"[101]"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":4}
		}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient("test-key", srv.URL, "")
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), &CompletionRequest{Messages: UserMessage("salom")})
	require.NoError(t, err)
	assert.Equal(t, "MAHSULOT ID LARI: [101]", resp.Content)
	assert.Equal(t, 12, resp.TokensIn)
	assert.Equal(t, 4, resp.TokensOut)
	assert.Equal(t, "STOP", resp.StopReason)
}

func TestGeminiComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient("k", srv.URL, "gemini-pro")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), &CompletionRequest{Messages: UserMessage("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiComplete_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient("k", srv.URL, "")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), &CompletionRequest{Messages: UserMessage("x")})
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("gemini", "k", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Name())

	c, err = NewClient("OpenAI", "k", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	c, err = NewClient("anthropic", "k", "")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())

	_, err = NewClient("bedrock", "k", "")
	assert.Error(t, err)

	_, err = NewClient("gemini", "", "")
	assert.Error(t, err)
}

func TestGeminiComplete_TransportErrorOmitsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c, err := NewGeminiClient("secret-gemini-key", baseURL, "")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), &CompletionRequest{Messages: UserMessage("salom")})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-gemini-key")
}
