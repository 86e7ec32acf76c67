package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
)

func testConfig(baseURL string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		Token:         "test-token",
		PhoneNumberID: "12345",
		Version:       "v21.0",
		APIBaseURL:    baseURL,
	}
}

func TestSendText_PayloadAndAuth(t *testing.T) {
	var got map[string]any
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, "/v21.0/12345/messages", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, client.SendText(context.Background(), "15551230000", "hello there"))

	assert.Equal(t, "Bearer test-token", authHeader)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "15551230000", got["to"])
	assert.Equal(t, "text", got["type"])
	text := got["text"].(map[string]any)
	assert.Equal(t, "hello there", text["body"])
}

func TestSendText_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	err := client.SendText(context.Background(), "15551230000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendText_UnconfiguredIsNoop(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{}, zap.NewNop())
	assert.NoError(t, client.SendText(context.Background(), "15551230000", "hello"))
}

func TestMarkAsRead_Payload(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, client.MarkAsRead(context.Background(), "wamid.77"))

	assert.Equal(t, "read", got["status"])
	assert.Equal(t, "wamid.77", got["message_id"])
}

func TestDownloadMedia(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v21.0/media-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"url": server.URL + "/files/media-1"})
	})
	mux.HandleFunc("/files/media-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image bytes"))
	})

	client := NewClient(testConfig(server.URL), zap.NewNop())
	content, err := client.DownloadMedia(context.Background(), "media-1")
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))
}

func TestDownloadMedia_Unconfigured(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{}, zap.NewNop())
	_, err := client.DownloadMedia(context.Background(), "media-1")
	assert.Error(t, err)
}
