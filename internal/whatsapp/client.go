package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
)

// Client talks to the WhatsApp Cloud API. All operations are best-effort
// boundary I/O: callers log returned errors and move on. A client built
// from an unconfigured WhatsAppConfig degrades to logging only.
type Client struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds the outbound messaging client.
func NewClient(cfg config.WhatsAppConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"preview_url": false,
			"body":        body,
		},
	}
	return c.post(ctx, payload)
}

// SendReaction reacts to a message with an emoji.
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "reaction",
		"reaction": map[string]any{
			"message_id": messageID,
			"emoji":      emoji,
		},
	}
	return c.post(ctx, payload)
}

// MarkAsRead acknowledges an inbound message.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	return c.post(ctx, payload)
}

// DownloadMedia resolves a media id to its download URL and fetches the
// content.
func (c *Client) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	if !c.cfg.Enabled() {
		return nil, fmt.Errorf("whatsapp client not configured")
	}

	metaURL := fmt.Sprintf("%s/%s/%s", c.cfg.APIBaseURL, c.cfg.Version, mediaID)
	meta, err := c.get(ctx, metaURL)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(meta, &parsed); err != nil {
		return nil, err
	}
	if parsed.URL == "" {
		return nil, fmt.Errorf("media %s has no download url", mediaID)
	}
	return c.get(ctx, parsed.URL)
}

func (c *Client) post(ctx context.Context, payload any) error {
	if !c.cfg.Enabled() {
		c.logger.Debug("whatsapp delivery skipped, client not configured")
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.MessagesURL(), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("whatsapp api status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
