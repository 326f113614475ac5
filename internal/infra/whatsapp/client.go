// Package whatsapp delivers messages through the WhatsApp gateway's HTTP API.
//
// Requests are POSTed as JSON with Basic Auth. Throughput is bounded by a token
// bucket limiter shared by all sends of the client.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reportify_notifier/internal/domain/delivery"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Config configures the gateway client.
type Config struct {
	URL               string
	Username          string
	Password          string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client implements delivery.Channel for WhatsApp.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	logger     *logrus.Entry
}

var _ delivery.Channel = (*Client)(nil)

type sendRequest struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	IsForwarded bool   `json:"is_forwarded"`
}

// NewClient creates a gateway client with rate limiting.
func NewClient(cfg Config, logger *logrus.Entry) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

func (c *Client) Name() delivery.ChannelName { return delivery.ChannelWhatsApp }

// Send delivers msg.Text to phone. All failures are returned as a failed Result.
func (c *Client) Send(ctx context.Context, phone string, msg delivery.Message) delivery.Result {
	if phone == "" {
		return delivery.Failed(delivery.ErrNoRecipient)
	}
	jid := JID(phone)
	if jid == "" {
		return delivery.Failed(fmt.Errorf("%w: %q has no digits", delivery.ErrInvalidRecipient, phone))
	}

	resp, err := c.post(ctx, sendRequest{Phone: jid, Message: msg.Text, IsForwarded: false})
	if err != nil {
		c.logger.WithError(err).WithField("phone", jid).Warn("WhatsApp send failed")
		return delivery.Failed(err)
	}
	c.logger.WithField("phone", jid).Debug("WhatsApp sent")
	return delivery.Delivered(resp)
}

func (c *Client) post(ctx context.Context, payload sendRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(respBody, 200))
	}
	return string(respBody), nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
