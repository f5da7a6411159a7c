// Package sms posts text messages to an HTTP SMS gateway. Like mail, delivery
// is best-effort and never blocks a committed state change.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"clubconnect/internal/config"
	"clubconnect/lib/sl"
)

type Client struct {
	hc     *http.Client
	apiUrl string
	apiKey string
	sender string
	log    *slog.Logger
}

func NewClient(conf *config.Config, logger *slog.Logger) *Client {
	return &Client{
		hc:     &http.Client{Timeout: 10 * time.Second},
		apiUrl: conf.Sms.ApiUrl,
		apiKey: conf.Sms.ApiKey,
		sender: conf.Sms.Sender,
		log:    logger.With(sl.Module("sms")),
	}
}

type sendRequest struct {
	Sender string `json:"sender"`
	To     string `json:"to"`
	Body   string `json:"body"`
}

type sendResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Send(ctx context.Context, to, body string) error {
	if c.apiUrl == "" {
		return fmt.Errorf("sms: gateway not configured")
	}
	log := c.log.With(sl.Secret("to", to))

	data, err := json.Marshal(sendRequest{Sender: c.sender, To: to, Body: body})
	if err != nil {
		return fmt.Errorf("sms marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	t1 := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway status %d: %s", resp.StatusCode, string(raw))
	}

	var result sendResponse
	if err = json.Unmarshal(raw, &result); err == nil && result.Status != "" && result.Status != "ok" {
		return fmt.Errorf("sms gateway rejected: %s", result.Message)
	}

	log.With(
		slog.String("duration", fmt.Sprintf("%.3fms", float64(time.Since(t1))/float64(time.Millisecond))),
	).Debug("sms sent")
	return nil
}
