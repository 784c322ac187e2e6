package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

type whisperResponse struct {
	Text *string `json:"text"`
}

// Client posts recordings to a Whisper-compatible HTTP endpoint.
type Client struct {
	http    *resty.Client
	url     string
	apiKey  string
	backoff backoff
	log     *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http:    resty.New().SetTimeout(cfg.Timeout),
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		backoff: newBackoff(cfg.Backoff),
		log:     log,
	}
}

func (c *Client) Configured() bool {
	return c.url != ""
}

func (c *Client) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if !c.Configured() {
		return "", &Error{Message: "Whisper service not configured", Err: ErrNotConfigured}
	}

	c.log.Info("calling whisper", "url", c.url, "bytes", len(audio.Data), "filename", audio.Filename)

	var lastErr error
	for attempt := 0; attempt < c.backoff.attempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff.wait(ctx, attempt); err != nil {
				return "", unreachable(err)
			}
		}

		text, retry, err := c.post(ctx, audio)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retry {
			break
		}
		c.log.Warn("whisper request failed, retrying", "attempt", attempt+1, "error", err)
	}
	return "", lastErr
}

// post makes one attempt. retry reports whether the failure is transient.
func (c *Client) post(ctx context.Context, audio Audio) (text string, retry bool, err error) {
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-Key", c.apiKey).
		SetMultipartField("file", audio.Filename, contentType, bytes.NewReader(audio.Data)).
		Post(c.url)
	if err != nil {
		return "", ctx.Err() == nil, unreachable(err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", resp.StatusCode() >= http.StatusInternalServerError, &Error{
			Message: strings.TrimSpace(resp.String()),
			Status:  resp.StatusCode(),
		}
	}

	var body whisperResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Text == nil {
		return "", false, &Error{Message: "invalid response from Whisper service", Status: resp.StatusCode(), Err: err}
	}
	return *body.Text, false, nil
}

// Ping reports whether the endpoint answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if _, err := c.http.R().SetContext(ctx).Head(c.url); err != nil {
		return unreachable(err)
	}
	return nil
}
