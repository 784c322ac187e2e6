package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	TranscribePath       = "/voice/transcribe"
	defaultUploadTimeout = 2 * time.Minute
	audioField           = "audio"
)

type UploaderConfig struct {
	BaseURL string
	Timeout time.Duration
	// Client overrides the resty client, mostly for tests.
	Client *resty.Client
	Log    *slog.Logger
}

// HTTPUploader posts a finished recording to the transcription endpoint.
type HTTPUploader struct {
	client   *resty.Client
	endpoint string
	log      *slog.Logger
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func NewHTTPUploader(cfg UploaderConfig) *HTTPUploader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultUploadTimeout
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = resty.New()
	}
	client.SetTimeout(cfg.Timeout)

	return &HTTPUploader{
		client:   client,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + TranscribePath,
		log:      cfg.Log.With("component", "uploader"),
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, fragments [][]byte, mimeType string) Outcome {
	payload := bytes.Join(fragments, nil)
	filename := "voice." + ExtensionFor(mimeType)

	u.log.Debug("uploading recording", "endpoint", u.endpoint, "bytes", len(payload), "mime_type", mimeType)

	resp, err := u.client.R().
		SetContext(ctx).
		SetMultipartField(audioField, filename, mimeType, bytes.NewReader(payload)).
		Post(u.endpoint)
	if err != nil {
		return faultOutcome(&UploadFaultError{Err: err})
	}
	if !resp.IsSuccess() {
		return faultOutcome(&ServerError{Status: resp.StatusCode()})
	}

	var body transcriptionResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return faultOutcome(&UploadFaultError{Message: "invalid response body", Err: err})
	}

	switch {
	case body.Text != "":
		return Outcome{
			Message:  `Transcription: "` + body.Text + `"`,
			Severity: SeveritySuccess,
			Clear:    true,
		}
	case body.Error != "":
		return Outcome{
			Message:  "Error: " + body.Error,
			Severity: SeverityError,
			Err:      errors.New(body.Error),
		}
	default:
		return Outcome{
			Message:  "Transcription complete",
			Severity: SeveritySuccess,
			Clear:    true,
		}
	}
}

// ExtensionFor picks the upload filename extension for a MIME type.
func ExtensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "webm"):
		return "webm"
	case strings.Contains(mimeType, "ogg"):
		return "ogg"
	default:
		return "mp4"
	}
}

func faultOutcome(err error) Outcome {
	return Outcome{
		Message:  "Upload failed: " + err.Error(),
		Severity: SeverityError,
		Err:      err,
	}
}
