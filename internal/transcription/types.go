package transcription

import (
	"time"

	"github.com/eleven-am/voice-recorder/internal/shared"
)

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Backoff shared.BackoffConfig
}

// Audio is an uploaded recording as received from the client.
type Audio struct {
	Filename    string
	ContentType string
	Data        []byte
}
