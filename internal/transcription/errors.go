package transcription

import (
	"errors"
	"fmt"
)

var (
	ErrUnreachable   = errors.New("whisper service unreachable")
	ErrNotConfigured = errors.New("whisper service not configured")
)

// Error is a speech-to-text failure. Message is what clients are shown.
type Error struct {
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unreachable(cause error) *Error {
	return &Error{
		Message: "Whisper service unreachable",
		Err:     fmt.Errorf("%w: %w", ErrUnreachable, cause),
	}
}
