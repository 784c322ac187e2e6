package transcription

import "context"

type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}
