package recorder

import (
	"context"
	"time"
)

// Constraints are the processing flags requested from the capture device.
type Constraints struct {
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

type Track interface {
	Stop()
}

// CaptureHandle is a live microphone input. Releasing it means stopping every
// track it carries.
type CaptureHandle interface {
	Tracks() []Track
}

type CaptureProvider interface {
	Available() bool
	Open(ctx context.Context, c Constraints) (CaptureHandle, error)
}

type FormatProber interface {
	IsTypeSupported(mimeType string) bool
}

// EncoderCallbacks are invoked by an Encoder from any goroutine. Data slices
// passed to OnData are owned by the receiver.
type EncoderCallbacks struct {
	OnStart func()
	OnData  func(data []byte)
	OnStop  func()
	OnError func(err error)
}

type Encoder interface {
	Start(timeslice time.Duration) error
	Stop() error
	Recording() bool
	MimeType() string
}

type EncoderFactory interface {
	NewEncoder(handle CaptureHandle, mimeType string, cb EncoderCallbacks) (Encoder, error)
}

type Visualizer interface {
	Start(handle CaptureHandle) error
	Stop()
}

// View is the display surface driven by the Recorder. It is only ever written
// from the Recorder's run loop.
type View interface {
	SetEnabled(c Control, enabled bool)
	SetRecording(active bool)
	SetTimerText(text string)
	SetStatus(message string, severity Severity)
}

type Uploader interface {
	Upload(ctx context.Context, fragments [][]byte, mimeType string) Outcome
}

// Outcome is the display result of one upload attempt.
type Outcome struct {
	Message  string
	Severity Severity
	// Clear reports whether the recorded fragments were consumed.
	Clear bool
	Err   error
}
