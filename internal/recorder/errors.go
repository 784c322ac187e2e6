package recorder

import (
	"errors"
	"fmt"
)

var (
	ErrCapabilityUnavailable = errors.New("your platform does not support audio recording")
	ErrNoSupportedFormat     = errors.New("no supported audio format found")
)

// AcquisitionDeniedError reports a refused permission prompt or a busy device.
type AcquisitionDeniedError struct {
	Reason string
	Err    error
}

func (e *AcquisitionDeniedError) Error() string {
	if e.Reason == "" {
		return "microphone access denied"
	}
	return e.Reason
}

func (e *AcquisitionDeniedError) Unwrap() error {
	return e.Err
}

type EncoderFaultError struct {
	Err error
}

func (e *EncoderFaultError) Error() string {
	if e.Err == nil {
		return "encoder fault"
	}
	return fmt.Sprintf("encoder fault: %v", e.Err)
}

func (e *EncoderFaultError) Unwrap() error {
	return e.Err
}

type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server error: %d", e.Status)
}

type UploadFaultError struct {
	Message string
	Err     error
}

func (e *UploadFaultError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "upload fault"
}

func (e *UploadFaultError) Unwrap() error {
	return e.Err
}
