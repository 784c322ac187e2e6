package recorder

import (
	"context"
	"errors"
)

var defaultConstraints = Constraints{
	EchoCancellation: true,
	NoiseSuppression: true,
	AutoGainControl:  true,
}

type Negotiator struct {
	provider CaptureProvider
}

func NewNegotiator(provider CaptureProvider) *Negotiator {
	return &Negotiator{provider: provider}
}

// Acquire opens the microphone. It may block while the platform asks the user
// for permission.
func (n *Negotiator) Acquire(ctx context.Context) (CaptureHandle, error) {
	if n.provider == nil || !n.provider.Available() {
		return nil, ErrCapabilityUnavailable
	}

	handle, err := n.provider.Open(ctx, defaultConstraints)
	if err != nil {
		var denied *AcquisitionDeniedError
		if errors.As(err, &denied) {
			return nil, err
		}
		return nil, &AcquisitionDeniedError{Reason: err.Error(), Err: err}
	}
	if handle == nil {
		return nil, &AcquisitionDeniedError{Reason: "capture device returned no stream"}
	}
	return handle, nil
}
