package recorder

type event interface {
	isEvent()
}

type startIntent struct{}

type stopIntent struct{}

type sendIntent struct{}

type acquiredEvent struct {
	session *Session
	handle  CaptureHandle
	err     error
}

type encoderStartedEvent struct {
	session *Session
}

type dataEvent struct {
	session *Session
	data    []byte
}

type encoderStoppedEvent struct {
	session *Session
}

type encoderErrorEvent struct {
	session *Session
	err     error
}

type tickEvent struct {
	text string
}

type uploadDoneEvent struct {
	session *Session
	outcome Outcome
}

type snapshotRequest struct {
	reply chan Snapshot
}

func (startIntent) isEvent()         {}
func (stopIntent) isEvent()          {}
func (sendIntent) isEvent()          {}
func (acquiredEvent) isEvent()       {}
func (encoderStartedEvent) isEvent() {}
func (dataEvent) isEvent()           {}
func (encoderStoppedEvent) isEvent() {}
func (encoderErrorEvent) isEvent()   {}
func (tickEvent) isEvent()           {}
func (uploadDoneEvent) isEvent()     {}
func (snapshotRequest) isEvent()     {}
