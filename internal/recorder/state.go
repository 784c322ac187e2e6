package recorder

type State int32

const (
	StateIdle State = iota
	StateRequesting
	StateRecording
	StateStopped
	StateUploading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	case StateUploading:
		return "uploading"
	default:
		return "unknown"
	}
}

type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

type Control int

const (
	ControlRecord Control = iota
	ControlStop
	ControlSend
)

func (c Control) String() string {
	switch c {
	case ControlRecord:
		return "record"
	case ControlStop:
		return "stop"
	case ControlSend:
		return "send"
	default:
		return "unknown"
	}
}
