package recorder

const (
	FormatWebMOpus = "audio/webm;codecs=opus"
	FormatWebM     = "audio/webm"
	FormatOggOpus  = "audio/ogg;codecs=opus"
	FormatMP4      = "audio/mp4"
)

// Candidates lists encoder formats in order of preference.
var Candidates = []string{
	FormatWebMOpus,
	FormatWebM,
	FormatOggOpus,
	FormatMP4,
}

type Selector struct {
	prober FormatProber
}

func NewSelector(prober FormatProber) *Selector {
	return &Selector{prober: prober}
}

func (s *Selector) Select() (string, error) {
	if s.prober == nil {
		return "", ErrNoSupportedFormat
	}
	for _, candidate := range Candidates {
		if s.prober.IsTypeSupported(candidate) {
			return candidate, nil
		}
	}
	return "", ErrNoSupportedFormat
}
