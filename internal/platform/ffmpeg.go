package platform

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/voice-recorder/internal/recorder"
)

var (
	ErrNotRecording   = errors.New("encoder is not recording")
	ErrAlreadyStarted = errors.New("encoder already started")
	ErrNoPCM          = errors.New("capture handle does not expose PCM")
)

// PCMSource is implemented by capture handles that stream mono s16 PCM.
type PCMSource interface {
	SampleRate() int
	Subscribe(buffer int) (<-chan []int16, func())
}

type FFmpegConfig struct {
	Path string
	Log  *slog.Logger
}

// FFmpegEncoderFactory builds encoders that pipe capture PCM through an
// ffmpeg subprocess.
type FFmpegEncoderFactory struct {
	path string
	log  *slog.Logger

	// prefix is prepended to the ffmpeg arguments. Tests use it to re-exec
	// the test binary.
	prefix []string
	env    []string
}

func NewFFmpegEncoderFactory(cfg FFmpegConfig) *FFmpegEncoderFactory {
	if cfg.Path == "" {
		cfg.Path = DefaultFFmpegPath
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &FFmpegEncoderFactory{path: cfg.Path, log: cfg.Log.With("component", "ffmpeg")}
}

var _ recorder.EncoderFactory = (*FFmpegEncoderFactory)(nil)

func (f *FFmpegEncoderFactory) NewEncoder(handle recorder.CaptureHandle, mimeType string, cb recorder.EncoderCallbacks) (recorder.Encoder, error) {
	source, ok := handle.(PCMSource)
	if !ok {
		return nil, ErrNoPCM
	}
	args, err := encodeArgs(mimeType, source.SampleRate())
	if err != nil {
		return nil, err
	}
	return &FFmpegEncoder{
		path:     f.path,
		args:     append(append([]string(nil), f.prefix...), args...),
		env:      f.env,
		source:   source,
		mimeType: mimeType,
		cb:       cb,
		log:      f.log.With("mime_type", mimeType),
	}, nil
}

type encoderState int

const (
	encoderIdle encoderState = iota
	encoderRecording
	encoderStopping
	encoderDone
)

// FFmpegEncoder emits the encoded container in timeslice chunks. Any data
// still buffered when ffmpeg exits is delivered before OnStop.
type FFmpegEncoder struct {
	path     string
	args     []string
	env      []string
	source   PCMSource
	mimeType string
	cb       recorder.EncoderCallbacks
	log      *slog.Logger

	mu          sync.Mutex
	state       encoderState
	unsubscribe func()

	pendingMu sync.Mutex
	pending   bytes.Buffer
}

func (e *FFmpegEncoder) MimeType() string { return e.mimeType }

func (e *FFmpegEncoder) Recording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == encoderRecording
}

func (e *FFmpegEncoder) Start(timeslice time.Duration) error {
	e.mu.Lock()
	if e.state != encoderIdle {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}

	cmd := exec.Command(e.path, e.args...)
	if e.env != nil {
		cmd.Env = e.env
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		e.mu.Unlock()
		return &recorder.EncoderFaultError{Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		e.mu.Unlock()
		return &recorder.EncoderFaultError{Err: err}
	}
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return &recorder.EncoderFaultError{Err: fmt.Errorf("start ffmpeg: %w", err)}
	}

	frames, unsubscribe := e.source.Subscribe(subscriberBuffer)
	e.unsubscribe = unsubscribe
	e.state = encoderRecording
	e.mu.Unlock()

	e.log.Debug("encoder started", "pid", cmd.Process.Pid, "timeslice", timeslice)

	if e.cb.OnStart != nil {
		e.cb.OnStart()
	}

	go e.feed(frames, stdin)
	go e.supervise(cmd, stdout, &stderr, timeslice)
	return nil
}

// Stop ends the PCM feed. ffmpeg finalizes the container on EOF and OnStop
// fires once its output has been delivered.
func (e *FFmpegEncoder) Stop() error {
	e.mu.Lock()
	if e.state != encoderRecording {
		e.mu.Unlock()
		return ErrNotRecording
	}
	e.state = encoderStopping
	unsubscribe := e.unsubscribe
	e.mu.Unlock()

	unsubscribe()
	return nil
}

func (e *FFmpegEncoder) feed(frames <-chan []int16, stdin io.WriteCloser) {
	defer stdin.Close()

	buf := make([]byte, 0, DefaultFramesPerBuffer*2)
	for frame := range frames {
		buf = buf[:0]
		for _, s := range frame {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
		}
		if _, err := stdin.Write(buf); err != nil {
			e.log.Debug("ffmpeg stdin closed", "error", err)
			e.mu.Lock()
			unsubscribe := e.unsubscribe
			e.mu.Unlock()
			unsubscribe()
			for range frames {
				// drain until the hub closes the channel
			}
			return
		}
	}
}

func (e *FFmpegEncoder) supervise(cmd *exec.Cmd, stdout io.Reader, stderr *bytes.Buffer, timeslice time.Duration) {
	quit := make(chan struct{})
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		e.flushEvery(timeslice, quit)
	}()

	e.collect(stdout)
	waitErr := cmd.Wait()

	close(quit)
	<-flushed
	e.flush()

	e.mu.Lock()
	stopping := e.state == encoderStopping
	e.state = encoderDone
	unsubscribe := e.unsubscribe
	e.mu.Unlock()
	unsubscribe()

	switch {
	case waitErr != nil:
		msg := strings.TrimSpace(stderr.String())
		e.log.Error("ffmpeg exited with error", "error", waitErr, "stderr", msg)
		e.fail(fmt.Errorf("ffmpeg: %w: %s", waitErr, msg))
	case !stopping:
		e.log.Error("ffmpeg exited unexpectedly")
		e.fail(errors.New("ffmpeg exited unexpectedly"))
	default:
		e.log.Debug("encoder stopped")
		if e.cb.OnStop != nil {
			e.cb.OnStop()
		}
	}
}

func (e *FFmpegEncoder) collect(stdout io.Reader) {
	buf := make([]byte, 32*1024)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			e.pendingMu.Lock()
			e.pending.Write(buf[:n])
			e.pendingMu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				e.log.Debug("ffmpeg stdout read failed", "error", err)
			}
			return
		}
	}
}

func (e *FFmpegEncoder) flushEvery(timeslice time.Duration, quit <-chan struct{}) {
	if timeslice <= 0 {
		timeslice = recorder.DefaultTimeslice
	}
	ticker := time.NewTicker(timeslice)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			e.flush()
		}
	}
}

func (e *FFmpegEncoder) flush() {
	e.pendingMu.Lock()
	if e.pending.Len() == 0 {
		e.pendingMu.Unlock()
		return
	}
	chunk := bytes.Clone(e.pending.Bytes())
	e.pending.Reset()
	e.pendingMu.Unlock()

	if e.cb.OnData != nil {
		e.cb.OnData(chunk)
	}
}

func (e *FFmpegEncoder) fail(err error) {
	if e.cb.OnError != nil {
		e.cb.OnError(&recorder.EncoderFaultError{Err: err})
	}
}
