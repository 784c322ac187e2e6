package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eleven-am/voice-recorder/internal/recorder"
)

// TestHelperProcess stands in for ffmpeg when re-executed by the encoder
// tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("HELPER_MODE") {
	case "fail":
		fmt.Fprint(os.Stderr, "boom")
		os.Exit(3)
	default:
		_, _ = io.Copy(os.Stdout, os.Stdin)
		os.Exit(0)
	}
}

func helperFactory(mode string) *FFmpegEncoderFactory {
	f := NewFFmpegEncoderFactory(FFmpegConfig{Path: os.Args[0], Log: discardLogger()})
	f.prefix = []string{"-test.run=TestHelperProcess", "--"}
	f.env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
	return f
}

type pcmHandle struct {
	*pcmHub
}

func (h pcmHandle) Tracks() []recorder.Track { return nil }
func (h pcmHandle) SampleRate() int          { return 16000 }
func (h pcmHandle) Subscribe(n int) (<-chan []int16, func()) {
	return h.subscribe(n)
}

type encoderEvents struct {
	mu      sync.Mutex
	order   []string
	data    bytes.Buffer
	err     error
	stopped chan struct{}
}

func newEncoderEvents() *encoderEvents {
	return &encoderEvents{stopped: make(chan struct{}, 1)}
}

func (e *encoderEvents) callbacks() recorder.EncoderCallbacks {
	return recorder.EncoderCallbacks{
		OnStart: func() { e.record("start") },
		OnData: func(b []byte) {
			e.mu.Lock()
			e.data.Write(b)
			e.mu.Unlock()
			e.record("data")
		},
		OnStop: func() {
			e.record("stop")
			e.stopped <- struct{}{}
		},
		OnError: func(err error) {
			e.mu.Lock()
			e.err = err
			e.mu.Unlock()
			e.record("error")
			e.stopped <- struct{}{}
		},
	}
}

func (e *encoderEvents) record(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = append(e.order, name)
}

func (e *encoderEvents) wait(t *testing.T) {
	t.Helper()
	select {
	case <-e.stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("encoder did not finish")
	}
}

func TestFFmpegEncoder_StreamsAndFinalizes(t *testing.T) {
	handle := pcmHandle{newPCMHub(64)}
	events := newEncoderEvents()

	enc, err := helperFactory("cat").NewEncoder(handle, recorder.FormatWebMOpus, events.callbacks())
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if enc.MimeType() != recorder.FormatWebMOpus {
		t.Errorf("MimeType() = %q", enc.MimeType())
	}
	if err := enc.Start(5 * time.Millisecond); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !enc.Recording() {
		t.Error("expected encoder to be recording")
	}
	if err := enc.Start(5 * time.Millisecond); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	handle.publish([]int16{1, 2})
	handle.publish([]int16{-1})

	if err := enc.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	events.wait(t)

	if enc.Recording() {
		t.Error("expected encoder stopped")
	}
	if err := enc.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop() after finish error = %v, want ErrNotRecording", err)
	}

	events.mu.Lock()
	defer events.mu.Unlock()
	want := []byte{1, 0, 2, 0, 0xff, 0xff}
	if !bytes.Equal(events.data.Bytes(), want) {
		t.Errorf("data = %v, want %v", events.data.Bytes(), want)
	}
	if events.order[0] != "start" || events.order[len(events.order)-1] != "stop" {
		t.Errorf("callback order = %v", events.order)
	}
	if events.err != nil {
		t.Errorf("unexpected error %v", events.err)
	}
}

func TestFFmpegEncoder_ProcessFailure(t *testing.T) {
	handle := pcmHandle{newPCMHub(64)}
	events := newEncoderEvents()

	enc, err := helperFactory("fail").NewEncoder(handle, recorder.FormatOggOpus, events.callbacks())
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if err := enc.Start(5 * time.Millisecond); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	events.wait(t)

	events.mu.Lock()
	defer events.mu.Unlock()
	var fault *recorder.EncoderFaultError
	if !errors.As(events.err, &fault) {
		t.Fatalf("error = %v, want *EncoderFaultError", events.err)
	}
	if !strings.Contains(fault.Error(), "boom") {
		t.Errorf("error = %q, want stderr included", fault.Error())
	}
}

func TestFFmpegEncoderFactory_Rejects(t *testing.T) {
	f := NewFFmpegEncoderFactory(FFmpegConfig{Log: discardLogger()})

	if _, err := f.NewEncoder(plainCapture{}, recorder.FormatWebM, recorder.EncoderCallbacks{}); !errors.Is(err, ErrNoPCM) {
		t.Errorf("NewEncoder() error = %v, want ErrNoPCM", err)
	}
	if _, err := f.NewEncoder(pcmHandle{newPCMHub(8)}, "audio/wav", recorder.EncoderCallbacks{}); err == nil {
		t.Error("expected error for unsupported mime type")
	}
}

type plainCapture struct{}

func (plainCapture) Tracks() []recorder.Track { return nil }
