package recorder

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing encoders", Config{Uploader: &fakeUploader{}, View: newFakeView()}},
		{"missing uploader", Config{Encoders: &fakeFactory{}, View: newFakeView()}},
		{"missing view", Config{Encoders: &fakeFactory{}, Uploader: &fakeUploader{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRecorder_StartRecording(t *testing.T) {
	h := newHarness(t)
	enc := h.startRecording(t)

	if enc.timeslice != DefaultTimeslice {
		t.Errorf("timeslice = %v, want %v", enc.timeslice, DefaultTimeslice)
	}
	if enc.mimeType != FormatWebMOpus {
		t.Errorf("mimeType = %q, want %q", enc.mimeType, FormatWebMOpus)
	}

	h.settle(t)
	if h.view.isEnabled(ControlRecord) {
		t.Error("record control should be disabled")
	}
	if !h.view.isEnabled(ControlStop) {
		t.Error("stop control should be enabled")
	}
	if h.view.isEnabled(ControlSend) {
		t.Error("send control should be disabled")
	}
	if got := h.view.status(); got.message != "Recording in progress..." || got.severity != SeverityNeutral {
		t.Errorf("status = %+v", got)
	}
	if h.visualizer.starts.Load() != 1 {
		t.Errorf("visualizer starts = %d, want 1", h.visualizer.starts.Load())
	}
	if !h.rec.timer.Running() {
		t.Error("timer should be running")
	}

	constraints := h.provider.constraints[0]
	if !constraints.EchoCancellation || !constraints.NoiseSuppression || !constraints.AutoGainControl {
		t.Errorf("constraints = %+v, want all enabled", constraints)
	}
}

func TestRecorder_WaitsForStartedAcknowledgment(t *testing.T) {
	h := newHarness(t)
	h.factory.noAck = true

	h.rec.Start()
	waitFor(t, "encoder", func() bool { return h.factory.count() == 1 })
	h.settle(t)

	if h.rec.State() != StateRequesting {
		t.Fatalf("state = %v, want requesting before acknowledgment", h.rec.State())
	}

	h.factory.last().cb.OnStart()
	waitFor(t, "recording state", func() bool { return h.rec.State() == StateRecording })
}

func TestRecorder_StopCompletesSession(t *testing.T) {
	h := newHarness(t)
	enc := h.startRecording(t)

	enc.emit(make([]byte, 10))
	enc.emit([]byte{})
	enc.emit(make([]byte, 20))
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })

	snap := h.snapshot(t)
	if snap.Fragments != 2 {
		t.Errorf("fragments = %d, want 2", snap.Fragments)
	}
	if snap.Bytes != 30 {
		t.Errorf("bytes = %d, want 30", snap.Bytes)
	}

	got := h.view.status()
	if !strings.HasPrefix(got.message, "Recording complete (") || got.severity != SeveritySuccess {
		t.Errorf("status = %+v", got)
	}
	if !h.view.isEnabled(ControlRecord) || h.view.isEnabled(ControlStop) || !h.view.isEnabled(ControlSend) {
		t.Error("unexpected control states after stop")
	}
	if h.rec.timer.Running() {
		t.Error("timer should be stopped")
	}
	if h.visualizer.stops.Load() == 0 {
		t.Error("visualizer should be stopped")
	}
	if !h.provider.balanced() {
		t.Error("capture handle should be released after stop")
	}
}

func TestRecorder_StopIgnoredOutsideRecording(t *testing.T) {
	h := newHarness(t)

	h.rec.Stop()
	h.settle(t)
	if h.rec.State() != StateIdle {
		t.Errorf("state = %v, want idle", h.rec.State())
	}
	if len(h.view.statuses) != 0 {
		t.Errorf("stop from idle should not touch the view, got %v", h.view.statuses)
	}

	enc := h.startRecording(t)
	h.rec.Stop()
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })
	h.settle(t)

	if enc.Recording() {
		t.Error("encoder should not be recording")
	}
	if h.rec.State() != StateStopped {
		t.Errorf("state = %v after double stop, want stopped", h.rec.State())
	}
}

func TestRecorder_StartIgnoredWhileBusy(t *testing.T) {
	h := newHarness(t)
	h.startRecording(t)

	h.rec.Start()
	h.rec.Start()
	h.settle(t)

	if n := len(h.provider.handles()); n != 1 {
		t.Errorf("opened handles = %d, want 1", n)
	}
	if h.rec.State() != StateRecording {
		t.Errorf("state = %v, want recording", h.rec.State())
	}
}

func TestRecorder_PermissionDenied(t *testing.T) {
	h := newHarness(t)
	h.provider.err = errors.New("Permission denied")

	h.rec.Start()
	waitFor(t, "error status", func() bool { return h.view.status().severity == SeverityError })
	h.settle(t)

	got := h.view.status()
	if got.message != "Error: Permission denied" {
		t.Errorf("status = %q", got.message)
	}
	if h.rec.State() != StateIdle {
		t.Errorf("state = %v, want idle", h.rec.State())
	}
	if h.factory.count() != 0 {
		t.Error("no encoder should be created")
	}
	if snap := h.snapshot(t); snap.SessionID != "" {
		t.Errorf("session should be destroyed, got %q", snap.SessionID)
	}
}

func TestRecorder_CapabilityUnavailable(t *testing.T) {
	h := newHarness(t)
	h.provider.unavailable = true

	h.rec.Start()
	waitFor(t, "error status", func() bool { return h.view.status().severity == SeverityError })

	if got := h.view.status().message; got != "Error: "+ErrCapabilityUnavailable.Error() {
		t.Errorf("status = %q", got)
	}
	if len(h.provider.constraints) != 0 {
		t.Error("provider should not be asked to open")
	}
}

func TestRecorder_NoSupportedFormatReleasesCapture(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.Formats = fakeProber{} })

	h.rec.Start()
	waitFor(t, "error status", func() bool { return h.view.status().severity == SeverityError })
	h.settle(t)

	if got := h.view.status().message; got != "Error: no supported audio format found" {
		t.Errorf("status = %q", got)
	}
	if len(h.provider.handles()) != 1 || !h.provider.balanced() {
		t.Error("acquired capture handle should be released")
	}
	if h.rec.State() != StateIdle {
		t.Errorf("state = %v, want idle", h.rec.State())
	}
}

func TestRecorder_EncoderStartFailure(t *testing.T) {
	h := newHarness(t)
	h.factory.startErr = errors.New("device busy")

	h.rec.Start()
	waitFor(t, "error status", func() bool { return h.view.status().severity == SeverityError })
	h.settle(t)

	if !strings.Contains(h.view.status().message, "device busy") {
		t.Errorf("status = %q", h.view.status().message)
	}
	if !h.provider.balanced() {
		t.Error("capture handle should be released")
	}
}

func TestRecorder_EncoderErrorCleansUp(t *testing.T) {
	h := newHarness(t)
	enc := h.startRecording(t)
	enc.emit([]byte("chunk"))

	enc.fail(errors.New("hardware went away"))
	waitFor(t, "idle state", func() bool { return h.rec.State() == StateIdle })
	h.settle(t)

	got := h.view.status()
	if got.message != "Recording error occurred" || got.severity != SeverityError {
		t.Errorf("status = %+v", got)
	}
	if !h.provider.balanced() {
		t.Error("capture handle should be released")
	}
	if h.rec.timer.Running() {
		t.Error("timer should be stopped")
	}
	if !h.view.isEnabled(ControlRecord) || h.view.isEnabled(ControlStop) {
		t.Error("record should be enabled and stop disabled after cleanup")
	}
	if snap := h.snapshot(t); snap.Fragments != 0 {
		t.Errorf("fragments = %d, want 0", snap.Fragments)
	}
}

func TestRecorder_SendWithoutAudio(t *testing.T) {
	h := newHarness(t)

	h.rec.Send()
	h.settle(t)

	got := h.view.status()
	if got.message != "No audio recorded" || got.severity != SeverityError {
		t.Errorf("status = %+v", got)
	}
	if h.uploader.callCount() != 0 {
		t.Error("uploader should not be called")
	}

	h.startRecording(t)
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })

	h.rec.Send()
	h.settle(t)
	if h.view.status().message != "No audio recorded" {
		t.Errorf("status = %q", h.view.status().message)
	}
	if h.uploader.callCount() != 0 {
		t.Error("uploader should not be called")
	}
}

func TestRecorder_SendPreservesFragmentOrder(t *testing.T) {
	h := newHarness(t)
	enc := h.startRecording(t)

	enc.emit([]byte("A"))
	enc.emit([]byte("B"))
	enc.emit([]byte("C"))
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })

	h.rec.Send()
	waitFor(t, "idle state", func() bool { return h.rec.State() == StateIdle })
	h.settle(t)

	call := h.uploader.calls[0]
	if got := bytes.Join(call.fragments, nil); string(got) != "ABC" {
		t.Errorf("payload = %q, want ABC", got)
	}
	if call.mimeType != FormatWebMOpus {
		t.Errorf("mimeType = %q", call.mimeType)
	}
	if h.view.timerText() != "00:00" {
		t.Errorf("timer = %q, want 00:00", h.view.timerText())
	}
	if !h.view.isEnabled(ControlSend) {
		t.Error("send should be re-enabled")
	}
}

func TestRecorder_RecoverableUploadFailureKeepsFragments(t *testing.T) {
	h := newHarness(t)
	h.uploader.outcome = faultOutcome(&ServerError{Status: 500})
	enc := h.startRecording(t)

	enc.emit([]byte("audio"))
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })

	h.rec.Send()
	waitFor(t, "upload", func() bool { return h.uploader.callCount() == 1 })
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })
	h.settle(t)

	if got := h.view.status(); !strings.Contains(got.message, "500") || got.severity != SeverityError {
		t.Errorf("status = %+v", got)
	}
	if snap := h.snapshot(t); snap.Fragments != 1 {
		t.Errorf("fragments = %d, want 1", snap.Fragments)
	}
	if !h.view.isEnabled(ControlSend) {
		t.Error("send should be re-enabled")
	}

	h.uploader.mu.Lock()
	h.uploader.outcome = Outcome{Message: `Transcription: "retry"`, Severity: SeveritySuccess, Clear: true}
	h.uploader.mu.Unlock()

	h.rec.Send()
	waitFor(t, "idle state", func() bool { return h.rec.State() == StateIdle })
	if h.uploader.callCount() != 2 {
		t.Errorf("upload calls = %d, want 2", h.uploader.callCount())
	}
}

func TestRecorder_UploaderPanicReenablesSend(t *testing.T) {
	h := newHarness(t)
	h.uploader.panics = true
	enc := h.startRecording(t)

	enc.emit([]byte("audio"))
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })

	h.rec.Send()
	waitFor(t, "upload", func() bool { return h.uploader.callCount() == 1 })
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })
	h.settle(t)

	if got := h.view.status(); !strings.HasPrefix(got.message, "Upload failed: ") {
		t.Errorf("status = %q", got.message)
	}
	if !h.view.isEnabled(ControlSend) {
		t.Error("send should be re-enabled")
	}
}

func TestRecorder_AcquireReleaseBalance(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 3; i++ {
		enc := h.startRecording(t)
		enc.emit([]byte{byte(i + 1)})
		h.rec.Stop()
		waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })
		if !h.provider.balanced() {
			t.Fatalf("cycle %d: handles not released", i)
		}
	}

	enc := h.startRecording(t)
	enc.fail(errors.New("fault"))
	waitFor(t, "idle state", func() bool { return h.rec.State() == StateIdle })
	h.settle(t)

	if n := len(h.provider.handles()); n != 4 {
		t.Errorf("opened = %d, want 4", n)
	}
	if !h.provider.balanced() {
		t.Error("acquire count should equal release count at idle")
	}
}

func TestRecorder_RestartFromStoppedDiscardsFragments(t *testing.T) {
	h := newHarness(t)
	enc := h.startRecording(t)
	enc.emit([]byte("old"))
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })
	first := h.snapshot(t).SessionID

	h.startRecording(t)
	snap := h.snapshot(t)
	if snap.SessionID == first {
		t.Error("expected a new session")
	}
	if snap.Fragments != 0 {
		t.Errorf("fragments = %d, want 0", snap.Fragments)
	}
}

func TestRecorder_TimerTicksUpdateView(t *testing.T) {
	h := newHarness(t)
	h.rec.timer.interval = 5 * time.Millisecond
	h.startRecording(t)

	waitFor(t, "timer text", func() bool {
		return h.view.timerText() == "00:00"
	})
	h.rec.Stop()
	waitFor(t, "stopped state", func() bool { return h.rec.State() == StateStopped })

	if got := h.view.status().message; got != "Recording complete (00:00)" {
		t.Errorf("status = %q", got)
	}
}

func TestRecorder_ShutdownReleasesCapture(t *testing.T) {
	h := newHarness(t)
	h.startRecording(t)

	if h.provider.balanced() {
		t.Fatal("handle should be held while recording")
	}

	h.shutdown(t)
	if !h.provider.balanced() {
		t.Error("handle should be released when Run returns")
	}
	if h.rec.State() != StateIdle {
		t.Errorf("state = %v, want idle", h.rec.State())
	}
}

func TestRecorder_RunTwice(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	if err := h.rec.Run(t.Context()); err == nil {
		t.Error("second Run should fail")
	}
}
