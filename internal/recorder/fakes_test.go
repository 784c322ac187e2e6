package recorder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTrack struct {
	stops atomic.Int32
}

func (t *fakeTrack) Stop() { t.stops.Add(1) }

type fakeHandle struct {
	tracks []*fakeTrack
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{tracks: []*fakeTrack{{}, {}}}
}

func (h *fakeHandle) Tracks() []Track {
	out := make([]Track, len(h.tracks))
	for i, t := range h.tracks {
		out[i] = t
	}
	return out
}

func (h *fakeHandle) released() bool {
	for _, t := range h.tracks {
		if t.stops.Load() == 0 {
			return false
		}
	}
	return true
}

type fakeProvider struct {
	mu          sync.Mutex
	unavailable bool
	err         error
	opened      []*fakeHandle
	constraints []Constraints
}

func (p *fakeProvider) Available() bool { return !p.unavailable }

func (p *fakeProvider) Open(ctx context.Context, c Constraints) (CaptureHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.constraints = append(p.constraints, c)
	if p.err != nil {
		return nil, p.err
	}
	h := newFakeHandle()
	p.opened = append(p.opened, h)
	return h, nil
}

func (p *fakeProvider) handles() []*fakeHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*fakeHandle(nil), p.opened...)
}

// balanced reports whether every opened handle has been released.
func (p *fakeProvider) balanced() bool {
	for _, h := range p.handles() {
		if !h.released() {
			return false
		}
	}
	return true
}

type fakeProber map[string]bool

func (p fakeProber) IsTypeSupported(mimeType string) bool { return p[mimeType] }

type fakeEncoder struct {
	mu        sync.Mutex
	cb        EncoderCallbacks
	mimeType  string
	recording bool
	startErr  error
	timeslice time.Duration
	noAck     bool
}

func (e *fakeEncoder) Start(timeslice time.Duration) error {
	e.mu.Lock()
	if e.startErr != nil {
		e.mu.Unlock()
		return e.startErr
	}
	e.timeslice = timeslice
	e.recording = true
	noAck := e.noAck
	e.mu.Unlock()

	if !noAck {
		e.cb.OnStart()
	}
	return nil
}

func (e *fakeEncoder) Stop() error {
	e.mu.Lock()
	if !e.recording {
		e.mu.Unlock()
		return errors.New("not recording")
	}
	e.recording = false
	e.mu.Unlock()

	e.cb.OnStop()
	return nil
}

func (e *fakeEncoder) Recording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recording
}

func (e *fakeEncoder) MimeType() string { return e.mimeType }

func (e *fakeEncoder) emit(data []byte) { e.cb.OnData(data) }

func (e *fakeEncoder) fail(err error) { e.cb.OnError(err) }

type fakeFactory struct {
	mu       sync.Mutex
	encoders []*fakeEncoder
	err      error
	startErr error
	noAck    bool
}

func (f *fakeFactory) NewEncoder(handle CaptureHandle, mimeType string, cb EncoderCallbacks) (Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	enc := &fakeEncoder{cb: cb, mimeType: mimeType, startErr: f.startErr, noAck: f.noAck}
	f.encoders = append(f.encoders, enc)
	return enc, nil
}

func (f *fakeFactory) last() *fakeEncoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.encoders) == 0 {
		return nil
	}
	return f.encoders[len(f.encoders)-1]
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.encoders)
}

type statusLine struct {
	message  string
	severity Severity
}

type fakeView struct {
	mu        sync.Mutex
	enabled   map[Control]bool
	recording bool
	timer     string
	statuses  []statusLine
}

func newFakeView() *fakeView {
	return &fakeView{
		enabled: map[Control]bool{ControlRecord: true},
		timer:   "00:00",
	}
}

func (v *fakeView) SetEnabled(c Control, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled[c] = enabled
}

func (v *fakeView) SetRecording(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recording = active
}

func (v *fakeView) SetTimerText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timer = text
}

func (v *fakeView) SetStatus(message string, severity Severity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, statusLine{message: message, severity: severity})
}

func (v *fakeView) status() statusLine {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return statusLine{}
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) isEnabled(c Control) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled[c]
}

func (v *fakeView) timerText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timer
}

type fakeVisualizer struct {
	starts atomic.Int32
	stops  atomic.Int32
}

func (v *fakeVisualizer) Start(CaptureHandle) error {
	v.starts.Add(1)
	return nil
}

func (v *fakeVisualizer) Stop() { v.stops.Add(1) }

type uploadCall struct {
	fragments [][]byte
	mimeType  string
}

type fakeUploader struct {
	mu      sync.Mutex
	calls   []uploadCall
	outcome Outcome
	panics  bool
}

func (u *fakeUploader) Upload(ctx context.Context, fragments [][]byte, mimeType string) Outcome {
	u.mu.Lock()
	u.calls = append(u.calls, uploadCall{fragments: fragments, mimeType: mimeType})
	outcome, panics := u.outcome, u.panics
	u.mu.Unlock()
	if panics {
		panic("boom")
	}
	return outcome
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type harness struct {
	rec        *Recorder
	provider   *fakeProvider
	factory    *fakeFactory
	view       *fakeView
	visualizer *fakeVisualizer
	uploader   *fakeUploader
	done       chan error
	cancel     context.CancelFunc
}

type harnessOption func(*Config)

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		provider:   &fakeProvider{},
		factory:    &fakeFactory{},
		view:       newFakeView(),
		visualizer: &fakeVisualizer{},
		uploader:   &fakeUploader{outcome: Outcome{Message: "Transcription complete", Severity: SeveritySuccess, Clear: true}},
		done:       make(chan error, 1),
	}
	cfg := Config{
		Capture:    h.provider,
		Formats:    fakeProber{FormatWebMOpus: true},
		Encoders:   h.factory,
		Uploader:   h.uploader,
		Visualizer: h.visualizer,
		View:       h.view,
		Log:        discardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rec, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.rec = rec

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- rec.Run(ctx) }()
	t.Cleanup(func() { h.shutdown(t) })
	return h
}

// shutdown cancels the run loop and waits for it to return. Safe to call
// more than once.
func (h *harness) shutdown(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		h.done <- err
	case <-time.After(2 * time.Second):
		t.Error("Run did not return after cancel")
	}
}

func (h *harness) snapshot(t *testing.T) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := h.rec.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return snap
}

// settle waits until every event queued so far has been handled.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	h.snapshot(t)
}

func (h *harness) startRecording(t *testing.T) *fakeEncoder {
	t.Helper()
	h.rec.Start()
	waitFor(t, "recording state", func() bool { return h.rec.State() == StateRecording })
	return h.factory.last()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
