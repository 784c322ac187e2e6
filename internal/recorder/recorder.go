package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimeslice = 100 * time.Millisecond
	defaultMimeType  = FormatWebM
	zeroElapsed      = "00:00"

	msgRequesting    = "Requesting microphone access..."
	msgRecording     = "Recording in progress..."
	msgRecordingErr  = "Recording error occurred"
	msgNoAudio       = "No audio recorded"
	msgUploading     = "Uploading and transcribing..."
	msgCompleteFmt   = "Recording complete (%s)"
	msgStartErrorFmt = "Error: %s"
)

type Config struct {
	Capture    CaptureProvider
	Formats    FormatProber
	Encoders   EncoderFactory
	Uploader   Uploader
	Visualizer Visualizer
	View       View
	Clock      func() time.Time
	Timeslice  time.Duration
	Log        *slog.Logger
}

// Session is one capture-to-upload cycle. It is only touched from the run
// loop.
type Session struct {
	ID        string
	capture   CaptureHandle
	encoder   Encoder
	fragments [][]byte
	mimeType  string
	startedAt time.Time
	elapsed   string
}

func newSession() *Session {
	return &Session{
		ID:      uuid.NewString(),
		elapsed: zeroElapsed,
	}
}

func (s *Session) size() int {
	n := 0
	for _, f := range s.fragments {
		n += len(f)
	}
	return n
}

type Snapshot struct {
	State     State
	SessionID string
	Fragments int
	Bytes     int
	MimeType  string
	Elapsed   string
}

// Recorder coordinates capture, encoding, the timer, the visualizer and
// uploads. Intents and platform callbacks are queued and handled one at a
// time by Run.
type Recorder struct {
	negotiator *Negotiator
	selector   *Selector
	encoders   EncoderFactory
	uploader   Uploader
	visualizer Visualizer
	view       View
	timer      *Timer
	clock      func() time.Time
	timeslice  time.Duration
	log        *slog.Logger

	queue   *eventQueue
	state   atomic.Int32
	running atomic.Bool
	ctx     context.Context
	wg      sync.WaitGroup
	session *Session
}

func New(cfg Config) (*Recorder, error) {
	if cfg.Encoders == nil {
		return nil, errors.New("recorder: encoder factory is required")
	}
	if cfg.Uploader == nil {
		return nil, errors.New("recorder: uploader is required")
	}
	if cfg.View == nil {
		return nil, errors.New("recorder: view is required")
	}
	if cfg.Visualizer == nil {
		cfg.Visualizer = noopVisualizer{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Timeslice <= 0 {
		cfg.Timeslice = DefaultTimeslice
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	r := &Recorder{
		negotiator: NewNegotiator(cfg.Capture),
		selector:   NewSelector(cfg.Formats),
		encoders:   cfg.Encoders,
		uploader:   cfg.Uploader,
		visualizer: cfg.Visualizer,
		view:       cfg.View,
		clock:      cfg.Clock,
		timeslice:  cfg.Timeslice,
		log:        cfg.Log.With("component", "recorder"),
		queue:      newEventQueue(),
	}
	r.timer = NewTimer(func(text string) {
		r.queue.push(tickEvent{text: text})
	})
	return r, nil
}

func (r *Recorder) Start() { r.queue.push(startIntent{}) }

func (r *Recorder) Stop() { r.queue.push(stopIntent{}) }

func (r *Recorder) Send() { r.queue.push(sendIntent{}) }

func (r *Recorder) State() State {
	return State(r.state.Load())
}

// Snapshot asks the run loop for a consistent view of the current session.
func (r *Recorder) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	r.queue.push(snapshotRequest{reply: reply})
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Run processes events until ctx is done. Any held capture handle is released
// before Run returns.
func (r *Recorder) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errors.New("recorder: already running")
	}
	r.ctx = ctx
	defer r.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.queue.ready():
			for _, ev := range r.queue.drain() {
				r.dispatch(ev)
			}
		}
	}
}

func (r *Recorder) dispatch(ev event) {
	switch e := ev.(type) {
	case startIntent:
		r.handleStart()
	case stopIntent:
		r.handleStop()
	case sendIntent:
		r.handleSend()
	case acquiredEvent:
		r.handleAcquired(e)
	case encoderStartedEvent:
		r.handleEncoderStarted(e.session)
	case dataEvent:
		r.handleData(e.session, e.data)
	case encoderStoppedEvent:
		r.handleEncoderStopped(e.session)
	case encoderErrorEvent:
		r.handleEncoderError(e.session, e.err)
	case tickEvent:
		r.handleTick(e.text)
	case uploadDoneEvent:
		r.handleUploadDone(e.session, e.outcome)
	case snapshotRequest:
		e.reply <- r.snapshot()
	}
}

func (r *Recorder) handleStart() {
	switch state := r.State(); state {
	case StateIdle, StateStopped:
	default:
		r.log.Debug("start ignored", "state", state)
		return
	}

	if prev := r.session; prev != nil {
		r.discard(prev)
	}

	s := newSession()
	r.session = s
	r.setState(StateRequesting)
	r.view.SetStatus(msgRequesting, SeverityNeutral)
	r.log.Info("requesting microphone", "session_id", s.ID)

	r.spawn(func(ctx context.Context) {
		handle, err := r.negotiator.Acquire(ctx)
		r.queue.push(acquiredEvent{session: s, handle: handle, err: err})
	})
}

func (r *Recorder) handleAcquired(e acquiredEvent) {
	s := e.session
	if s != r.session || r.State() != StateRequesting {
		if e.handle != nil {
			r.releaseHandle(e.handle)
		}
		return
	}
	if e.err != nil {
		r.fail(s, e.err)
		return
	}
	s.capture = e.handle

	mimeType, err := r.selector.Select()
	if err != nil {
		r.fail(s, err)
		return
	}

	enc, err := r.encoders.NewEncoder(s.capture, mimeType, r.callbacks(s))
	if err != nil {
		r.fail(s, &EncoderFaultError{Err: err})
		return
	}
	s.encoder = enc
	s.mimeType = mimeType

	if err := enc.Start(r.timeslice); err != nil {
		r.fail(s, &EncoderFaultError{Err: err})
		return
	}
	r.log.Debug("encoder starting", "session_id", s.ID, "mime_type", mimeType)
}

func (r *Recorder) handleEncoderStarted(s *Session) {
	if s != r.session || r.State() != StateRequesting {
		return
	}

	r.setState(StateRecording)
	r.view.SetEnabled(ControlRecord, false)
	r.view.SetRecording(true)
	r.view.SetEnabled(ControlStop, true)
	r.view.SetEnabled(ControlSend, false)
	r.view.SetStatus(msgRecording, SeverityNeutral)

	s.startedAt = r.clock()
	r.timer.Start(r.clock)
	if err := r.visualizer.Start(s.capture); err != nil {
		r.log.Warn("visualizer unavailable", "session_id", s.ID, "error", err)
	}
	r.log.Info("recording started", "session_id", s.ID, "mime_type", s.mimeType)
}

func (r *Recorder) handleData(s *Session, data []byte) {
	if s != r.session || s.encoder == nil {
		return
	}
	if len(data) == 0 {
		return
	}
	s.fragments = append(s.fragments, data)
}

func (r *Recorder) handleEncoderError(s *Session, err error) {
	if s != r.session || s.encoder == nil {
		return
	}
	r.log.Error("encoder error", "session_id", s.ID, "error", err)
	r.view.SetStatus(msgRecordingErr, SeverityError)
	r.cleanup(s)
}

func (r *Recorder) handleStop() {
	s := r.session
	if r.State() != StateRecording || s == nil || s.encoder == nil || !s.encoder.Recording() {
		return
	}
	if err := s.encoder.Stop(); err != nil {
		r.handleEncoderError(s, &EncoderFaultError{Err: err})
	}
}

func (r *Recorder) handleEncoderStopped(s *Session) {
	if s != r.session || r.State() != StateRecording {
		return
	}

	r.view.SetEnabled(ControlRecord, true)
	r.view.SetRecording(false)
	r.view.SetEnabled(ControlStop, false)
	r.view.SetEnabled(ControlSend, true)

	r.timer.Stop()
	r.visualizer.Stop()
	r.releaseCapture(s)
	s.encoder = nil

	r.view.SetStatus(fmt.Sprintf(msgCompleteFmt, s.elapsed), SeveritySuccess)
	r.setState(StateStopped)
	r.log.Info("recording stopped",
		"session_id", s.ID,
		"elapsed", s.elapsed,
		"fragments", len(s.fragments),
		"bytes", s.size())
}

func (r *Recorder) handleTick(text string) {
	s := r.session
	if s == nil || r.State() != StateRecording {
		return
	}
	s.elapsed = text
	r.view.SetTimerText(text)
}

func (r *Recorder) handleSend() {
	state := r.State()
	if state != StateStopped && state != StateIdle {
		return
	}

	s := r.session
	if s == nil || len(s.fragments) == 0 {
		r.view.SetStatus(msgNoAudio, SeverityError)
		return
	}

	r.setState(StateUploading)
	r.view.SetEnabled(ControlSend, false)
	r.view.SetStatus(msgUploading, SeverityNeutral)

	fragments := s.fragments[:len(s.fragments):len(s.fragments)]
	mimeType := s.mimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	r.spawn(func(ctx context.Context) {
		r.upload(ctx, s, fragments, mimeType)
	})
}

func (r *Recorder) upload(ctx context.Context, s *Session, fragments [][]byte, mimeType string) {
	var outcome Outcome
	defer func() {
		if p := recover(); p != nil {
			outcome = faultOutcome(&UploadFaultError{Err: fmt.Errorf("%v", p)})
		}
		r.queue.push(uploadDoneEvent{session: s, outcome: outcome})
	}()
	outcome = r.uploader.Upload(ctx, fragments, mimeType)
}

func (r *Recorder) handleUploadDone(s *Session, o Outcome) {
	r.view.SetEnabled(ControlSend, true)
	if s != r.session || r.State() != StateUploading {
		return
	}

	r.view.SetStatus(o.Message, o.Severity)
	if o.Err != nil {
		r.log.Warn("upload failed", "session_id", s.ID, "error", o.Err)
	}

	if !o.Clear {
		r.setState(StateStopped)
		return
	}

	r.log.Info("upload complete", "session_id", s.ID, "bytes", s.size())
	s.fragments = nil
	s.mimeType = ""
	r.view.SetTimerText(zeroElapsed)
	r.session = nil
	r.setState(StateIdle)
}

func (r *Recorder) callbacks(s *Session) EncoderCallbacks {
	return EncoderCallbacks{
		OnStart: func() { r.queue.push(encoderStartedEvent{session: s}) },
		OnData:  func(data []byte) { r.queue.push(dataEvent{session: s, data: data}) },
		OnStop:  func() { r.queue.push(encoderStoppedEvent{session: s}) },
		OnError: func(err error) { r.queue.push(encoderErrorEvent{session: s, err: err}) },
	}
}

func (r *Recorder) fail(s *Session, err error) {
	r.log.Error("failed to start recording", "session_id", s.ID, "error", err)
	r.view.SetStatus(fmt.Sprintf(msgStartErrorFmt, err.Error()), SeverityError)
	r.cleanup(s)
}

// cleanup tears a session down after an error and returns to Idle.
func (r *Recorder) cleanup(s *Session) {
	r.timer.Stop()
	r.visualizer.Stop()
	r.discard(s)
	if s == r.session {
		r.session = nil
	}

	r.view.SetEnabled(ControlRecord, true)
	r.view.SetRecording(false)
	r.view.SetEnabled(ControlStop, false)
	r.setState(StateIdle)
}

func (r *Recorder) discard(s *Session) {
	r.releaseCapture(s)
	s.encoder = nil
	s.fragments = nil
	s.mimeType = ""
	s.startedAt = time.Time{}
}

func (r *Recorder) releaseCapture(s *Session) {
	if s.capture == nil {
		return
	}
	r.releaseHandle(s.capture)
	s.capture = nil
}

func (r *Recorder) releaseHandle(h CaptureHandle) {
	for _, track := range h.Tracks() {
		track.Stop()
	}
}

func (r *Recorder) setState(next State) {
	prev := State(r.state.Swap(int32(next)))
	if prev != next {
		r.log.Debug("state transition", "from", prev, "to", next)
	}
}

func (r *Recorder) snapshot() Snapshot {
	snap := Snapshot{State: r.State(), Elapsed: zeroElapsed}
	if s := r.session; s != nil {
		snap.SessionID = s.ID
		snap.Fragments = len(s.fragments)
		snap.Bytes = s.size()
		snap.MimeType = s.mimeType
		snap.Elapsed = s.elapsed
	}
	return snap
}

func (r *Recorder) spawn(fn func(ctx context.Context)) {
	ctx := r.ctx
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn(ctx)
	}()
}

func (r *Recorder) shutdown() {
	if s := r.session; s != nil {
		if s.encoder != nil && s.encoder.Recording() {
			if err := s.encoder.Stop(); err != nil {
				r.log.Warn("encoder stop on shutdown", "session_id", s.ID, "error", err)
			}
		}
		r.cleanup(s)
	}
	r.wg.Wait()

	for _, ev := range r.queue.drain() {
		switch e := ev.(type) {
		case acquiredEvent:
			if e.handle != nil {
				r.releaseHandle(e.handle)
			}
		case snapshotRequest:
			e.reply <- r.snapshot()
		}
	}
	r.running.Store(false)
}

type noopVisualizer struct{}

func (noopVisualizer) Start(CaptureHandle) error { return nil }
func (noopVisualizer) Stop()                     {}
