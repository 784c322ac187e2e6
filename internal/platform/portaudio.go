package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eleven-am/voice-recorder/internal/recorder"
	"github.com/gordonklaus/portaudio"
)

const (
	DefaultSampleRate      = 48000
	DefaultFramesPerBuffer = 1024
	subscriberBuffer       = 64
)

type PortAudioConfig struct {
	SampleRate      int
	FramesPerBuffer int
	// Device selects an input device by index into Devices(). Negative means
	// the system default.
	Device int
	Log    *slog.Logger
}

// PortAudioProvider opens mono int16 microphone streams. Init must succeed
// before Available reports true.
type PortAudioProvider struct {
	cfg PortAudioConfig
	log *slog.Logger

	mu          sync.Mutex
	initialized bool
}

func NewPortAudioProvider(cfg PortAudioConfig) *PortAudioProvider {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = DefaultFramesPerBuffer
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &PortAudioProvider{cfg: cfg, log: cfg.Log.With("component", "portaudio")}
}

func (p *PortAudioProvider) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	p.initialized = true
	return nil
}

func (p *PortAudioProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

func (p *PortAudioProvider) Available() bool {
	p.mu.Lock()
	initialized := p.initialized
	p.mu.Unlock()
	if !initialized {
		return false
	}
	_, err := p.inputDevice()
	return err == nil
}

// Open starts a capture stream. PortAudio has no echo cancellation, noise
// suppression or gain control; requested constraints are logged and ignored.
func (p *PortAudioProvider) Open(ctx context.Context, c recorder.Constraints) (recorder.CaptureHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	device, err := p.inputDevice()
	if err != nil {
		return nil, &recorder.AcquisitionDeniedError{Reason: "no input device available", Err: err}
	}

	p.log.Debug("opening capture stream",
		"device", device.Name,
		"sample_rate", p.cfg.SampleRate,
		"echo_cancellation", c.EchoCancellation,
		"noise_suppression", c.NoiseSuppression,
		"auto_gain_control", c.AutoGainControl)

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(p.cfg.SampleRate)
	params.FramesPerBuffer = p.cfg.FramesPerBuffer

	handle := &PortAudioHandle{
		hub:        newPCMHub(defaultHistory),
		sampleRate: p.cfg.SampleRate,
		log:        p.log,
	}
	stream, err := portaudio.OpenStream(params, handle.process)
	if err != nil {
		return nil, &recorder.AcquisitionDeniedError{Reason: err.Error(), Err: err}
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, &recorder.AcquisitionDeniedError{Reason: err.Error(), Err: err}
	}
	handle.track = &streamTrack{stream: stream, hub: handle.hub, log: p.log}
	return handle, nil
}

func (p *PortAudioProvider) inputDevice() (*portaudio.DeviceInfo, error) {
	if p.cfg.Device < 0 {
		return portaudio.DefaultInputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if p.cfg.Device >= len(devices) {
		return nil, fmt.Errorf("device index %d out of range", p.cfg.Device)
	}
	d := devices[p.cfg.Device]
	if d.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %q has no input channels", d.Name)
	}
	return d, nil
}

type Device struct {
	Index             int
	Name              string
	Channels          int
	DefaultSampleRate float64
	Default           bool
}

// Devices lists input-capable devices. The provider must be initialized.
func (p *PortAudioProvider) Devices() ([]Device, error) {
	all, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	def, _ := portaudio.DefaultInputDevice()

	var out []Device
	for i, d := range all {
		if d.MaxInputChannels < 1 {
			continue
		}
		out = append(out, Device{
			Index:             i,
			Name:              d.Name,
			Channels:          d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			Default:           def != nil && d.Name == def.Name,
		})
	}
	return out, nil
}

// PortAudioHandle is a live capture stream with a single track.
type PortAudioHandle struct {
	hub        *pcmHub
	track      *streamTrack
	sampleRate int
	log        *slog.Logger
}

func (h *PortAudioHandle) Tracks() []recorder.Track {
	return []recorder.Track{h.track}
}

func (h *PortAudioHandle) SampleRate() int { return h.sampleRate }

func (h *PortAudioHandle) Subscribe(buffer int) (<-chan []int16, func()) {
	return h.hub.subscribe(buffer)
}

func (h *PortAudioHandle) LatestSamples(dst []float32) int {
	return h.hub.LatestSamples(dst)
}

func (h *PortAudioHandle) process(in []int16) {
	h.hub.publish(in)
}

type streamTrack struct {
	stream *portaudio.Stream
	hub    *pcmHub
	log    *slog.Logger
	once   sync.Once
}

func (t *streamTrack) Stop() {
	t.once.Do(func() {
		if err := t.stream.Stop(); err != nil {
			t.log.Warn("failed to stop capture stream", "error", err)
		}
		if err := t.stream.Close(); err != nil {
			t.log.Warn("failed to close capture stream", "error", err)
		}
		if d := t.hub.droppedFrames(); d > 0 {
			t.log.Debug("capture frames dropped by slow subscribers", "frames", d)
		}
		t.hub.close()
	})
}
