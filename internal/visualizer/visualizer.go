package visualizer

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/voice-recorder/internal/recorder"
)

const (
	DefaultBars     = 16
	DefaultInterval = time.Second / 60
)

var ErrNoSamples = errors.New("capture handle does not expose samples")

// SampleSource is implemented by capture handles that can hand out their most
// recent mono samples.
type SampleSource interface {
	LatestSamples(dst []float32) int
}

// Display receives bar heights while the visualizer is active. The heights
// slice is reused between frames.
type Display interface {
	SetActive(active bool)
	SetLevels(heights []float64)
}

type Config struct {
	Display  Display
	Bars     int
	FFTSize  int
	Interval time.Duration
	Log      *slog.Logger
}

// Visualizer polls a capture handle's samples at frame rate and pushes bar
// heights to a Display.
type Visualizer struct {
	display  Display
	bars     int
	fftSize  int
	interval time.Duration
	log      *slog.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func New(cfg Config) *Visualizer {
	if cfg.Bars <= 0 {
		cfg.Bars = DefaultBars
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = DefaultFFTSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Visualizer{
		display:  cfg.Display,
		bars:     cfg.Bars,
		fftSize:  cfg.FFTSize,
		interval: cfg.Interval,
		log:      cfg.Log.With("component", "visualizer"),
	}
}

var _ recorder.Visualizer = (*Visualizer)(nil)

func (v *Visualizer) Start(handle recorder.CaptureHandle) error {
	source, ok := handle.(SampleSource)
	if !ok {
		return ErrNoSamples
	}

	v.Stop()

	v.mu.Lock()
	defer v.mu.Unlock()
	stop := make(chan struct{})
	done := make(chan struct{})
	v.stop, v.done = stop, done

	if v.display != nil {
		v.display.SetActive(true)
	}
	go v.loop(source, stop, done)
	return nil
}

// Stop halts the animation loop and waits for it to exit. Idempotent.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	stop, done := v.stop, v.done
	v.stop, v.done = nil, nil
	v.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	if v.display != nil {
		v.display.SetActive(false)
	}
}

func (v *Visualizer) loop(source SampleSource, stop, done chan struct{}) {
	defer close(done)

	analyser := NewAnalyser(v.fftSize)
	samples := analyser.SampleWindow()
	freq := make([]byte, analyser.BinCount())
	var heights []float64

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n := source.LatestSamples(samples)
			analyser.ByteFrequencyData(samples[:n], freq)
			heights = BarHeights(freq, v.bars, heights)
			if v.display != nil {
				v.display.SetLevels(heights)
			}
		}
	}
}
