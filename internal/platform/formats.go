package platform

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/voice-recorder/internal/recorder"
)

const (
	DefaultFFmpegPath = "ffmpeg"
	probeTimeout      = 10 * time.Second
)

type formatSpec struct {
	codec string
	muxer string
	extra []string
}

var formatSpecs = map[string]formatSpec{
	recorder.FormatWebMOpus: {codec: "libopus", muxer: "webm"},
	recorder.FormatWebM:     {codec: "libvorbis", muxer: "webm"},
	recorder.FormatOggOpus:  {codec: "libopus", muxer: "ogg"},
	// mp4 needs a fragmented layout to be written to a pipe.
	recorder.FormatMP4: {codec: "aac", muxer: "mp4", extra: []string{"-movflags", "frag_keyframe+empty_moov"}},
}

// encodeArgs builds the ffmpeg command line that reads mono s16le PCM from
// stdin and writes the container for mimeType to stdout.
func encodeArgs(mimeType string, sampleRate int) ([]string, error) {
	spec, ok := formatSpecs[mimeType]
	if !ok {
		return nil, fmt.Errorf("unsupported mime type %q", mimeType)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le", "-ar", strconv.Itoa(sampleRate), "-ac", "1",
		"-i", "pipe:0",
		"-c:a", spec.codec,
	}
	args = append(args, spec.extra...)
	return append(args, "-f", spec.muxer, "pipe:1"), nil
}

// FFmpegProber answers format support from the local ffmpeg build's encoder
// and muxer lists. ffmpeg is queried once.
type FFmpegProber struct {
	path string
	run  func(ctx context.Context, args ...string) ([]byte, error)
	log  *slog.Logger

	once     sync.Once
	encoders map[string]bool
	muxers   map[string]bool
	err      error
}

func NewFFmpegProber(path string, log *slog.Logger) *FFmpegProber {
	if path == "" {
		path = DefaultFFmpegPath
	}
	if log == nil {
		log = slog.Default()
	}
	p := &FFmpegProber{path: path, log: log.With("component", "ffmpeg_prober")}
	p.run = func(ctx context.Context, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, p.path, args...).Output()
	}
	return p
}

var _ recorder.FormatProber = (*FFmpegProber)(nil)

func (p *FFmpegProber) IsTypeSupported(mimeType string) bool {
	spec, ok := formatSpecs[mimeType]
	if !ok {
		return false
	}
	if err := p.load(); err != nil {
		return false
	}
	return p.encoders[spec.codec] && p.muxers[spec.muxer]
}

// Err reports why probing failed, if it did.
func (p *FFmpegProber) Err() error {
	return p.load()
}

func (p *FFmpegProber) load() error {
	p.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()

		out, err := p.run(ctx, "-hide_banner", "-encoders")
		if err != nil {
			p.err = fmt.Errorf("list ffmpeg encoders: %w", err)
			p.log.Warn("ffmpeg probe failed", "error", p.err)
			return
		}
		p.encoders = parseCapabilityList(out)

		out, err = p.run(ctx, "-hide_banner", "-muxers")
		if err != nil {
			p.err = fmt.Errorf("list ffmpeg muxers: %w", err)
			p.log.Warn("ffmpeg probe failed", "error", p.err)
			return
		}
		p.muxers = parseCapabilityList(out)
	})
	return p.err
}

// parseCapabilityList reads the names column of `ffmpeg -encoders` or
// `ffmpeg -muxers` output. Entries start after the dashed separator line.
func parseCapabilityList(out []byte) map[string]bool {
	names := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	started := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !started {
			started = strings.HasPrefix(line, "--")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, name := range strings.Split(fields[1], ",") {
			names[name] = true
		}
	}
	return names
}
