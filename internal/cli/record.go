package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eleven-am/voice-recorder/internal/platform"
	"github.com/eleven-am/voice-recorder/internal/recorder"
	"github.com/eleven-am/voice-recorder/internal/visualizer"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func NewRecordCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Start the interactive recorder (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts)
		},
	}
}

func runRecord(cmd *cobra.Command, opts *Options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr, opts.LogLevel)

	provider := platform.NewPortAudioProvider(platform.PortAudioConfig{
		SampleRate: opts.SampleRate,
		Device:     opts.Device,
		Log:        logger,
	})
	if err := provider.Init(); err != nil {
		logger.Warn("audio capture unavailable", "error", err)
	}
	defer provider.Close()

	stdinFd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(stdinFd) && term.IsTerminal(int(os.Stdout.Fd()))

	view := NewTerminalView(os.Stdout, interactive, opts.Bars)
	defer view.Finish()

	rec, err := recorder.New(recorder.Config{
		Capture:  provider,
		Formats:  platform.NewFFmpegProber(opts.FFmpegPath, logger),
		Encoders: platform.NewFFmpegEncoderFactory(platform.FFmpegConfig{Path: opts.FFmpegPath, Log: logger}),
		Uploader: recorder.NewHTTPUploader(recorder.UploaderConfig{BaseURL: opts.ServerURL, Log: logger}),
		Visualizer: visualizer.New(visualizer.Config{
			Display: view,
			Bars:    opts.Bars,
			Log:     logger,
		}),
		View: view,
		Log:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating recorder: %w", err)
	}

	if interactive {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		defer term.Restore(stdinFd, oldState)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- rec.Run(runCtx) }()

	view.SetStatus("Press r to record", recorder.SeverityNeutral)
	keyErr := readKeys(runCtx, os.Stdin, rec)

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if keyErr != nil && !errors.Is(keyErr, context.Canceled) {
		return fmt.Errorf("reading keys: %w", keyErr)
	}
	return nil
}
