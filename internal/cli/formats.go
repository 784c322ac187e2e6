package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/eleven-am/voice-recorder/internal/platform"
	"github.com/eleven-am/voice-recorder/internal/recorder"
	"github.com/spf13/cobra"
)

func NewFormatsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "Show which recording formats the local ffmpeg supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			prober := platform.NewFFmpegProber(opts.FFmpegPath, newLogger(os.Stderr, opts.LogLevel))
			if err := prober.Err(); err != nil {
				return fmt.Errorf("ffmpeg not usable at %q: %w", opts.FFmpegPath, err)
			}
			return printFormats(cmd.OutOrStdout(), prober)
		},
	}
}

func printFormats(w io.Writer, prober recorder.FormatProber) error {
	for _, mime := range recorder.Candidates {
		mark := "no "
		if prober.IsTypeSupported(mime) {
			mark = "yes"
		}
		fmt.Fprintf(w, "%s  %s\n", mark, mime)
	}

	selected, err := recorder.NewSelector(prober).Select()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nRecording will use %s\n", selected)
	return nil
}
