package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/eleven-am/voice-recorder/internal/platform"
	"github.com/spf13/cobra"
)

func NewDevicesCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := platform.NewPortAudioProvider(platform.PortAudioConfig{
				Log: newLogger(os.Stderr, opts.LogLevel),
			})
			if err := provider.Init(); err != nil {
				return err
			}
			defer provider.Close()

			devices, err := provider.Devices()
			if err != nil {
				return err
			}
			printDevices(cmd.OutOrStdout(), devices)
			return nil
		},
	}
}

func printDevices(w io.Writer, devices []platform.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No audio input devices found.")
		return
	}
	for _, d := range devices {
		marker := " "
		if d.Default {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d: %s (%d channels, %.0f Hz)\n", marker, d.Index, d.Name, d.Channels, d.DefaultSampleRate)
	}
	fmt.Fprintln(w, "\nUse --device <index> to record from a specific device.")
}
