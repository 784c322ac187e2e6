package cli

import (
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

const (
	defaultServerURL = "http://localhost:5001"
	defaultLogLevel  = "warn"
)

// Options holds the flags shared by every command.
type Options struct {
	ServerURL  string
	FFmpegPath string
	Device     int
	SampleRate int
	Bars       int
	LogLevel   string
}

func defaultOptions() *Options {
	return &Options{
		ServerURL:  getEnv("VOICE_SERVER_URL", defaultServerURL),
		FFmpegPath: getEnv("VOICE_FFMPEG_PATH", "ffmpeg"),
		Device:     getEnvInt("VOICE_DEVICE", -1),
		SampleRate: getEnvInt("VOICE_SAMPLE_RATE", 48000),
		Bars:       getEnvInt("VOICE_BARS", 16),
		LogLevel:   getEnv("VOICE_LOG_LEVEL", defaultLogLevel),
	}
}

func NewRootCmd() *cobra.Command {
	opts := defaultOptions()

	rootCmd := &cobra.Command{
		Use:   "voice-recorder",
		Short: "Record from the microphone and transcribe",
		Long:  "A terminal voice recorder. Press r to record, s to stop, u to upload for transcription and q to quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ServerURL, "server", opts.ServerURL, "Transcription server base URL")
	flags.StringVar(&opts.FFmpegPath, "ffmpeg", opts.FFmpegPath, "Path to the ffmpeg binary")
	flags.IntVar(&opts.Device, "device", opts.Device, "Input device index (see 'devices'); -1 for the default")
	flags.IntVar(&opts.SampleRate, "rate", opts.SampleRate, "Capture sample rate in Hz")
	flags.IntVar(&opts.Bars, "bars", opts.Bars, "Number of visualizer bars")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level: debug, info, warn or error")

	rootCmd.AddCommand(NewRecordCmd(opts))
	rootCmd.AddCommand(NewDevicesCmd(opts))
	rootCmd.AddCommand(NewFormatsCmd(opts))

	return rootCmd
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
