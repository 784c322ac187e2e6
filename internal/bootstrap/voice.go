package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/voice-recorder/internal/metrics"
	"github.com/eleven-am/voice-recorder/internal/profile"
	"github.com/eleven-am/voice-recorder/internal/shared"
	"github.com/eleven-am/voice-recorder/internal/transcription"
	"github.com/eleven-am/voice-recorder/internal/voice"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideSTTConfig(cfg *Config) transcription.Config {
	return transcription.Config{
		URL:     cfg.WhisperURL,
		APIKey:  cfg.WhisperAPIKey,
		Timeout: cfg.WhisperTimeout,
		Backoff: shared.BackoffConfig{Attempts: cfg.WhisperRetries},
	}
}

func ProvideTranscriptionClient(cfg transcription.Config, logger *slog.Logger) *transcription.Client {
	client := transcription.NewClient(cfg, logger.With("component", "whisper"))
	if !client.Configured() {
		logger.Warn("WHISPER_URL not set, transcription requests will fail")
	}
	return client
}

// ProvideTranscriber layers the redis transcript cache over the client
// when redis is available.
func ProvideTranscriber(client *transcription.Client, redisClient *redis.Client, cfg *Config, m *metrics.Metrics, logger *slog.Logger) transcription.Transcriber {
	if redisClient == nil {
		return client
	}
	cached := transcription.NewCachedTranscriber(
		client,
		transcription.NewCache(redisClient, cfg.TranscriptCacheTTL),
		logger.With("component", "transcript_cache"),
	)
	cached.OnLookup = m.RecordCacheLookup
	return cached
}

func ProvideVoiceHandler(
	stt transcription.Transcriber,
	profiles *profile.Store,
	m *metrics.Metrics,
	cfg *Config,
	logger *slog.Logger,
) *voice.Handler {
	return voice.NewHandler(stt, profiles, m, cfg.MaxUploadBytes, logger.With("handler", "voice"))
}

func RegisterVoiceRoutes(e *echo.Echo, h *voice.Handler) {
	h.RegisterRoutes(e.Group("/voice"))
}

var VoiceModule = fx.Options(
	fx.Provide(
		ProvideSTTConfig,
		ProvideTranscriptionClient,
		ProvideTranscriber,
		ProvideVoiceHandler,
	),
	fx.Invoke(RegisterVoiceRoutes),
)
