package bootstrap

import (
	"log/slog"
	"os"

	_ "github.com/eleven-am/voice-recorder/docs"
	"github.com/eleven-am/voice-recorder/internal/metrics"
	"github.com/eleven-am/voice-recorder/internal/profile"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	ProfileHandler *profile.Handler
	BuilderHandler *profile.BuilderHandler
	Metrics        *metrics.Metrics
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	params.ProfileHandler.RegisterRoutes(e.Group("/profiles"))
	params.BuilderHandler.RegisterRoutes(e.Group("/builder"))

	e.GET("/metrics", echo.WrapHandler(params.Metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger
}

func ProvideProfileHandler(store *profile.Store, logger *slog.Logger) *profile.Handler {
	return profile.NewHandler(store, logger.With("handler", "profile"))
}

func ProvideBuilderHandler(logger *slog.Logger) *profile.BuilderHandler {
	return profile.NewBuilderHandler(logger.With("handler", "builder"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideProfileHandler,
		ProvideBuilderHandler,
	),
	fx.Invoke(RegisterRoutes),
)
