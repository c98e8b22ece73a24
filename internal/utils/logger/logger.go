package logger

import (
	"os"

	"antaracc/internal/config"

	"golang.org/x/exp/slog"
)

// New возвращает логгер для окружения: local - цветной вывод,
// dev - JSON с отладкой, prod - JSON от info.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// WithLevel переопределяет уровень из LOG_LEVEL для JSON-логгеров.
func WithLevel(env, level string) *slog.Logger {
	var lvl slog.Level
	if env == config.EnvLocal || lvl.UnmarshalText([]byte(level)) != nil {
		return New(env)
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func setupPrettySlog() *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}
	return slog.New(opts.NewPrettyHandler(os.Stdout))
}
