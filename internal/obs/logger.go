package obs

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fairyhunter13/course-catalog/internal/config"
)

// SetupLogger configures a JSON slog logger with environment fields. Lines
// stream to stdout and, when a log path is configured, mirror into a
// size-rotated file so the console and the archive carry the same records.
// The message key is renamed to "event" to match the log sink contract.
func SetupLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.MessageKey {
				a.Key = "event"
			}
			return a
		},
	}
	// In dev, show debug level; in prod, default to info
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	var w io.Writer = os.Stdout
	if cfg.LogPath != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
		})
	}
	h := slog.NewJSONHandler(w, opts)
	logger := slog.New(h).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
	return logger
}
