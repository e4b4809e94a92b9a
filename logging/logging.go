package logging

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/config"
)

// Setup configures the global logger. When a log file is configured, output
// goes to stdout and to a size-rotated file.
func Setup(cfg config.Logging) {
	log.SetLevel(parseLevel(cfg.Level))

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	log.SetOutput(output(cfg))
}

func output(cfg config.Logging) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	})
}

func parseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}
