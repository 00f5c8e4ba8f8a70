package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ledokol-inc/socialload/config"
)

// Setup points the global logger at the standard output and the rotated log
// file described by cfg. The returned closer releases the file.
func Setup(cfg config.LoggingConfig) io.Closer {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	fileLogger := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxFileSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.CompressRotatedLog,
	}

	writers := make([]io.Writer, 0, 2)
	if standard := standardOutput(cfg.StandardOutput); standard != nil {
		if cfg.Pretty {
			writers = append(writers, zerolog.ConsoleWriter{Out: standard, TimeFormat: "15:04:05"})
		} else {
			writers = append(writers, standard)
		}
	}
	if cfg.File != "" {
		writers = append(writers, fileLogger)
	}
	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
	return fileLogger
}

func standardOutput(name string) io.Writer {
	switch name {
	case "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	default:
		return nil
	}
}
