package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	OutputStdout = "stdout"
	OutputStderr = "stderr"

	// MaxFileSize is the size (in megabytes) a log file may reach before it is rotated.
	MaxFileSize = 100
)

//
// Config describes where and how log entries are written. Any output other than "stdout" or
// "stderr" is treated as a file path, which is rotated once it reaches MaxFileSize.
//
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"` // Days to keep rotated files for. Zero keeps them forever.
}

func DefaultConfig() Config {
	return Config{
		Level:  logrus.InfoLevel.String(),
		Format: FormatText,
		Output: OutputStderr,
	}
}

//
// New builds a logger from the provided configuration.
//
func New(cfg Config) (*logrus.Logger, error) {
	l := logrus.New()

	if err := Configure(l, cfg); err != nil {
		return nil, err
	}

	return l, nil
}

//
// Configure applies the provided configuration to an existing logger.
//
func Configure(l *logrus.Logger, cfg Config) error {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "" {
		level = logrus.InfoLevel.String()
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level '%s'", cfg.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case FormatText, "":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		return fmt.Errorf("invalid log format '%s'", cfg.Format)
	}

	l.SetLevel(lvl)
	l.SetOutput(output(cfg))

	return nil
}

func output(cfg Config) io.Writer {
	switch cfg.Output {
	case OutputStdout:
		return os.Stdout
	case OutputStderr, "":
		return os.Stderr
	default:
		return &lumberjack.Logger{
			Filename: cfg.Output,
			MaxSize:  MaxFileSize,
			MaxAge:   cfg.MaxAge,
			Compress: true,
		}
	}
}

//
// WithComponent tags every entry logged through the returned entry with the provided component.
//
func WithComponent(l logrus.FieldLogger, component string) *logrus.Entry {
	return l.WithField("component", component)
}
