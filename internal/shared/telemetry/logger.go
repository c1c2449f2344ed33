package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout)
)

// Options configures the process-wide logger.
type Options struct {
	Level string
	// File enables a rotating log file in addition to stdout.
	File string
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})
	return l
}

// Init replaces the process-wide logger according to opts.
func Init(opts Options) {
	var out io.Writer = os.Stdout
	if strings.TrimSpace(opts.File) != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	l := newLogger(out)
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(opts.Level)); err == nil {
		l.SetLevel(lvl)
	}
	SetOutput(l)
}

// SetOutput swaps the underlying logger; tests use it to capture output.
func SetOutput(l *logrus.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Writer returns a logger writing JSON lines to w.
func Writer(w io.Writer) *logrus.Logger {
	return newLogger(w)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	entry(fields).Info(msg)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	entry(fields).Warn(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	entry(fields).Error(msg)
}

func entry(fields map[string]any) *logrus.Entry {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return l.WithFields(logrus.Fields(fields))
}
