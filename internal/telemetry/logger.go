// Package telemetry provides the shared structured logger used across the
// SDK. Logs are JSON with service identity fields, and entries created
// through Entry carry trace correlation fields when a span is active.
package telemetry

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// serviceFields is a hook stamping every entry with the service identity.
// Explicit fields on an entry win over the stamped defaults.
type serviceFields logrus.Fields

func (f serviceFields) Levels() []logrus.Level { return logrus.AllLevels }

func (f serviceFields) Fire(entry *logrus.Entry) error {
	for k, v := range f {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}

// InitLogger initializes the shared logger with the given configuration.
// Safe to call more than once; only the first call takes effect.
func InitLogger(cfg *Config) {
	loggerOnce.Do(func() {
		logger = logrus.New()

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)

		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})

		logger.AddHook(serviceFields{
			"service.name":    cfg.ServiceName,
			"service.version": cfg.ServiceVersion,
			"environment":     cfg.Environment,
		})
	})
}

// L returns the shared logger, initializing it from the environment on
// first use.
func L() *logrus.Logger {
	if logger == nil {
		InitLogger(NewConfigFromEnv())
	}
	return logger
}

// Entry returns an entry on the given logger, carrying trace correlation
// fields from ctx when a valid span is present.
func Entry(ctx context.Context, logger *logrus.Logger) *logrus.Entry {
	entry := logger.WithContext(ctx)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		entry = entry.WithFields(logrus.Fields{
			"trace.id": span.SpanContext().TraceID().String(),
			"span.id":  span.SpanContext().SpanID().String(),
		})
	}
	return entry
}
