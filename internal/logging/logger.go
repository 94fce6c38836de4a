package logging

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type ContextLogger struct {
	*logrus.Logger
}

var (
	initOnce sync.Once
	shared   *ContextLogger
)

// NewLogger builds a JSON logger that stamps every entry with name. The
// LOG_LEVEL environment variable, when valid, overrides level.
func NewLogger(name string, level logrus.Level, sink io.Writer) *ContextLogger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logger.SetOutput(sink)
	if envLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = envLevel
	}
	logger.SetLevel(level)
	logger.AddHook(nameHook{name: name})

	return &ContextLogger{Logger: logger}
}

// Init returns the process-wide logger. Only the first call constructs it;
// later calls return the same instance and ignore their arguments.
func Init(name string, level logrus.Level, sink io.Writer) *ContextLogger {
	initOnce.Do(func() {
		shared = NewLogger(name, level, sink)
	})
	return shared
}

type nameHook struct {
	name string
}

func (h nameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h nameHook) Fire(entry *logrus.Entry) error {
	entry.Data["name"] = h.name
	return nil
}

func (l *ContextLogger) WithTracing(ctx context.Context) *logrus.Entry {
	entry := l.WithContext(ctx)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		entry = entry.WithFields(logrus.Fields{
			"trace_id": spanCtx.TraceID().String(),
			"span_id":  spanCtx.SpanID().String(),
		})
	}

	return entry
}

func (l *ContextLogger) InfoWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Info(msg)
}

func (l *ContextLogger) ErrorWithTracing(ctx context.Context, msg string, err error, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func (l *ContextLogger) WarnWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	entry := l.WithTracing(ctx)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Warn(msg)
}
