package configapi

import (
	"log/slog"
)

// CallEvent records one round trip to the configuration service.
type CallEvent struct {
	Method    string
	Resource  Resource
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about configuration calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"resource", string(event.Resource),
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.Warn("config_call", append(attrs, "status", "err:"+event.ErrorCode)...)
		return
	}
	o.logger.Debug("config_call", append(attrs, "status", "ok")...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
