package logging

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Module names the component a log line came from.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type HandlerConfig struct {
	Service       ServiceInfo
	Environment   Environment
	Level         slog.Leveler
	DefaultModule Module
	GCPProjectID  string
}

// contextHandler enriches every record with the request ID, module and trace
// identifiers carried by the context.
type contextHandler struct {
	slog.Handler
	cfg HandlerConfig
}

func NewHandler(w io.Writer, cfg HandlerConfig) slog.Handler {
	level := cfg.Level
	if level == nil {
		level = slog.LevelInfo
	}

	base := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}).WithAttrs([]slog.Attr{
		slog.Group("service",
			slog.String("name", cfg.Service.Name),
			slog.String("version", cfg.Service.Version),
			slog.String("revision", cfg.Service.Revision),
		),
		slog.String("env", string(cfg.Environment)),
	})

	return &contextHandler{Handler: base, cfg: cfg}
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	module := h.cfg.DefaultModule
	if m, ok := ModuleFromContext(ctx); ok {
		module = m
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
		r.AddAttrs(gcpTraceAttrs(ctx, h.cfg.GCPProjectID)...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), cfg: h.cfg}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), cfg: h.cfg}
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
	case slog.MessageKey:
		a.Key = "message"
	case slog.TimeKey:
		a.Key = "timestamp"
	}
	return a
}
