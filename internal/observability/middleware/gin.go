package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/observability/metrics"
)

type GinConfig struct {
	SkipPaths   []string
	Module      logging.Module
	TracerName  string
	HTTPMetrics *metrics.HTTPMetrics
}

// Gin extracts the incoming trace context, starts a server span, assigns a
// request ID and logs one access line per request.
func Gin(cfg GinConfig) gin.HandlerFunc {
	tracer := otel.Tracer(cfg.TracerName)

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		requestID := logging.ValidateAndExtractRequestID(c.GetHeader(logging.RequestIDHeader))
		ctx = logging.WithRequestID(ctx, requestID)
		if cfg.Module != "" {
			ctx = logging.WithModule(ctx, cfg.Module)
		}
		c.Header(logging.RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration)
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int64("duration_ms", duration.Milliseconds()),
		)
	}
}

func PanicRecoveryGin() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		ctx := c.Request.Context()
		trace.SpanFromContext(ctx).SetStatus(codes.Error, "panic")
		slog.ErrorContext(ctx, "panic recovered",
			slog.String("panic", fmt.Sprint(recovered)),
			slog.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
	})
}
