package logging

import (
	"context"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type moduleKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ValidateAndExtractRequestID returns id when it is a UUID, otherwise a fresh one.
func ValidateAndExtractRequestID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewString()
}

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey{}, module)
}

func ModuleFromContext(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey{}).(Module)
	return m, ok
}
