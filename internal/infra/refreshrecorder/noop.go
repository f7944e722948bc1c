package refreshrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.RefreshRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) Record(_ context.Context, _ domain.RefreshLogRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
