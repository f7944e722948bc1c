package domain

import "context"

//go:generate mockgen -source=refresh_recorder.go -destination=refresh_recorder_mock.go -package=domain

type RefreshRecorder interface {
	Record(ctx context.Context, record RefreshLogRecord) error
	Close() error
}
