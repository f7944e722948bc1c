package domain

import "context"

//go:generate mockgen -source=progress_repository.go -destination=progress_repository_mock.go -package=domain

type ProgressRepository interface {
	LoadSnapshot(ctx context.Context) (*ProgressSnapshot, error)
	SaveProgress(ctx context.Context, progress Progress) error
}
