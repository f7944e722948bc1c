package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	progressKey = "progress:records"

	maxSaveAttempts = 3
)

type progressRecord struct {
	AppletID        string     `json:"applet_id"`
	EntityID        string     `json:"entity_id"`
	EventID         string     `json:"event_id"`
	TargetSubjectID *string    `json:"target_subject_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

type progressRepository struct {
	client *redis.Client
}

func NewProgressRepository(client *redis.Client) domain.ProgressRepository {
	return &progressRepository{
		client: client,
	}
}

func (r *progressRepository) LoadSnapshot(ctx context.Context) (*domain.ProgressSnapshot, error) {
	values, err := r.client.HGetAll(ctx, progressKey).Result()
	if err != nil {
		return nil, err
	}

	records := make([]domain.Progress, 0, len(values))
	for field, raw := range values {
		var record progressRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("progress %s: %w", field, ErrInvalidProgressData)
		}
		records = append(records, record.toDomain())
	}

	return domain.NewProgressSnapshot(records), nil
}

// SaveProgress keeps only the most recently started progress per key. An
// older record never overwrites a newer one.
func (r *progressRepository) SaveProgress(ctx context.Context, progress domain.Progress) error {
	if progress.EntityID == "" || progress.EventID == "" {
		return ErrInvalidProgressData
	}

	field := domain.ProgressKey(progress.EntityID, progress.EventID, progress.TargetSubjectID)
	data, err := json.Marshal(fromDomain(progress))
	if err != nil {
		return ErrInvalidProgressData
	}

	txf := func(tx *redis.Tx) error {
		existing, err := tx.HGet(ctx, progressKey, field).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var current progressRecord
			if json.Unmarshal(existing, &current) == nil && current.StartedAt.After(progress.StartedAt) {
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, progressKey, field, data)
			return nil
		})
		return err
	}

	for range maxSaveAttempts {
		err = r.client.Watch(ctx, txf, progressKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func fromDomain(p domain.Progress) progressRecord {
	return progressRecord{
		AppletID:        p.AppletID,
		EntityID:        p.EntityID,
		EventID:         p.EventID,
		TargetSubjectID: p.TargetSubjectID,
		StartedAt:       p.StartedAt,
		EndedAt:         p.EndedAt,
	}
}

func (r progressRecord) toDomain() domain.Progress {
	return domain.Progress{
		AppletID:        r.AppletID,
		EntityID:        r.EntityID,
		EventID:         r.EventID,
		TargetSubjectID: r.TargetSubjectID,
		StartedAt:       r.StartedAt,
		EndedAt:         r.EndedAt,
	}
}
