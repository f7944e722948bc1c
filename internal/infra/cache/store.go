package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const (
	appletsKey             = "cache:applets"
	appletDetailsKeyPrefix = "cache:applet-details:"
	eventsKeyPrefix        = "cache:events:"
)

var _ domain.CacheReader = (*Store)(nil)

// Store is the Redis-backed query cache of applet data.
type Store struct {
	client *redis.Client
	loc    *time.Location
}

func NewStore(client *redis.Client, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		client: client,
		loc:    loc,
	}
}

// GetApplets returns an empty list when no applet is cached.
func (s *Store) GetApplets(ctx context.Context) ([]domain.Applet, error) {
	values, err := s.client.HGetAll(ctx, appletsKey).Result()
	if err != nil {
		return nil, err
	}
	applets := make([]domain.Applet, 0, len(values))
	for id, raw := range values {
		var record AppletRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("applet %s: %w", id, ErrInvalidCacheData)
		}
		applets = append(applets, record.toDomain())
	}
	sort.Slice(applets, func(i, j int) bool { return applets[i].ID < applets[j].ID })

	return applets, nil
}

func (s *Store) GetAppletDetails(ctx context.Context, appletID string) (*domain.AppletDetails, error) {
	data, err := s.client.Get(ctx, appletDetailsKeyPrefix+appletID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheEntryNotFound
		}
		return nil, err
	}

	var record AppletDetailsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("applet details %s: %w", appletID, ErrInvalidCacheData)
	}

	return record.toDomain(appletID), nil
}

// GetEvents skips events that cannot be decoded so one bad record does not
// hide the rest of the applet.
func (s *Store) GetEvents(ctx context.Context, appletID string) ([]domain.ScheduleEvent, error) {
	data, err := s.client.Get(ctx, eventsKeyPrefix+appletID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheEntryNotFound
		}
		return nil, err
	}

	var records []EventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("events %s: %w", appletID, ErrInvalidCacheData)
	}

	events := make([]domain.ScheduleEvent, 0, len(records))
	for _, r := range records {
		event, err := r.toDomain(s.loc)
		if err != nil {
			slog.WarnContext(ctx, "skipping undecodable cached event",
				slog.String("applet_id", appletID),
				slog.String("event_id", r.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// Save replaces the cached state of one applet. Events are validated before
// anything is written.
func (s *Store) Save(ctx context.Context, snapshot AppletSnapshot) error {
	appletID := snapshot.Applet.ID
	if appletID == "" {
		return ErrAppletIDMissing
	}

	for _, r := range snapshot.Events {
		if _, err := r.toDomain(s.loc); err != nil {
			return err
		}
	}

	events := snapshot.Events
	if events == nil {
		events = []EventRecord{}
	}

	appletData, err := json.Marshal(snapshot.Applet)
	if err != nil {
		return ErrInvalidCacheData
	}
	detailsData, err := json.Marshal(snapshot.Details)
	if err != nil {
		return ErrInvalidCacheData
	}
	eventsData, err := json.Marshal(events)
	if err != nil {
		return ErrInvalidCacheData
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, appletsKey, appletID, appletData)
	pipe.Set(ctx, appletDetailsKeyPrefix+appletID, detailsData, 0)
	pipe.Set(ctx, eventsKeyPrefix+appletID, eventsData, 0)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Remove(ctx context.Context, appletID string) error {
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, appletsKey, appletID)
	pipe.Del(ctx, appletDetailsKeyPrefix+appletID, eventsKeyPrefix+appletID)

	_, err := pipe.Exec(ctx)
	return err
}
