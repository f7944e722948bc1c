package domain

import "context"

//go:generate mockgen -source=cache_reader.go -destination=cache_reader_mock.go -package=domain

// CacheReader reads the locally cached applet data. A missing entry is
// reported as ErrCacheEntryNotFound.
type CacheReader interface {
	GetApplets(ctx context.Context) ([]Applet, error)
	GetAppletDetails(ctx context.Context, appletID string) (*AppletDetails, error)
	GetEvents(ctx context.Context, appletID string) ([]ScheduleEvent, error)
}
