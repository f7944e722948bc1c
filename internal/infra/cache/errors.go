package cache

import "errors"

var (
	ErrInvalidCacheData = errors.New("invalid cache data")
	ErrAppletIDMissing  = errors.New("applet id is required")
)
