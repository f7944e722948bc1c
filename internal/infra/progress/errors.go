package progress

import "errors"

var ErrInvalidProgressData = errors.New("invalid progress data")
