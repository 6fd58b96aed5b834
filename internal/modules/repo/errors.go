package repo

import "errors"

// ErrLimitReached is returned when an insert would exceed a per-parent cap.
var ErrLimitReached = errors.New("limit reached")
