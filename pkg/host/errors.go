package host

import "errors"

// ErrInterval is returned by Run for a tick interval that is not positive.
var ErrInterval = errors.New("host: tick interval must be positive")
