package eventlog

import "errors"

// Sentinel kinds for event log errors.
var (
	ErrVersionConflict = errors.New("stream version advanced since replay")
	ErrClosed          = errors.New("event log closed")
)
