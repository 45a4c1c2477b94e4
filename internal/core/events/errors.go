package events

import "errors"

var (
	ErrNilHandler = errors.New("events: nil handler")
)
