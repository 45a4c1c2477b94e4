package game

import "errors"

var (
	ErrUnknownLevel = errors.New("game: unknown level")
	ErrNotStarted   = errors.New("game: not started")
)
