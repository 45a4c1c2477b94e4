package level

import "errors"

var (
	ErrUnknownArchetype = errors.New("level: unknown archetype")
	ErrDecode           = errors.New("level: cannot decode map image")
)
