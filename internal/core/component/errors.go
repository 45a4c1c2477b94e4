package component

import "errors"

var (
	ErrUnknownCue    = errors.New("component: unknown sound cue")
	ErrDuplicateCue  = errors.New("component: duplicate sound cue")
	ErrUnknownScene  = errors.New("component: unknown menu scene")
	ErrUnknownCamera = errors.New("component: unknown camera")
)
