package registry

import "errors"

var (
	ErrNilActor    = errors.New("registry: nil actor")
	ErrEmptyID     = errors.New("registry: actor id is empty")
	ErrDuplicateID = errors.New("registry: duplicate actor id")
)
