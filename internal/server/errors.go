package server

import "errors"

var (
	ErrServerClosed         = errors.New("server: closed")
	ErrServerNotRunning     = errors.New("server: not running")
	ErrServerAlreadyRunning = errors.New("server: already running")
	ErrMaxClientsReached    = errors.New("server: maximum clients reached")
	ErrUnauthorized         = errors.New("server: unauthorized")
	ErrInvalidConfig        = errors.New("server: invalid configuration")
	ErrListenerFailed       = errors.New("server: failed to create listener")
)
