// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrHubFull      = errors.New("websocket hub broadcast queue is full")
)
