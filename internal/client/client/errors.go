package client

import "errors"

var (
	// ErrUnavailable covers transport failures and 5xx answers; callers retry later.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized means the access token was missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is a 404 for the addressed entity or attachment.
	ErrNotFound = errors.New("not found on server")
	// ErrRejected is any other 4xx: the server refused the request as sent.
	ErrRejected = errors.New("rejected by server")
)
