package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrAuthFailed indicates the remote source rejected our credentials
	ErrAuthFailed = errors.New("authorization token is invalid")

	// ErrSourceOffline indicates the remote source is unreachable
	ErrSourceOffline = errors.New("remote source is unreachable")

	// ErrNotFound indicates the requested record does not exist locally
	ErrNotFound = errors.New("video record not found")

	// ErrNotAuthorized indicates no stored credentials exist yet
	ErrNotAuthorized = errors.New("not signed in")
)
