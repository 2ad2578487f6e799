// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting error strings. Not-found conditions on
// plain reads are reported as sql.ErrNoRows, matching database/sql.
package repository

import "errors"

// ErrUsernameTaken is returned when registering a username that
// already exists. Handlers translate this into an HTTP 400 response.
var ErrUsernameTaken = errors.New("username already taken")

// ErrItemNotFound is returned when an order item mutation targets an
// ID that does not exist. Handlers translate this into HTTP 404.
var ErrItemNotFound = errors.New("order item not found")

// ErrForbidden is returned when the caller attempts an operation on
// an order they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidRefreshToken is returned when a presented refresh token
// is unknown, already consumed, or lost a rotation race. It maps to
// HTTP 401.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ErrExpiredRefreshToken is returned when a refresh token row exists
// but its expiry has passed. The stale row is deleted as part of the
// rejection. It maps to HTTP 401.
var ErrExpiredRefreshToken = errors.New("expired refresh token")
