// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrAlreadyRedeemed indicates that a ticket's one-way
// redemption transition has already happened, while ErrNameExists
// signals that an event name is taken. Anything not covered by a
// sentinel is a storage failure and surfaces as a plain error.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an event, ticket or user does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInvalidTicketCount is returned when an operation is asked to
// create fewer than one ticket. Handlers should translate this into
// an HTTP 400 response.
var ErrInvalidTicketCount = errors.New("ticket count must be >= 1")

// ErrNameExists is returned when creating an event whose name is
// already used by another event. The uniqueness rule is checked
// explicitly inside the creation transaction; the storage-level
// unique key remains as a backstop. Handlers should translate this
// into an HTTP 409 response.
var ErrNameExists = errors.New("event name already exists")

// ErrUsernameExists is returned when registering a username that is
// already taken. Handlers should translate this into an HTTP 409
// response.
var ErrUsernameExists = errors.New("username already exists")

// ErrAlreadyRedeemed is returned when redeeming a ticket whose
// is_redeemed flag is already set. Exactly one caller among any
// number of concurrent redeems observes success; all others get this
// error. Handlers should translate this into an HTTP 410 response.
var ErrAlreadyRedeemed = errors.New("ticket already redeemed")

// isDuplicate reports whether err is a unique-key violation. MySQL
// reports error 1062; SQLite (used by the test suite) reports
// "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
