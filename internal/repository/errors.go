// Package repository implements database/sql access to the MySQL store and
// defines sentinel errors reused across repositories.  These sentinels allow
// handlers to distinguish failure scenarios without string matching: for
// example ErrEmailExists maps to HTTP 409 while a plain sql.ErrNoRows from a
// lookup maps to 404.
package repository

import "errors"

// ErrEmailExists is returned when a user insert collides with the unique
// email index.  Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when a user insert collides with the unique
// username index.
var ErrUsernameExists = errors.New("username already exists")

// ErrExplanationExists is returned when an explanation insert collides with
// the unique emoji_id index, meaning another writer persisted an explanation
// for the same emoji first.  The explanation service treats this as "lost
// the race" and re-reads the stored row.
var ErrExplanationExists = errors.New("explanation already exists for emoji")
