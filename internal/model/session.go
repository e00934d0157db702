package model

import "time"

// Session models an entry in the `sessions` table.  Each session belongs
// to a user and carries an expiry timestamp.  The plain token handed to
// the client is not stored; only its SHA-256 hash.  Logging out sets
// ExpiresAt to the current instant rather than deleting the row, so an
// expired session and a logged-out session look identical in storage.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – SHA-256 hex digest of the session token.
//  ExpiresAt – when the session stops being valid.
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}

// Expired reports whether the session's expiry lies at or before now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
