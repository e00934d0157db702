package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/emoji-explainer/internal/model"
)

// SessionRepo persists and resolves login sessions.  Only the SHA-256 hash
// of a session token is stored; the raw token handed to the client at login
// is the durable identifier used to find the row again.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row and returns its ID.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByTokenHash fetches a session by the hash of its token, whether or not
// it has expired.  Callers decide how to treat expiry: logout distinguishes
// "already expired" from "active", verify only cares about validity.
func (r *SessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// ExpireNow marks a session expired immediately.  The row is kept: an
// expired-but-present session and a logged-out session are deliberately
// indistinguishable.
func (r *SessionRepo) ExpireNow(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET expires_at=UTC_TIMESTAMP() WHERE id=?", id)
	return err
}
