package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndLookup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	exp := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectExec("INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)").
		WithArgs(uint64(9), "abc123", exp).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), 9, "abc123", exp)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id)

	created := time.Now().UTC()
	mock.ExpectQuery("SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=? LIMIT 1").
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
			AddRow(5, 9, "abc123", exp, created))

	s, err := repo.GetByTokenHash(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.UserID)
	assert.False(t, s.Expired(time.Now().UTC()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLookupUnknownToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=? LIMIT 1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByTokenHash(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionExpireNow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("UPDATE sessions SET expires_at=UTC_TIMESTAMP() WHERE id=?").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ExpireNow(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
