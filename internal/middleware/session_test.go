package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/emoji-explainer/internal/config"
	"github.com/iliyamo/emoji-explainer/internal/repository"
	"github.com/iliyamo/emoji-explainer/internal/utils"
)

const (
	qSessionByHash = "SELECT id,user_id,token_hash,expires_at,created_at FROM sessions WHERE token_hash=? LIMIT 1"
	qUserByID      = "SELECT id,username,email,password_hash,role,created_at,updated_at FROM users WHERE id=? LIMIT 1"
)

func newSessionAuth(t *testing.T) (echo.MiddlewareFunc, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return SessionAuth(repository.NewSessionRepo(db), repository.NewUserRepo(db)), mock
}

func authedCtx(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/users/role/update", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okNext(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestSessionAuthMissingHeader(t *testing.T) {
	mw, _ := newSessionAuth(t)

	c, rec := authedCtx("")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthUnknownToken(t *testing.T) {
	mw, mock := newSessionAuth(t)

	mock.ExpectQuery(qSessionByHash).WithArgs(utils.HashTokenRaw("nope")).
		WillReturnError(sql.ErrNoRows)

	c, rec := authedCtx("nope")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionAuthExpiredToken(t *testing.T) {
	mw, mock := newSessionAuth(t)

	mock.ExpectQuery(qSessionByHash).WithArgs(utils.HashTokenRaw("stale")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
			AddRow(3, 1, "h", time.Now().UTC().Add(-time.Minute), time.Now().UTC()))

	c, rec := authedCtx("stale")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionAuthInjectsIdentity(t *testing.T) {
	mw, mock := newSessionAuth(t)

	now := time.Now().UTC()
	mock.ExpectQuery(qSessionByHash).WithArgs(utils.HashTokenRaw("live")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
			AddRow(3, 9, "h", now.Add(time.Hour), now))
	mock.ExpectQuery(qUserByID).WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(9, "root", "root@example.com", "h", "ADMIN", now, now))

	c, rec := authedCtx("live")
	require.NoError(t, mw(func(c echo.Context) error {
		assert.Equal(t, uint64(9), c.Get("user_id"))
		assert.Equal(t, "ADMIN", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("ADMIN")

	c, rec := authedCtx("")
	c.Set("role", "USER")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = authedCtx("")
	c.Set("role", "ADMIN")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutSessionAuth(t *testing.T) {
	mw := RequireRole("ADMIN")

	c, rec := authedCtx("")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing role context means forbidden")
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	c, rec := authedCtx("")
	require.NoError(t, mw(okNext)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
