package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emoji-explainer/internal/config"
	"github.com/iliyamo/emoji-explainer/internal/model"
	"github.com/iliyamo/emoji-explainer/internal/repository"
	"github.com/iliyamo/emoji-explainer/internal/utils"
)

// AuthHandler bundles dependencies for the identity endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"` // optional; defaults to USER
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type logoutReq struct {
	Token string `json:"token"`
}
type roleUpdateReq struct {
	UserID  uint64 `json:"userId"`
	NewRole string `json:"newRole"`
}

// Register: create a user, defaulting the role to USER when unspecified.
// Duplicate emails answer 409 Conflict without creating a second row.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password/email required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, role)
	if err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "a user with this email already exists"})
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "a user with this username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully.",
		"user_id": uid,
	})
}

// Login: verify credentials and open a session.  The raw random token
// returned here is the session's durable identifier; only its SHA-256 hash
// is stored.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	if _, err := h.Sessions.Create(ctx, u.ID, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"session_token": tok.Raw}) // raw back to client
}

// Logout: mark the session expired immediately.  The row is kept, so an
// already-expired session answers 410 rather than repeating the logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.Token)
	if raw == "" {
		raw = strings.TrimSpace(c.QueryParam("token"))
	}
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.GetByTokenHash(ctx, utils.HashTokenRaw(raw))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active session found for the given token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if sess.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusGone, echo.Map{"error": "session already expired"})
	}
	if err := h.Sessions.ExpireNow(ctx, sess.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User successfully logged out."})
}

// Verify: report whether a session token is still valid and, when it is,
// the owning user's role.  Invalid or expired tokens are not errors here;
// callers poll this endpoint to gate their own requests.
func (h *AuthHandler) Verify(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("session_token"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	invalid := echo.Map{"is_valid": false, "user_role": ""}

	sess, err := h.Sessions.GetByTokenHash(ctx, utils.HashTokenRaw(raw))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusOK, invalid)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if sess.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusOK, invalid)
	}

	u, err := h.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_valid": true, "user_role": u.Role})
}

// UpdateRole: admin-only (enforced by SessionAuth + RequireRole on the
// route).  Field names mirror the public contract: userId / newRole in,
// userId / updatedRole / status out.
func (h *AuthHandler) UpdateRole(c echo.Context) error {
	var req roleUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.NewRole))
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.UpdateRole(ctx, req.UserID, role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":      req.UserID,
		"updatedRole": role,
		"status":      "Success",
	})
}
