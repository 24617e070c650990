package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/middleware"
    "github.com/iliyamo/event-ticketing/internal/repository"
    "github.com/iliyamo/event-ticketing/internal/token"
    "github.com/iliyamo/event-ticketing/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	BcryptCost int
	Users      *repository.UserRepo
	Tokens     *token.Service
}

func NewAuthHandler(bcryptCost int, u *repository.UserRepo, t *token.Service) *AuthHandler {
	return &AuthHandler{BcryptCost: bcryptCost, Users: u, Tokens: t}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResp struct {
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"username"`
	AuthToken string    `json:"auth_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register: create user and return a token immediately, as the login
// step would.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	if len(req.Username) > 255 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username too long"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Password, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	signed, exp, err := h.Tokens.Issue(uid, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		UserID:    uid,
		Username:  req.Username,
		AuthToken: signed,
		ExpiresAt: exp,
	})
}

// Login: verify credentials and return a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
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
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	signed, exp, err := h.Tokens.Issue(u.ID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		UserID:    u.ID,
		Username:  u.Username,
		AuthToken: signed,
		ExpiresAt: exp,
	})
}

// Logout revokes the presented token. The middleware has already
// verified it, so a failure here is a storage problem, not a bad
// token. Logging out twice with the same token yields 401 on the
// second call because verification sees the revocation.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, _ := c.Get("auth_token").(string)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing auth token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, raw, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}

// Status returns the authenticated user's account details.
func (h *AuthHandler) Status(c echo.Context) error {
	uid := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":       u.ID,
		"username":      u.Username,
		"registered_on": u.CreatedAt.UTC(),
	})
}
