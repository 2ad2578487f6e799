package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/superpizzeria/order-service/internal/model"
	"github.com/superpizzeria/order-service/internal/repository"
	"github.com/superpizzeria/order-service/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// userView is the outward user representation; the password hash is
// never serialized.
type userView struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// tokenResp matches the OAuth2-style password flow response.
type tokenResp struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

func viewOf(u model.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}

// Register handles POST /register. Duplicate usernames fail with 400;
// the check is case-sensitive.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, viewOf(u))
}

// Token handles POST /token: the form-encoded password login. On
// success it returns a bearer access token plus a refresh token.
// Unknown username and wrong password are indistinguishable.
func (h *AuthHandler) Token(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	pair, err := h.Auth.IssueTokens(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  pair.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh handles POST /refresh-token. A consumed, unknown or expired
// refresh token fails with 401; a valid one is rotated and a fresh
// pair returned.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidRefreshToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		case errors.Is(err, repository.ErrExpiredRefreshToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "expired refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  pair.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	})
}

// Me handles GET /users/me/ and returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.User(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, viewOf(u))
}

// reqCtx bounds the duration of DB calls made on behalf of a request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
