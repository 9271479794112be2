package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accountsvc/user-service/internal/api/middleware"
	"github.com/accountsvc/user-service/internal/core/access"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/redact"
)

// AuthHandler serves login, token refresh and permission introspection.
type AuthHandler struct {
	users  ports.UserService
	engine *access.Engine
}

func NewAuthHandler(users ports.UserService, engine *access.Engine) *AuthHandler {
	return &AuthHandler{users: users, engine: engine}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenInfo struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type loginResponse struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
	Tokens  tokenInfo      `json:"tokens"`
}

// Login authenticates a user and issues an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	result, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    redact.UserPayload(result.User),
		Tokens: tokenInfo{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			ExpiresIn:    result.ExpiresIn,
		},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type refreshResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   string `json:"expiresIn"`
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	access, err := h.users.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse{
		Message:     "Token refreshed successfully",
		AccessToken: access,
		ExpiresIn:   "24h",
	})
}

type permissionsResponse struct {
	UserID      int64    `json:"userId"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// MyPermissions reports the caller's current role and derived permission set.
//
// @Summary      Current permissions
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  permissionsResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/my-permissions [get]
func (h *AuthHandler) MyPermissions(c echo.Context) error {
	actor, err := h.engine.Resolve(c.Request().Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return middleware.Denial(err)
	}

	info := h.users.PermissionsOf(actor)
	return c.JSON(http.StatusOK, permissionsResponse{
		UserID:      info.UserID,
		Role:        info.Role,
		Permissions: info.Permissions,
	})
}
