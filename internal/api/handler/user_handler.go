package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accountsvc/user-service/internal/api/middleware"
	"github.com/accountsvc/user-service/internal/core/access"
	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/redact"
)

// UserHandler serves the REST user resource. Guards run in middleware; every
// outward payload goes through redaction.
type UserHandler struct {
	users  ports.UserService
	engine *access.Engine
}

func NewUserHandler(users ports.UserService, engine *access.Engine) *UserHandler {
	return &UserHandler{users: users, engine: engine}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Position *int   `json:"position" validate:"omitempty,gte=1,lte=5"`
	IsActive *bool  `json:"isActive"`
}

// Create registers a new user account.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsActive: req.IsActive,
	}
	if req.Position != nil {
		role := domain.Role(*req.Position)
		in.Position = &role
	}

	user, err := h.users.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, redact.UserPayload(user))
}

// List returns all users. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   map[string]any
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payloads(users))
}

// Get returns a single user. Owner or admin.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := middleware.TargetID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id, nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redact.UserPayload(user))
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	Position *int    `json:"position" validate:"omitempty,gte=1,lte=5"`
	IsActive *bool   `json:"isActive"`
}

// Update modifies a user. Owner or admin; a new password is re-validated.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Changes"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := middleware.TargetID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsActive: req.IsActive,
	}
	if req.Position != nil {
		role := domain.Role(*req.Position)
		in.Position = &role
	}

	user, err := h.users.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redact.UserPayload(user))
}

// Delete removes a user. Owner or admin. No soft delete.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := middleware.TargetID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the calling user's own record.
//
// @Summary      Own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Router       /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	actor, err := h.engine.Resolve(c.Request().Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return middleware.Denial(err)
	}

	user, err := h.users.Get(c.Request().Context(), actor.ID, nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redact.UserPayload(user))
}

func payloads(users []*domain.User) []map[string]any {
	out := make([]map[string]any, len(users))
	for i, u := range users {
		out[i] = redact.UserPayload(u)
	}
	return out
}
