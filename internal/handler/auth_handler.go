package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "storefront/internal/errors"
	"storefront/internal/service"
	"storefront/internal/session"
)

// AuthHandler handles the /user session endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
	log         logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		log:         log,
	}
}

// LoginRequest carries the password for a credential login.
type LoginRequest struct {
	Password string `json:"password"`
}

// RegisterRequest carries the password of a new user.
type RegisterRequest struct {
	Password string `json:"password" validate:"required"`
}

// HasSessionResponse reports whether a session token is present.
type HasSessionResponse struct {
	HasSession bool `json:"hasSession"`
}

// Login godoc
// @Summary Log in
// @Description Returns the session owner when a valid session exists, otherwise checks the credentials and starts a session.
// @Tags user
// @Accept json
// @Produce json
// @Param username path string true "User name"
// @Param request body LoginRequest true "Password"
// @Success 200 {object} UserResponse "existing session"
// @Success 201 {object} UserResponse "new session"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{username} [put]
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	if token := h.sessions.Token(ctx); token != "" {
		user, err := h.authService.CurrentUser(ctx, token)
		if err == nil {
			return c.JSON(http.StatusOK, UserResponse{Name: user.Name})
		}
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			return fail(c, h.log, err)
		}
		// stale or tampered token, fall back to credentials
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody()
	}

	user, token, err := h.authService.Login(ctx, c.Param("username"), req.Password)
	if err != nil {
		return fail(c, h.log, err)
	}
	if err := h.sessions.SetToken(ctx, token); err != nil {
		return fail(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, UserResponse{Name: user.Name})
}

// Register godoc
// @Summary Register a new user
// @Tags user
// @Accept json
// @Produce json
// @Param username path string true "User name"
// @Param request body RegisterRequest true "Password"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{username} [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	user, token, err := h.authService.Register(ctx, c.Param("username"), req.Password)
	if err != nil {
		return fail(c, h.log, err)
	}
	if err := h.sessions.SetToken(ctx, token); err != nil {
		return fail(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, UserResponse{Name: user.Name})
}

// Logout godoc
// @Summary Log out
// @Description Destroys the session. The user record is kept.
// @Tags user
// @Produce json
// @Param username path string true "User name (ignored)"
// @Success 200 {object} MessageResponse
// @Router /user/{username} [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c.Request().Context()); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// HasSession godoc
// @Summary Report whether a session token is present
// @Description Presence only, the token is not verified.
// @Tags user
// @Produce json
// @Success 200 {object} HasSessionResponse
// @Router /hasSession [get]
func (h *AuthHandler) HasSession(c echo.Context) error {
	return c.JSON(http.StatusOK, HasSessionResponse{HasSession: h.sessions.HasToken(c.Request().Context())})
}
