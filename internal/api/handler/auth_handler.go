package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/api/metrics"
	"github.com/hirelane/jobboard/internal/api/session"
	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    *session.CookieStore
}

func NewAuthHandler(authService ports.AuthService, sessions *session.CookieStore) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Signup creates a new account and starts a session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	sess, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		ClientIP: c.RealIP(),
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResult(err)).Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	h.sessions.Attach(c, sess.Token)
	return c.JSON(http.StatusCreated, authResponse{Message: "Signup successful", User: sess.User})
}

// Login authenticates an account for the given role and starts a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		ClientIP: c.RealIP(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.sessions.Attach(c, sess.Token)
	return c.JSON(http.StatusOK, authResponse{Message: "Login successful", User: sess.User})
}

// Me returns the account behind the session cookie.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	token, ok := h.sessions.Read(c)
	if !ok {
		return domain.ErrNotAuthenticated
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: user})
}

// Logout clears the session cookie. It succeeds with or without a session.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := h.sessions.Read(c)
	h.authService.Logout(c.Request().Context(), token, c.RealIP())
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

func signupResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrEmailTaken):
		return "conflict"
	}
	return "error"
}

func loginResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	}
	return "error"
}
