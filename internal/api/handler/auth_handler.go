package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/puntoventa/providers-api/internal/api/metrics"
	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

const (
	deleteConfirmation  = "eliminarcuenta"
	confirmationMessage = `Debes escribir "eliminarcuenta" para confirmar.`
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,max=255"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type deleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type profileResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account and returns its first token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.failed("register", "Error al registrar usuario", err)
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return h.failed("register", "Error al registrar usuario", err)
	}

	h.succeeded("register")
	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Message: "Usuario registrado exitosamente",
		User:    res.User,
		Token:   res.Token,
	})
}

// Login verifies credentials and returns a new token. Earlier tokens stay valid.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.failed("login", "Error al iniciar sesión", err)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.failed("login", "Error al iniciar sesión", err)
	}

	h.succeeded("login")
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Message: "Login exitoso",
		User:    res.User,
		Token:   res.Token,
	})
}

// Logout revokes the token the request was made with.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), ctxAccessToken(c)); err != nil {
		return h.failed("logout", "Error al cerrar sesión", err)
	}

	h.succeeded("logout")
	metrics.TokensRevokedTotal.WithLabelValues("token").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout exitoso"})
}

// ChangePassword sets a new password at the identity provider.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /api/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	const summary = "Error al cambiar la contraseña"

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.failed("change_password", summary, err)
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.Password); err != nil {
		return h.failed("change_password", summary, err)
	}

	h.succeeded("change_password")
	return c.JSON(http.StatusOK, messageResponse{Message: "Contraseña actualizada exitosamente"})
}

// UpdateProfile renames the authenticated user.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New display name"
// @Success      200   {object}  profileResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /api/update-profile [post]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	const summary = "Error al actualizar perfil"

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.failed("update_profile", summary, err)
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, req.Name)
	if err != nil {
		return h.failed("update_profile", summary, err)
	}

	h.succeeded("update_profile")
	return c.JSON(http.StatusOK, profileResponse{Message: "Perfil actualizado exitosamente", User: user})
}

// DeleteAccount removes the account after an explicit confirmation. Every
// token of the user is revoked first.
//
// @Summary      Delete account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteAccountRequest  true  "Must contain confirmation: eliminarcuenta"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/delete-account [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	const summary = "Error al eliminar cuenta"

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req deleteAccountRequest
	if err := c.Bind(&req); err != nil || req.Confirmation != deleteConfirmation {
		return h.failed("delete_account", summary, &domain.ValidationError{Message: confirmationMessage})
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), userID); err != nil {
		return h.failed("delete_account", summary, err)
	}

	h.succeeded("delete_account")
	metrics.TokensRevokedTotal.WithLabelValues("user").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Cuenta eliminada exitosamente"})
}

func (h *AuthHandler) succeeded(op string) {
	metrics.AuthOperationsTotal.WithLabelValues(op, "success").Inc()
}

func (h *AuthHandler) failed(op, summary string, err error) error {
	metrics.AuthOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
	return fail(summary, err)
}
