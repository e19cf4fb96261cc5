package stubapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
)

type authHandler struct {
	store     *memoryStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Role-shaped registration details"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user/register [post]
func (h *authHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	user := domain.User{Name: req.Name, Email: req.Email, Phone: req.Phone, Role: req.Role}
	acc, err := h.store.createAccount(user, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusConflict, errorResponse{Message: "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "registration failed"})
	}

	h.log.Info().Str("user_id", acc.User.ID).Str("role", acc.User.Role).Msg("account registered")
	return c.JSON(http.StatusCreated, successResponse{Success: true, Message: "account created"})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login with email or phone
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /user/login [post]
func (h *authHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	acc, err := h.store.findByIdentifier(req.EmailOrPhone)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: "Invalid credentials"})
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: "Invalid credentials"})
	}

	token, err := issueToken(acc.User, h.jwtSecret, h.tokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "token issuance failed"})
	}

	user := acc.User
	h.log.Info().Str("user_id", user.ID).Msg("login")
	return c.JSON(http.StatusOK, loginResponse{Success: true, User: &user, Token: token})
}

// SendOTP pretends to deliver a one-time password. The stub only logs it.
//
// @Summary      Send a one-time password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendOTPRequest  true  "Target phone number"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Router       /send-otp [post]
func (h *authHandler) SendOTP(c echo.Context) error {
	var req sendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	h.log.Info().Str("phone", req.Phone).Msg("otp requested")
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "code sent"})
}
