package handlers

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/lamdv/socialverse/backend/internal/mailer"
	"github.com/lamdv/socialverse/backend/internal/models"
	"github.com/lamdv/socialverse/backend/internal/repositories"
	"github.com/lamdv/socialverse/backend/internal/token"
	"github.com/lamdv/socialverse/backend/pkg/logging"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *token.Service
	mail           mailer.Mailer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *token.Service, mail mailer.Mailer) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		mail:           mail,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/can-use-email", h.CanUseEmail)
	g.POST("/signup", h.SignUp)
	g.POST("/login", h.Login)
	g.GET("/auth-user", h.AuthUser)
	g.POST("/logout", h.Logout)
	g.POST("/change-password", h.ChangePassword)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
}

// CanUseEmail reports whether an email address is well-formed and free.
func (h *AuthHandler) CanUseEmail(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email")
	}
	if req.Email == "" {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email")
	}
	if !emailRegex.MatchString(req.Email) {
		return respondError(c, http.StatusBadRequest, "INVALID_EMAIL_FORMAT")
	}

	exists, err := h.userRepository.EmailExists(c.Request().Context(), req.Email)
	if err != nil {
		return internalError(c, err)
	}
	if exists {
		return respondError(c, http.StatusBadRequest, "EMAIL_HAS_BEEN_USED")
	}
	return respondData(c, echo.Map{"result": true})
}

// SignUp registers a new account and opens a session. The username is a
// placeholder derived from the current timestamp until the user picks one.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email or password")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email or password")
	}

	ctx := c.Request().Context()
	exists, err := h.userRepository.EmailExists(ctx, req.Email)
	if err != nil {
		return internalError(c, err)
	}
	if exists {
		return respondError(c, http.StatusBadRequest, "EMAIL_HAS_BEEN_USED")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}

	user := &models.User{
		Username:  strconv.FormatInt(time.Now().UnixMilli(), 10),
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return internalError(c, err)
	}

	snapshot := user.AuthUser()
	signed, err := h.tokens.Sign(snapshot)
	if err != nil {
		return internalError(c, err)
	}

	setTokenCookie(c, signed, token.SessionTTL)
	return respondData(c, echo.Map{"user": snapshot, "token": signed})
}

// Login authenticates email+password and opens a fresh 7-day session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email or password")
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "USER_WITH_EMAIL_NOT_FOUND")
		}
		return internalError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, http.StatusBadRequest, "INCORRECT_EMAIL_OR_PASSWORD")
	}

	snapshot := user.AuthUser()
	signed, err := h.tokens.Sign(snapshot)
	if err != nil {
		return internalError(c, err)
	}

	setTokenCookie(c, signed, token.SessionTTL)
	return respondData(c, echo.Map{"user": snapshot, "token": signed})
}

// AuthUser validates or renews the caller's bearer token. An expired token
// is renewed by matching its embedded email+hash snapshot against the
// stored user; a password change since issuance makes that lookup fail, so
// stale tokens die here.
func (h *AuthHandler) AuthUser(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	parts := splitBearer(authHeader)
	if parts == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	claims, expired, err := h.tokens.ParseAllowExpired(parts)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_USER")
	}

	snapshot := claims.User
	if expired {
		user, err := h.userRepository.GetUserByCredentials(c.Request().Context(), snapshot.Email, snapshot.Password)
		if err != nil {
			if err == repositories.ErrNotFound {
				return respondError(c, http.StatusBadRequest, "INVALID_USER")
			}
			return internalError(c, err)
		}
		snapshot = user.AuthUser()
	}

	signed, err := h.tokens.Sign(snapshot)
	if err != nil {
		return internalError(c, err)
	}

	setTokenCookie(c, signed, token.SessionTTL)
	return respondData(c, echo.Map{"user": snapshot, "token": signed})
}

// Logout clears the session cookie. Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := c.Cookie(tokenCookieName); err == nil {
		clearTokenCookie(c)
	}
	return respondData(c, echo.Map{"result": true})
}

// ChangePassword verifies the old password and stores a new hash. No token
// list is kept; outstanding tokens become unrenewable once the hash changes.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email, password or newPassword")
	}
	if req.Email == "" || req.Password == "" || req.NewPassword == "" {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email, password or newPassword")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "INCORRECT_EMAIL_OR_PASSWORD")
		}
		return internalError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, http.StatusBadRequest, "INCORRECT_EMAIL_OR_PASSWORD")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.userRepository.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return internalError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword issues a 6-character reset code and mails it to the user.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "USER_WITH_EMAIL_NOT_FOUND")
		}
		return internalError(c, err)
	}

	code, err := generateResetCode(6)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.userRepository.UpdateResetPasswordToken(ctx, user.ID, code); err != nil {
		return internalError(c, err)
	}

	name := user.FullName
	if name == "" {
		name = user.Email
	}
	body := fmt.Sprintf(
		`<p>Hey %q,</p><p>We received a request to reset your password. The reset password code is %q.<br>If you did not make this request, you can safely ignore this message.</p>`,
		name, code,
	)
	if err := h.mail.Send(ctx, user.Email, "Reset Password Request", body); err != nil {
		return internalError(c, err)
	}

	logging.FromContext(ctx).Info("reset code issued", "user", user.ID.Hex())
	return respondData(c, true)
}

// ResetPassword swaps the password for a user holding a valid reset code and
// opens a new session.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: email, code or password")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "USER_WITH_EMAIL_NOT_FOUND")
		}
		return internalError(c, err)
	}

	if user.ResetPasswordToken == "" || user.ResetPasswordToken != req.Code {
		return respondError(c, http.StatusBadRequest, "INVALID_RESET_CODE")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.userRepository.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return internalError(c, err)
	}

	user.Password = string(newHash)
	snapshot := user.AuthUser()
	signed, err := h.tokens.Sign(snapshot)
	if err != nil {
		return internalError(c, err)
	}

	setTokenCookie(c, signed, token.SessionTTL)
	return respondData(c, echo.Map{"user": snapshot, "token": signed})
}

const resetCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateResetCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = resetCodeCharset[int(b)%len(resetCodeCharset)]
	}
	return string(buf), nil
}

// splitBearer returns the token part of an "Authorization: Bearer <t>"
// header, or "" if the header is absent or malformed.
func splitBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
