// Package http is the HTTP boundary: request decoding, error-to-status
// mapping and the session cookie contract. All session-flow decisions
// live in the service layer.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/service"
	"github.com/gatewatch/auth-service/internal/utils/metrics"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "jwt"

// AuthHandler handles the authentication HTTP surface.
type AuthHandler struct {
	logger      *zap.Logger
	authService *service.AuthService
	tokenTTL    time.Duration
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(logger *zap.Logger, authService *service.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		logger:      logger.Named("auth_handler"),
		authService: authService,
		tokenTTL:    tokenTTL,
	}
}

// setSessionCookie applies the cookie contract: HttpOnly, SameSite=Lax,
// Path=/, lifetime matching the token's.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(h.tokenTTL.Seconds()), "/", "", false, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.SignupAttemptsTotal.WithLabelValues("malformed").Inc()
		RespondWithError(c, http.StatusUnprocessableEntity, "Malformed request", CodeMalformedRequest, h.logger, err)
		return
	}

	err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.Requires2FA)
	if err != nil {
		switch {
		case domainErrors.IsConflict(err):
			metrics.SignupAttemptsTotal.WithLabelValues("conflict").Inc()
			RespondWithError(c, http.StatusConflict, "User already exists", CodeUserAlreadyExists, h.logger, err)
		case errors.Is(err, domainErrors.ErrMalformedRequest):
			metrics.SignupAttemptsTotal.WithLabelValues("malformed").Inc()
			RespondWithError(c, http.StatusUnprocessableEntity, "Malformed request", CodeMalformedRequest, h.logger, err)
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			metrics.SignupAttemptsTotal.WithLabelValues("invalid").Inc()
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", CodeInvalidCredentials, h.logger, err)
		default:
			metrics.SignupAttemptsTotal.WithLabelValues("error").Inc()
			RespondWithError(c, http.StatusInternalServerError, "Unexpected error", CodeInternal, h.logger, err)
		}
		return
	}

	metrics.SignupAttemptsTotal.WithLabelValues("created").Inc()
	RespondWithMessage(c, http.StatusCreated, "User created successfully!")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login. An account without a second factor gets a
// session cookie and 200; an account with one gets 206 and the login
// attempt id — the code travels only through the notification channel.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("malformed").Inc()
		RespondWithError(c, http.StatusUnprocessableEntity, "Malformed request", CodeMalformedRequest, h.logger, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", CodeInvalidCredentials, h.logger, err)
			return
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		RespondWithError(c, http.StatusInternalServerError, "Unexpected error", CodeInternal, h.logger, err)
		return
	}

	if result.TwoFARequired {
		metrics.LoginAttemptsTotal.WithLabelValues("pending_2fa").Inc()
		c.JSON(http.StatusPartialContent, gin.H{
			"message":        "2FA required",
			"loginAttemptId": result.LoginAttemptID.String(),
		})
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	h.setSessionCookie(c, result.Token)
	RespondWithMessage(c, http.StatusOK, "User logged in successfully!")
}

type verifyTwoFARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	Code           string `json:"code"`
}

// VerifyTwoFA handles POST /verify-2fa. The session cookie is issued only
// here, after the second factor succeeds — never on the pending login
// response.
func (h *AuthHandler) VerifyTwoFA(c *gin.Context) {
	var req verifyTwoFARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.TwoFAVerificationsTotal.WithLabelValues("malformed").Inc()
		RespondWithError(c, http.StatusBadRequest, "Malformed request", CodeMalformedRequest, h.logger, err)
		return
	}

	token, err := h.authService.VerifyTwoFA(c.Request.Context(), req.Email, req.LoginAttemptID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMalformedRequest):
			metrics.TwoFAVerificationsTotal.WithLabelValues("malformed").Inc()
			RespondWithError(c, http.StatusBadRequest, "Malformed request", CodeMalformedRequest, h.logger, err)
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			metrics.TwoFAVerificationsTotal.WithLabelValues("invalid").Inc()
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", CodeInvalidCredentials, h.logger, err)
		default:
			metrics.TwoFAVerificationsTotal.WithLabelValues("error").Inc()
			RespondWithError(c, http.StatusInternalServerError, "Unexpected error", CodeInternal, h.logger, err)
		}
		return
	}

	metrics.TwoFAVerificationsTotal.WithLabelValues("ok").Inc()
	h.setSessionCookie(c, token)
	RespondWithMessage(c, http.StatusOK, "2FA verified successfully!")
}

// Logout handles POST /logout. The session cookie is required: a missing
// cookie is 400, a token that fails validation is 401.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		RespondWithError(c, http.StatusBadRequest, "Missing token", CodeMissingToken, h.logger, domainErrors.ErrMissingToken)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		if domainErrors.IsUnauthorized(err) {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token", CodeInvalidToken, h.logger, err)
			return
		}
		RespondWithError(c, http.StatusInternalServerError, "Unexpected error", CodeInternal, h.logger, err)
		return
	}

	h.clearSessionCookie(c)
	RespondWithMessage(c, http.StatusOK, "User logged out successfully!")
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyToken handles POST /verify-token.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusUnprocessableEntity, "Malformed request", CodeMalformedRequest, h.logger, err)
		return
	}

	if err := h.authService.VerifyToken(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, domainErrors.ErrMissingToken) || domainErrors.IsUnauthorized(err) {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token", CodeInvalidToken, h.logger, err)
			return
		}
		RespondWithError(c, http.StatusInternalServerError, "Unexpected error", CodeInternal, h.logger, err)
		return
	}

	RespondWithMessage(c, http.StatusOK, "Token verified successfully!")
}

type refreshTokenRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// RefreshToken handles POST /refresh-token: the presented token is banned
// and a freshly minted one replaces it in the session cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("malformed").Inc()
		RespondWithError(c, http.StatusUnprocessableEntity, "Malformed request", CodeMalformedRequest, h.logger, err)
		return
	}

	newToken, err := h.authService.RefreshToken(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			metrics.TokenRefreshTotal.WithLabelValues("invalid").Inc()
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", CodeInvalidCredentials, h.logger, err)
		case errors.Is(err, domainErrors.ErrMissingToken) || domainErrors.IsUnauthorized(err):
			metrics.TokenRefreshTotal.WithLabelValues("invalid_token").Inc()
			RespondWithError(c, http.StatusUnauthorized, "Invalid token", CodeInvalidToken, h.logger, err)
		default:
			metrics.TokenRefreshTotal.WithLabelValues("error").Inc()
			RespondWithError(c, http.StatusInternalServerError, "Unexpected error", CodeInternal, h.logger, err)
		}
		return
	}

	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	h.setSessionCookie(c, newToken)
	RespondWithMessage(c, http.StatusOK, "Token refreshed successfully!")
}
