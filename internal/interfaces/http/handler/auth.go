package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/identity"
	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/secureshop/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cookie      config.CookieConfig
	oauth       config.OAuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookie config.CookieConfig, oauth config.OAuthConfig) *AuthHandler {
	if cookie.RefreshName == "" {
		cookie.RefreshName = "refresh_token"
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		oauth:       oauth,
	}
}

// Register godoc
// @ID           registerAuth
// @Summary      Register an account
// @Description  Create a pending account and mail a verification link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Registration details"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// VerifyEmail godoc
// @ID           verifyEmailAuth
// @Summary      Verify email address
// @Description  Activate the account owning a verification token. Tokens are single-use.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.VerifyEmailRequest true "Verification token"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req identity.VerifyEmailRequest
	// the mailed link lands as GET ?token=, the SPA posts JSON
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.authService.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ResendVerification godoc
// @ID           resendVerificationAuth
// @Summary      Resend verification mail
// @Description  Issue a new verification token. Always answers success so it cannot reveal which emails exist.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ResendVerificationRequest true "Email"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req identity.ResendVerificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "If the account exists, a verification email has been sent"})
}

// Login godoc
// @ID           loginAuth
// @Summary      User login
// @Description  Authenticate with email and password. The refresh token is set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshAuth
// @Summary      Refresh access token
// @Description  Rotate the refresh cookie and issue a new access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cookie.RefreshName)
	if err != nil || refreshToken == "" {
		h.Unauthorized(c, "Refresh token missing")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	h.Success(c, result)
}

// Logout godoc
// @ID           logoutAuth
// @Summary      User logout
// @Description  Revoke the access and refresh tokens and clear the refresh cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	refreshToken, _ := c.Cookie(h.cookie.RefreshName)
	if err := h.authService.Logout(c.Request.Context(), claims, refreshToken); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.Success(c, MessageData{Message: "Logged out successfully"})
}

// GoogleLogin godoc
// @ID           googleLoginAuth
// @Summary      Start Google sign-in
// @Description  Redirect to the Google consent page with a signed state
// @Tags         auth
// @Success      302
// @Failure      404 {object} ErrorResponse
// @Router       /auth/oauth2/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if !h.authService.OAuthEnabled() {
		h.NotFound(c, "Google sign-in is not configured")
		return
	}

	consentURL, err := h.authService.OAuthURL()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, consentURL)
}

// GoogleCallback godoc
// @ID           googleCallbackAuth
// @Summary      Google sign-in callback
// @Description  Exchange the code, upsert the account and redirect to the frontend with the access token
// @Tags         auth
// @Param        code  query string true "Authorization code"
// @Param        state query string true "Signed state"
// @Success      302
// @Router       /auth/oauth2/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		h.redirectFailure(c, providerErr)
		return
	}

	result, err := h.authService.OAuthLogin(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		h.redirectFailure(c, "oauth_failed")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt)
	target := withQuery(h.oauth.FrontendSuccessURL, url.Values{
		"token":      {result.AccessToken},
		"expires_in": {strconv.FormatInt(result.ExpiresIn, 10)},
	})
	c.Redirect(http.StatusFound, target)
}

func (h *AuthHandler) redirectFailure(c *gin.Context, reason string) {
	if h.oauth.FrontendFailureURL == "" {
		h.ErrorWithCode(c, "ERR_OAUTH_FAILED", "Google sign-in failed")
		return
	}
	c.Redirect(http.StatusFound, withQuery(h.oauth.FrontendFailureURL, url.Values{"error": {reason}}))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	if token == "" {
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.RefreshName, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.RefreshName, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// withQuery appends values to a URL that may already carry a query
func withQuery(base string, values url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, v := range values {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}
