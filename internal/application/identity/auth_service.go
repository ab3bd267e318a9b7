package identity

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Token errors surfaced to clients
var (
	ErrTokenExpired    = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenInvalid    = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	ErrTokenRevoked    = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	ErrTokenMaxRefresh = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	ErrOAuthDisabled   = shared.NewDomainError("OAUTH_DISABLED", "Social login is not configured")
	ErrOAuthFailed     = shared.NewDomainError("OAUTH_FAILED", "Social login failed")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	VerificationTTL time.Duration
	// VerificationBaseURL is the storefront page that posts the token back
	VerificationBaseURL string
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		VerificationTTL:     24 * time.Hour,
		VerificationBaseURL: "http://localhost:3000/verify-email",
	}
}

// AuthService handles registration, sign-in and token lifecycle
type AuthService struct {
	users         identity.UserRepository
	tx            shared.Transactor
	events        shared.OutboxEventSaver
	tokens        *auth.JWTService
	blacklist     auth.TokenBlacklist
	verifications auth.VerificationTokens
	mailer        Mailer
	oauth         OAuthProvider
	config        AuthServiceConfig
	logger        *zap.Logger
}

// NewAuthService creates a new authentication service. oauth may be nil
// when social login is not configured.
func NewAuthService(
	users identity.UserRepository,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	verifications auth.VerificationTokens,
	mailer Mailer,
	oauth OAuthProvider,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.VerificationTTL <= 0 {
		config.VerificationTTL = 24 * time.Hour
	}
	return &AuthService{
		users:         users,
		tx:            tx,
		events:        events,
		tokens:        tokens,
		blacklist:     blacklist,
		verifications: verifications,
		mailer:        mailer,
		oauth:         oauth,
		config:        config,
		logger:        logger.Named("auth"),
	}
}

// Register creates a pending account and mails a verification link
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.UpdateProfile(user.Name, req.Phone, ""); err != nil {
			return nil, err
		}
		user.Version = 1
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return identity.ErrEmailTaken
			}
			return err
		}
		return s.events.SaveEvents(ctx, user.GetDomainEvents()...)
	})
	if err != nil {
		return nil, err
	}
	user.ClearDomainEvents()

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	s.sendVerification(ctx, user)
	return ToUserResponse(user), nil
}

// sendVerification issues a token and mails it. Failures are logged; the
// user can ask for a new mail.
func (s *AuthService) sendVerification(ctx context.Context, user *identity.User) {
	token, err := s.verifications.Issue(ctx, user.ID, s.config.VerificationTTL)
	if err != nil {
		s.logger.Error("Failed to issue verification token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	link := s.config.VerificationBaseURL + "?token=" + url.QueryEscape(token)
	if err := s.mailer.SendVerification(ctx, user.Email, user.Name, link); err != nil {
		s.logger.Error("Failed to send verification mail", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

// VerifyEmail burns a verification token and activates the account
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*UserResponse, error) {
	userID, err := s.verifications.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrVerificationTokenInvalid) {
			return nil, ErrTokenInvalid.WithMessage("Verification link is invalid or has expired")
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.VerifyEmail(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))
	return ToUserResponse(user), nil
}

// ResendVerification mails a fresh link. It succeeds for unknown and
// already verified addresses so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified && user.Status != identity.UserStatusPending {
		return nil
	}
	s.sendVerification(ctx, user)
	return nil
}

// Login checks credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.CheckCanLogin(); err != nil {
		s.logger.Warn("Login refused", zap.String("user_id", user.ID.String()), zap.String("reason", err.Error()))
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure()
		if err := s.save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, identity.ErrAccountLocked.WithMessage("Too many failed login attempts. Try again in 15 minutes")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("user_id", user.ID.String()),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, identity.ErrInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.save(ctx, user); err != nil {
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return result, nil
}

// Refresh rotates a refresh token. The presented token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrTokenInvalid.WithMessage("Refresh token is missing")
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if revoked, err := s.isRevoked(ctx, claims); err != nil {
		return nil, err
	} else if revoked {
		return nil, ErrTokenRevoked
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if err := user.CheckCanLogin(); err != nil {
		return nil, err
	}

	pair, err := s.tokens.RefreshTokenPair(claims, subjectOf(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, mapTokenError(err)
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, err
	}

	return toAuthResult(pair, user), nil
}

// Logout revokes the access token and, when present, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if access != nil {
		if err := s.blacklist.AddToBlacklist(ctx, access.ID, access.RemainingTTL()); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if claims, err := s.tokens.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				return err
			}
		}
	}
	if access != nil {
		s.logger.Info("User logged out", zap.String("user_id", access.UserID))
	}
	return nil
}

// OAuthEnabled reports whether a provider is configured
func (s *AuthService) OAuthEnabled() bool {
	return s.oauth != nil
}

// OAuthURL returns the provider consent page
func (s *AuthService) OAuthURL() (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthDisabled
	}
	return s.oauth.AuthURL()
}

// OAuthLogin completes the authorization code flow. The account is found
// by provider id, then by email, and created when neither matches.
func (s *AuthService) OAuthLogin(ctx context.Context, code, state string) (*AuthResult, error) {
	if s.oauth == nil {
		return nil, ErrOAuthDisabled
	}
	profile, err := s.oauth.Exchange(ctx, code, state)
	if err != nil {
		s.logger.Warn("OAuth exchange failed", zap.Error(err))
		return nil, ErrOAuthFailed
	}
	if profile.Email == "" || !profile.EmailVerified {
		return nil, ErrOAuthFailed.WithMessage("Google account has no verified email")
	}

	user, created, err := s.resolveOAuthUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	if err := user.CheckCanLogin(); err != nil {
		return nil, err
	}
	user.RecordLoginSuccess()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if created {
			if err := s.users.Create(ctx, user); err != nil {
				return err
			}
		} else if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.events.SaveEvents(ctx, user.GetDomainEvents()...)
	})
	if err != nil {
		return nil, err
	}
	user.ClearDomainEvents()

	s.logger.Info("User signed in with Google",
		zap.String("user_id", user.ID.String()),
		zap.Bool("created", created))
	return s.issue(user)
}

func (s *AuthService) resolveOAuthUser(ctx context.Context, p *OAuthProfile) (*identity.User, bool, error) {
	user, err := s.users.FindByProvider(ctx, identity.ProviderGoogle, p.Subject)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	user, err = s.users.FindByEmail(ctx, identity.NormalizeEmail(p.Email))
	switch {
	case err == nil:
		user.LinkProvider(identity.ProviderGoogle, p.Subject, p.Picture)
		return user, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}

	user, err = identity.NewOAuthUser(identity.ProviderGoogle, p.Subject, p.Name, p.Email, p.Picture)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// save persists the user with its pending events in one transaction
func (s *AuthService) save(ctx context.Context, user *identity.User) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		return s.events.SaveEvents(ctx, user.GetDomainEvents()...)
	})
	if err == nil {
		user.ClearDomainEvents()
	}
	return err
}

func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil || revoked {
		return revoked, err
	}
	return s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	pair, err := s.tokens.GenerateTokenPair(subjectOf(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return toAuthResult(pair, user), nil
}

func subjectOf(u *identity.User) auth.TokenSubject {
	return auth.TokenSubject{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
}

func toAuthResult(pair *auth.TokenPair, user *identity.User) *AuthResult {
	return &AuthResult{
		AccessToken:      pair.AccessToken,
		ExpiresIn:        pair.ExpiresIn(),
		TokenType:        "Bearer",
		User:             ToUserResponse(user),
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshTokenExpiresAt,
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return ErrTokenRevoked
	}
	return ErrTokenInvalid
}

// ParseUserID is a helper for handlers holding a subject string
func ParseUserID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}
