// Package oauth implements federated sign-in with Google.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	identityapp "github.com/secureshop/backend/internal/application/identity"
	"github.com/secureshop/backend/internal/infrastructure/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	stateIssuer       = "secureshop-oauth-state"
)

// OAuth errors
var (
	ErrInvalidState = errors.New("invalid oauth state")
	ErrNoEmail      = errors.New("oauth profile has no verified email")
)

var _ identityapp.OAuthProvider = (*GoogleProvider)(nil)

// GoogleProvider signs in users with their Google account
type GoogleProvider struct {
	oauth       *oauth2.Config
	stateSecret []byte
	stateTTL    time.Duration
	userInfoURL string
	now         func() time.Time
}

type stateClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

// NewGoogleProvider creates the provider. stateSecret signs the state
// parameter so no server-side session is needed.
func NewGoogleProvider(cfg config.OAuthConfig, stateSecret string) (*GoogleProvider, error) {
	if !cfg.GoogleEnabled() {
		return nil, errors.New("google oauth client id and secret are required")
	}
	if stateSecret == "" {
		return nil, errors.New("oauth state secret is required")
	}
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		stateSecret: []byte(stateSecret),
		stateTTL:    ttl,
		userInfoURL: googleUserInfoURL,
		now:         time.Now,
	}, nil
}

// AuthURL returns the Google consent page URL
func (p *GoogleProvider) AuthURL() (string, error) {
	state, err := p.signState()
	if err != nil {
		return "", err
	}
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// Exchange validates state, redeems the code and reads the userinfo endpoint
func (p *GoogleProvider) Exchange(ctx context.Context, code, state string) (*identityapp.OAuthProfile, error) {
	if err := p.verifyState(state); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, ErrNoEmail
	}
	return &identityapp.OAuthProfile{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}

func (p *GoogleProvider) signState() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate state nonce: %w", err)
	}
	now := p.now()
	claims := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.stateTTL)),
		},
		Nonce: hex.EncodeToString(nonce),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.stateSecret)
}

func (p *GoogleProvider) verifyState(state string) error {
	if state == "" {
		return ErrInvalidState
	}
	_, err := jwt.ParseWithClaims(state, &stateClaims{}, func(t *jwt.Token) (any, error) {
		return p.stateSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
