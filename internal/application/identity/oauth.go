package identity

import "context"

// OAuthProfile is the identity returned by a federated provider
type OAuthProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// OAuthProvider runs the authorization code flow against one provider
type OAuthProvider interface {
	// AuthURL returns the consent page URL carrying a signed state
	AuthURL() (string, error)
	// Exchange checks state, redeems code and fetches the profile
	Exchange(ctx context.Context, code, state string) (*OAuthProfile, error)
}

// Mailer sends transactional mail
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
}
