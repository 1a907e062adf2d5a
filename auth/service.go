package auth

import (
	"time"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/config"
)

// Service composes the credential store, password hasher and token issuer
// into the login flow.
type Service struct {
	store    *CredentialStore
	hasher   PasswordHasher
	issuer   *TokenIssuer
	loginTTL time.Duration
}

// NewService creates an auth Service.
func NewService(store *CredentialStore, hasher PasswordHasher, issuer *TokenIssuer, cfg config.AuthConfig) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		issuer:   issuer,
		loginTTL: cfg.AccessTokenDuration,
	}
}

// Login authenticates a username/password pair and returns a bearer token.
// Unknown users and wrong passwords produce the same generic error so
// callers cannot enumerate usernames.
func (s *Service) Login(username, password string) (*TokenResponse, error) {
	user, ok := s.store.Lookup(username)
	if !ok || user.Disabled {
		return nil, apperror.NewAuthError("Incorrect username or password", nil)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, apperror.NewAuthError("Incorrect username or password", nil)
	}

	token, _, err := s.issuer.Issue(user.Username, s.loginTTL)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
