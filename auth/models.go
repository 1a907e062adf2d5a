// Package auth is responsible for authentication: resolving the configured
// credential, hashing and verifying passwords, issuing and verifying bearer
// tokens, and guarding protected routes.
package auth

// User represents an identity known to the service. In this deployment there
// is exactly one, built from configuration at process start and never
// mutated or persisted.
type User struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"` // never exposed in responses
	Disabled       bool   `json:"disabled"`
}

// CredentialStore is a read-only username -> User lookup.
type CredentialStore struct {
	users map[string]User
}

// NewCredentialStore builds a store over the given users.
func NewCredentialStore(users ...User) *CredentialStore {
	m := make(map[string]User, len(users))
	for _, u := range users {
		m[u.Username] = u
	}
	return &CredentialStore{users: m}
}

// Lookup returns the user for a username, and whether one exists.
func (s *CredentialStore) Lookup(username string) (User, bool) {
	u, ok := s.users[username]
	return u, ok
}
