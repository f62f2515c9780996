package domain

import "time"

// TokenType distinguishes access tokens from refresh tokens so one
// cannot be replayed as the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// ExpiresInSeconds reports the remaining access token lifetime.
func (p TokenPair) ExpiresInSeconds() int64 {
	remaining := time.Until(p.AccessExpiresAt)
	if remaining < 0 {
		return 0
	}
	return int64(remaining / time.Second)
}
