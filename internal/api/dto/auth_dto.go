package dto

import (
	"github.com/spec-kit/admin-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

// RefreshRequest payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserSummary is the trimmed user view returned with tokens.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User UserSummary `json:"user"`
	TokenResponse
}

// NewUserSummary maps a domain user.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
}

// NewTokenResponse maps an issued pair.
func NewTokenResponse(pair domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresInSeconds(),
	}
}
