package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/admin-service/internal/domain"
)

var (
	// ErrTokenInvalid covers malformed or badly signed tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired reports a token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrWrongTokenType reports an access token presented as refresh or
	// vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenManager issues and validates signed JWT credentials. Validity is
// solely a function of signature and expiry; there is no revocation list.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 43200 * time.Minute
	}
	if refreshTTL <= accessTTL {
		refreshTTL = 2 * accessTTL
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Claims describes the JWT payload.
type Claims struct {
	TokenType domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user ID.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// IssueAccessToken signs a short-form credential for API calls.
func (tm *TokenManager) IssueAccessToken(userID int64) (string, time.Time, error) {
	return tm.issue(userID, domain.TokenTypeAccess, tm.accessTTL)
}

// IssueRefreshToken signs a longer-lived credential used only to mint
// new access tokens.
func (tm *TokenManager) IssueRefreshToken(userID int64) (string, time.Time, error) {
	return tm.issue(userID, domain.TokenTypeRefresh, tm.refreshTTL)
}

// IssuePair issues matching access and refresh tokens for the subject.
func (tm *TokenManager) IssuePair(userID int64) (domain.TokenPair, error) {
	access, accessExp, err := tm.IssueAccessToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, refreshExp, err := tm.IssueRefreshToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (tm *TokenManager) issue(userID int64, tokenType domain.TokenType, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a token of the expected type and returns its claims.
func (tm *TokenManager) Parse(tokenStr string, expected domain.TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
