package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims with user ID.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenProvider is a Provider that resolves the user from a signed
// JWT issued by the host application's auth service.
type TokenProvider struct {
	secret []byte
	token  string
}

// NewTokenProvider builds a provider over the given HS256 secret and
// token string.
func NewTokenProvider(secret, token string) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), token: token}
}

// CurrentUserID implements Provider by validating the held token.
func (p *TokenProvider) CurrentUserID() (string, error) {
	claims, err := p.validate()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	return claims.UserID.String(), nil
}

// SetToken replaces the held token, e.g. after a refresh.
func (p *TokenProvider) SetToken(token string) {
	p.token = token
}

func (p *TokenProvider) validate() (*Claims, error) {
	if p.token == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(p.token, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token carries no user id")
	}
	return claims, nil
}

// SignToken issues a token for the given user, valid for ttl. Exposed
// for tests and local tooling; production tokens come from the auth
// service.
func SignToken(secret string, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
