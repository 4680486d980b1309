// Package auth issues and verifies the access tokens that carry the caller's
// identity and role.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/domain/valueobject"
)

var ErrInvalidToken = errors.New("invalid access token")

// TokenManager signs and parses HS256 access tokens with "sub" and "role" claims.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenManager(secret string, accessTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL}
}

// Issue signs an access token for the actor.
func (m *TokenManager) Issue(actor valueobject.Actor) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.accessTTL)
	claims := jwt.MapClaims{
		"sub":  actor.UserID.String(),
		"role": string(actor.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess verifies the token and returns the actor it names.
// SYSTEM is never accepted from a token.
func (m *TokenManager) ParseAccess(token string) (valueobject.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return valueobject.Actor{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return valueobject.Actor{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil || userID == uuid.Nil {
		return valueobject.Actor{}, ErrInvalidToken
	}

	rawRole, _ := claims["role"].(string)
	role, err := valueobject.NewRole(rawRole)
	if err != nil || role == valueobject.RoleSystem {
		return valueobject.Actor{}, ErrInvalidToken
	}

	return valueobject.NewActor(userID, role), nil
}
