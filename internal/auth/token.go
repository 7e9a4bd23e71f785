// Package auth - auxiliary login token
package auth

import (
	"fmt"
	"time"

	"github.com/aethra/atlas/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuxClaims are the claims carried by the auxiliary login token
type AuxClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// AuxTokenService mints the signed token issued at login and stored on the
// session row. No request path validates it; the session cookie remains the
// authentication mechanism.
type AuxTokenService struct {
	secretKey []byte
	issuer    string
}

// NewAuxTokenService creates an auxiliary token service
func NewAuxTokenService(secret string) *AuxTokenService {
	return &AuxTokenService{
		secretKey: []byte(secret),
		issuer:    "atlas",
	}
}

// Mint signs a token for the given user
func (s *AuxTokenService) Mint(user *models.User) (string, error) {
	now := time.Now()
	claims := &AuxClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims. Kept for operational
// inspection of stored tokens; the request path never calls it.
func (s *AuxTokenService) Parse(tokenString string) (*AuxClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuxClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuxClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
