package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is what a verified token asserts about the caller.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (c Claims) IsAdmin() bool { return c.Role == "admin" }

type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (m *TokenManager) Issue(userID uuid.UUID, email, role string) (string, error) {
	now := time.Now().UTC()
	cl := jwtClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
}

func (m *TokenManager) Verify(raw string) (Claims, error) {
	var cl jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if !tkn.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	userID, err := uuid.Parse(cl.Subject)
	if err != nil {
		return Claims{}, fmt.Errorf("invalid subject: %w", err)
	}
	return Claims{UserID: userID, Email: cl.Email, Role: cl.Role}, nil
}
