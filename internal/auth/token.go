package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/symplora/leave-management/internal"
)

const tokenIssuer = "symplora-lms"

// Claims is the JWT payload for access and refresh tokens.
type Claims struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	TokenType  string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewTokenManager(cfg internal.SecurityConfig) *TokenManager {
	return &TokenManager{
		secret:          []byte(cfg.JWTSecret),
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
	}
}

func (m *TokenManager) GenerateAccessToken(user *User) (string, error) {
	return m.generate(user, "access", m.accessDuration)
}

func (m *TokenManager) GenerateRefreshToken(user *User) (string, error) {
	return m.generate(user, "refresh", m.refreshDuration)
}

func (m *TokenManager) generate(user *User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses and verifies a token, rejecting wrong algorithms and
// wrong issuers.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}
	if !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
