package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTokenDuration is the default expiration for access tokens (15 minutes)
	DefaultAccessTokenDuration = 15 * time.Minute

	// DefaultRefreshTokenDuration is the default expiration for refresh tokens (7 days)
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour
)

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the token has expired
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidClaims is returned when token claims are invalid
	ErrInvalidClaims = errors.New("invalid token claims")

	// ErrMissingSecret is returned when JWT secret is not configured
	ErrMissingSecret = errors.New("JWT secret is not configured")
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims represents the JWT claims for authenticating API operators.
// There is no tenant or hospital axis here: one roster, one set of operators.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation
type JWTService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	issuer          string
}

// NewJWTService creates a new JWT service instance
func NewJWTService(accessSecret, refreshSecret string, accessDuration, refreshDuration time.Duration) (*JWTService, error) {
	if accessSecret == "" {
		return nil, ErrMissingSecret
	}
	if refreshSecret == "" {
		return nil, ErrMissingSecret
	}

	if accessDuration == 0 {
		accessDuration = DefaultAccessTokenDuration
	}
	if refreshDuration == 0 {
		refreshDuration = DefaultRefreshTokenDuration
	}

	return &JWTService{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		issuer:          "pedishift",
	}, nil
}

// GenerateTokenPair generates both access and refresh tokens for an operator.
func (s *JWTService) GenerateTokenPair(userID, email, role string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.GenerateAccessToken(userID, email, role)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.GenerateRefreshToken(userID, email, role)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken generates a new access token that expires after the service's access duration
func (s *JWTService) GenerateAccessToken(userID, email, role string) (string, error) {
	return s.generateToken(userID, email, role, AccessToken, s.accessSecret, s.accessDuration)
}

// GenerateRefreshToken generates a new refresh token that expires after the service's refresh duration
func (s *JWTService) GenerateRefreshToken(userID, email, role string) (string, error) {
	return s.generateToken(userID, email, role, RefreshToken, s.refreshSecret, s.refreshDuration)
}

func (s *JWTService) generateToken(userID, email, role string, tokenType TokenType, secret []byte, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, AccessToken)
}

// ValidateRefreshToken validates a refresh token and returns the claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.refreshSecret, RefreshToken)
}

// validateToken validates a token with the given secret and expected type
func (s *JWTService) validateToken(tokenString string, secret []byte, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != string(expectedType) {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetAccessTokenDuration returns the access token duration
func (s *JWTService) GetAccessTokenDuration() time.Duration {
	return s.accessDuration
}

// GetRefreshTokenDuration returns the refresh token duration
func (s *JWTService) GetRefreshTokenDuration() time.Duration {
	return s.refreshDuration
}
