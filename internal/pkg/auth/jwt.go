package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey string
	// Expiration of zero issues tokens without an exp claim
	Expiration  time.Duration
	TokenIssuer string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// Claims defines JWT token content. A token carries either a user id or the admin flag.
type Claims struct {
	UserID  string `json:"userId,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// GenerateUserToken issues a token identifying userID
func (s *JWTService) GenerateUserToken(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("cannot issue token without user id")
	}
	return s.sign(&Claims{UserID: userID, RegisteredClaims: s.registeredClaims(userID)})
}

// GenerateAdminToken issues a token carrying the admin flag
func (s *JWTService) GenerateAdminToken() (string, error) {
	return s.sign(&Claims{IsAdmin: true, RegisteredClaims: s.registeredClaims("admin")})
}

func (s *JWTService) registeredClaims(subject string) jwt.RegisteredClaims {
	now := time.Now()
	rc := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
		Issuer:   s.config.TokenIssuer,
		Subject:  subject,
		ID:       uuid.NewString(),
	}
	if s.config.Expiration > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(s.config.Expiration))
	}
	return rc
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry of tokenString
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header.
// Raw tokens without the scheme are accepted for Swagger UI convenience.
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	if authHeader == "" {
		return "", apperrors.NewUnauthenticatedError("authorization header missing")
	}

	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		authHeader = strings.TrimSpace(authHeader[7:])
	}
	if strings.Count(authHeader, ".") != 2 {
		return "", apperrors.NewUnauthenticatedError("invalid authorization header format")
	}
	return authHeader, nil
}
