package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/devinpereira/Flexin/internal/domain"
)

// --- Error Definitions ---
var (
	ErrTokenGeneration = errors.New("failed to generate authentication token")
	ErrInvalidRole     = errors.New("invalid role")
)

const tokenIssuer = "flexin"

// TokenService mints access tokens accepted by the API middleware. End-user tokens normally come
// from the account service; this is used by operators and tooling.
type TokenService interface {
	IssueToken(userID string, role domain.Role) (string, error)
	GetJWTSecret() string
}

// tokenService implements the TokenService interface.
type tokenService struct {
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(jwtSecret string, jwtExpiration time.Duration) TokenService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &tokenService{
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed HS256 token for the given subject.
func (s *tokenService) IssueToken(userID string, role domain.Role) (string, error) {
	if userID == "" {
		return "", errors.New("user ID cannot be empty")
	}
	if !role.IsValid() {
		return "", ErrInvalidRole
	}

	now := s.now()
	claims := &jwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", ErrTokenGeneration
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *tokenService) GetJWTSecret() string {
	return s.jwtSecret
}
