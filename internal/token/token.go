package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lamdv/socialverse/backend/internal/models"
)

// SessionTTL is how long a freshly signed session token stays valid.
const SessionTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims are the custom claims carried by a session token. The embedded
// AuthUser snapshot (including the password hash) is what allows the renewal
// path to re-authenticate an expired token against the stored credentials.
type Claims struct {
	User models.AuthUser `json:"user"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service with the standard session TTL.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), ttl: SessionTTL}
}

// Sign mints a session token for the given identity snapshot.
func (s *Service) Sign(user models.AuthUser) (string, error) {
	now := time.Now()
	claims := &Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the signature and expiry of a session token.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAllowExpired verifies the signature of a session token but tolerates
// an elapsed expiry, reporting it instead. The renewal flow uses this to
// re-authenticate the embedded snapshot against the stored user.
func (s *Service) ParseAllowExpired(tokenString string) (*Claims, bool, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil || !token.Valid {
		return nil, false, ErrInvalidToken
	}

	expired := claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
	return claims, expired, nil
}

func (s *Service) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return s.secret, nil
}
