package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every handshake credential failure: missing,
// malformed, expired, bad signature. Callers must not distinguish the
// cases to the client.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified result of a handshake credential. It is
// attached to the connection and immutable for its lifetime.
type Identity struct {
	UserID string
	Email  string
}

// Verifier turns an opaque bearer credential into a verified identity.
// Implementations must be side-effect-free and safe for concurrent use.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims are the JWT claims issued by the main application.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTConfig holds verification parameters shared with the token issuer.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// JWTVerifier validates HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	cfg *JWTConfig
}

// NewJWTVerifier builds a verifier from the given config.
func NewJWTVerifier(cfg *JWTConfig) *JWTVerifier {
	return &JWTVerifier{cfg: cfg}
}

// Verify parses and validates the token, returning the embedded identity.
// All failures map to ErrInvalidToken.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if v.cfg.Issuer != "" && claims.Issuer != v.cfg.Issuer {
		return nil, ErrInvalidToken
	}
	if v.cfg.Audience != "" {
		validAudience := false
		for _, aud := range claims.Audience {
			if aud == v.cfg.Audience {
				validAudience = true
				break
			}
		}
		if !validAudience {
			return nil, ErrInvalidToken
		}
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// GenerateToken signs a token carrying the given identity. Token issuance
// belongs to the main application; this exists for tests and local tooling.
func GenerateToken(cfg *JWTConfig, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}
