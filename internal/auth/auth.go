// Package auth resolves the caller of a request from a bearer token.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/project/circulation/internal/entity"
)

const bearer = "Bearer "

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Gateway struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Gateway {
	return &Gateway{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs an HS256 token for user.
func (g *Gateway) Issue(user entity.User) (string, error) {
	if user.ID == "" {
		return "", fmt.Errorf("empty subject: %w", entity.ErrValidation)
	}
	if len(g.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := g.now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if g.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(g.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

// Authenticate reads an Authorization header. A missing header is the
// anonymous user; a header that does not verify is ErrUnauthenticated.
func (g *Gateway) Authenticate(header string) (entity.User, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return entity.User{}, nil
	}

	raw, ok := strings.CutPrefix(header, bearer)
	if !ok || len(g.secret) == 0 {
		return entity.User{}, entity.ErrUnauthenticated
	}

	claims := new(Claims)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return entity.User{}, fmt.Errorf("invalid token: %w", entity.ErrUnauthenticated)
	}

	if claims.Subject == "" {
		return entity.User{}, fmt.Errorf("token without subject: %w", entity.ErrUnauthenticated)
	}

	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return entity.User{}, fmt.Errorf("token role %q: %w", claims.Role, entity.ErrUnauthenticated)
	}

	return entity.User{ID: claims.Subject, Role: role}, nil
}
