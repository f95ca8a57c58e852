package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// AuthorizationHeader is the metadata key carrying the bearer token.
	AuthorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

// Claims are the claims of an access token. The subject is the hex address
// of the signer the bearer acts as. Permissions are entity:action pairs.
type Claims struct {
	Permissions []string `json:"permissions,omitempty"`
	jwt.StandardClaims
}

// NewToken returns an HS256 token signed with secret. A zero ttl makes a
// token that never expires.
func NewToken(
	secret []byte, signer string, permissions []string, ttl time.Duration,
) (string, error) {
	if len(secret) <= 0 {
		return "", fmt.Errorf("missing secret")
	}
	now := time.Now()
	claims := Claims{
		Permissions: permissions,
		StandardClaims: jwt.StandardClaims{
			Subject:  signer,
			IssuedAt: now.Unix(),
		},
	}
	if ttl != 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies the given token and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return secret, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// BearerToken extracts the token from an authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, len(token) > 0
}

type tokenCredentials struct {
	token   string
	withTLS bool
}

func (c tokenCredentials) GetRequestMetadata(
	context.Context, ...string,
) (map[string]string, error) {
	return map[string]string{AuthorizationHeader: bearerPrefix + c.token}, nil
}

func (c tokenCredentials) RequireTransportSecurity() bool {
	return c.withTLS
}
