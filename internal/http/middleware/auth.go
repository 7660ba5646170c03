package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightsurety/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	principalKey = "principal"
	relayKey     = "relay"

	// OnBehalfOfHeader lets an authorized application act for an end user.
	OnBehalfOfHeader = "X-On-Behalf-Of"
)

// Claims is the token payload; Subject is the principal.
type Claims struct {
	jwt.RegisteredClaims
}

// CallerAuthorizer decides whether a principal may relay for others.
type CallerAuthorizer interface {
	IsAuthorizedCaller(p domain.Principal) bool
}

// IssueToken signs an HS256 token for principal.
func IssueToken(secret []byte, principal domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   principal.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, raw string) (domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}
	p := domain.NormalizePrincipal(claims.Subject)
	if p.IsZero() {
		return "", fmt.Errorf("token has no subject")
	}
	return p, nil
}

// Auth validates the bearer token and stores the caller principal. A
// relay header switches the principal to the end user when the token
// holder is an authorized caller.
func Auth(secret []byte, relays CallerAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "missing authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abort(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		principal, err := parseToken(secret, strings.TrimSpace(tokenString))
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		if raw := strings.TrimSpace(c.GetHeader(OnBehalfOfHeader)); raw != "" {
			if relays == nil || !relays.IsAuthorizedCaller(principal) {
				abort(c, http.StatusForbidden, "caller is not authorized to relay")
				return
			}
			c.Set(relayKey, principal)
			principal = domain.NormalizePrincipal(raw)
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_")),
		"request_id": GetRequestID(c),
	})
}

// GetPrincipal returns the authenticated principal, or "" on public routes.
func GetPrincipal(c *gin.Context) domain.Principal {
	if c == nil {
		return ""
	}
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return ""
}

// GetRelay returns the application principal that relayed the call, if any.
func GetRelay(c *gin.Context) domain.Principal {
	if v, ok := c.Get(relayKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return ""
}
