// Package auth issues and verifies the HS256 session tokens shared by the
// services, and guards gin routes with them.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MikeMC777/cafe-ecom/internal/httpx"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	ctxUserID = "uid"
	ctxRole   = "role"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID. It returns the token and its expiry.
func (i *Issuer) Issue(userID, role string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tok, exp, nil
}

func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// browsers cannot set headers on websocket upgrades
	return c.Query("token")
}

// Middleware rejects requests without a valid token and, when roles are
// given, requests whose role is not one of them.
func Middleware(i *Issuer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			httpx.Fail(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		claims, err := i.Parse(tok)
		if err != nil {
			httpx.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if claims.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				httpx.Fail(c, http.StatusForbidden, "forbidden")
				return
			}
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string { return c.GetString(ctxUserID) }

func Role(c *gin.Context) string { return c.GetString(ctxRole) }
