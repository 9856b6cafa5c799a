package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() { gin.SetMode(gin.TestMode) }

func TestIssueParse_RoundTrip(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	tok, exp, err := iss.Issue("u-1", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %s", exp)
	}
	claims, err := iss.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "u-1" || claims.Role != RoleAdmin {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestParse_Rejects(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	good, _, _ := iss.Issue("u-1", RoleCustomer)

	expired := NewIssuer("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("u-1", RoleCustomer)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"other secret": func() string { s, _, _ := NewIssuer("x", time.Hour).Issue("u-1", RoleAdmin); return s }(),
		"expired":      old,
		"alg none":     none,
		"garbage":      "not.a.jwt",
		"truncated":    good[:len(good)-4],
	}
	for name, tok := range cases {
		if _, err := iss.Parse(tok); err != ErrInvalidToken {
			t.Errorf("%s: err=%v, want ErrInvalidToken", name, err)
		}
	}
}

func newRouter(iss *Issuer, roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/me", Middleware(iss, roles...), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+"/"+Role(c))
	})
	return r
}

func TestMiddleware(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	customer, _, _ := iss.Issue("u-1", RoleCustomer)
	admin, _, _ := iss.Issue("a-1", RoleAdmin)

	cases := []struct {
		name   string
		roles  []string
		header string
		query  string
		want   int
		body   string
	}{
		{"no token", nil, "", "", http.StatusUnauthorized, ""},
		{"bad token", nil, "Bearer nope", "", http.StatusUnauthorized, ""},
		{"customer ok", nil, "Bearer " + customer, "", http.StatusOK, "u-1/customer"},
		{"query token", nil, "", "?token=" + customer, http.StatusOK, "u-1/customer"},
		{"customer on admin route", []string{RoleAdmin}, "Bearer " + customer, "", http.StatusForbidden, ""},
		{"admin on admin route", []string{RoleAdmin}, "Bearer " + admin, "", http.StatusOK, "a-1/admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			newRouter(iss, tc.roles...).ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Fatalf("body=%s", w.Body.String())
			}
		})
	}
}
