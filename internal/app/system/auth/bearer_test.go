package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = strings.Repeat("s", 40)

func newBearerGuard(t *testing.T, ttl time.Duration) *auth.BearerGuard {
	t.Helper()
	g, err := auth.NewBearerGuard(testSecret, ttl, stubFetcher{
		testUserID: {ID: testUserID, Name: "Ada", Role: "admin"},
	})
	if err != nil {
		t.Fatalf("NewBearerGuard: %v", err)
	}
	return g
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestNewBearerGuard_ShortSecret(t *testing.T) {
	if _, err := auth.NewBearerGuard("short", time.Hour, nil); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestBearerGuard_IssueThenAuthenticate(t *testing.T) {
	g := newBearerGuard(t, time.Hour)

	token, exp, err := g.Issue(testUserID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry should be in the future, got %v", exp)
	}

	u, ok := g.User(bearerRequest(token))
	if !ok {
		t.Fatal("expected token to authenticate")
	}
	if u.ID != testUserID || u.Role != "admin" || u.Guard != auth.GuardAPI {
		t.Errorf("got %+v", u)
	}
}

func TestBearerGuard_Rejects(t *testing.T) {
	g := newBearerGuard(t, time.Hour)

	unknown, _, err := g.Issue("64b000000000000000000000")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := auth.NewBearerGuard(strings.Repeat("x", 40), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewBearerGuard: %v", err)
	}
	foreign, _, err := other.Issue(testUserID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: testUserID, Issuer: "campusdesk"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"no header", httptest.NewRequest("GET", "/api/me", nil)},
		{"wrong scheme", func() *http.Request {
			r := httptest.NewRequest("GET", "/api/me", nil)
			r.Header.Set("Authorization", "Basic abc")
			return r
		}()},
		{"garbage", bearerRequest("not-a-jwt")},
		{"unknown user", bearerRequest(unknown)},
		{"foreign secret", bearerRequest(foreign)},
		{"alg none", bearerRequest(unsigned)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := g.User(tc.req); ok {
				t.Error("expected request to be rejected")
			}
		})
	}
}

func TestBearerGuard_ExpiredToken(t *testing.T) {
	g := newBearerGuard(t, time.Millisecond)
	token, _, err := g.Issue(testUserID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // NumericDate has second precision

	if _, ok := g.User(bearerRequest(token)); ok {
		t.Error("expected expired token to be rejected")
	}
}

func TestAuthenticated_API(t *testing.T) {
	g := newBearerGuard(t, time.Hour)
	token, _, _ := g.Issue(testUserID)

	var seen *auth.SessionUser
	h := auth.Authenticated(g)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, bearerRequest(token))
	if seen == nil || seen.ID != testUserID {
		t.Errorf("expected user in context, got %+v", seen)
	}
}
