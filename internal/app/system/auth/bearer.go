package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "campusdesk"

// BearerGuard authenticates API callers by an HS256 token in the
// Authorization header. Tokens carry only the user ID; the user (and so the
// effective role) is fetched fresh on every request.
type BearerGuard struct {
	secret  []byte
	ttl     time.Duration
	fetcher UserFetcher
	now     func() time.Time
}

// NewBearerGuard builds the "api" guard. secret must be at least 32 bytes.
func NewBearerGuard(secret string, ttl time.Duration, fetcher UserFetcher) (*BearerGuard, error) {
	if len(secret) < 32 {
		return nil, errors.New("api token secret must be at least 32 characters")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &BearerGuard{
		secret:  []byte(secret),
		ttl:     ttl,
		fetcher: fetcher,
		now:     time.Now,
	}, nil
}

// Name implements Guard.
func (g *BearerGuard) Name() string { return GuardAPI }

// Issue signs a token for userID and returns it with its expiry.
func (g *BearerGuard) Issue(userID string) (string, time.Time, error) {
	now := g.now()
	exp := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// User implements Guard.
func (g *BearerGuard) User(r *http.Request) (*SessionUser, bool) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || claims.Subject == "" || g.fetcher == nil {
		return nil, false
	}

	u := g.fetcher.FetchUser(r.Context(), claims.Subject)
	if u == nil {
		return nil, false
	}
	u.Guard = GuardAPI
	return u, true
}

// Logout implements Guard. Bearer tokens are stateless; they lapse at expiry.
func (g *BearerGuard) Logout(http.ResponseWriter, *http.Request) error {
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
