// Package reqctx exposes the read-only request facts the authorization layer
// logs: the matched route name, the client IP and the user agent.
package reqctx

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ctxKey string

const routeNameKey ctxKey = "routeName"

// WithRouteName returns r with name attached. The route table does this for
// every registered route before any middleware runs.
func WithRouteName(r *http.Request, name string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), routeNameKey, name))
}

// RouteName returns the name of the matched route, or "" for unnamed routes.
func RouteName(r *http.Request) string {
	name, _ := r.Context().Value(routeNameKey).(string)
	return name
}

// ClientIP returns the originating client IP, preferring proxy headers
// (X-Forwarded-For, then X-Real-IP) over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// first entry is the original client
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserAgent returns the request's User-Agent header.
func UserAgent(r *http.Request) string {
	return r.UserAgent()
}
