// Package navigation provides safe return URLs and named-route redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/complaints").
	// If empty, any safe local URL is allowed.
	AllowedPrefix string

	// ExcludedPrefixes rejects return URLs starting with any of these paths,
	// so a form never bounces the user back to itself.
	ExcludedPrefixes []string
}

// SafeBackURL extracts a validated local return URL from the request's
// "return" query parameter or form value. It returns "" when none is present
// or the candidate fails validation, leaving the fallback to the caller.
//
//	ret := navigation.SafeBackURL(r, navigation.LoginReturn)
//	if ret == "" {
//	    ret = routes.MustPath(destination.ForUser(u))
//	}
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if !isLocalPath(ret) {
		return ""
	}

	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return ""
	}
	for _, excluded := range opts.ExcludedPrefixes {
		if strings.HasPrefix(ret, excluded) {
			return ""
		}
	}
	return ret
}

// LoginReturn is used after a successful sign-in.
var LoginReturn = BackURLOptions{
	ExcludedPrefixes: []string{"/login", "/logout"},
}

// isLocalPath accepts only same-origin absolute paths.
func isLocalPath(u string) bool {
	if !strings.HasPrefix(u, "/") {
		return false
	}
	return !strings.HasPrefix(u, "//") && !strings.HasPrefix(u, "/\\")
}
