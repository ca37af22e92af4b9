// Package ingress lets the app run under a sub-path chosen at request time by
// a reverse proxy, announced through a request header.
package ingress

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultHeader is the header set by the ingress proxy.
const DefaultHeader = "X-Ingress-Path"

type contextKey struct{}

// Middleware records the announced prefix as the base path and strips it from
// the request path so routing sees application-relative paths. Requests
// without the header pass through untouched.
func Middleware(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefix, ok := normalize(r.Header.Get(header))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			r2 := r.WithContext(WithBasePath(r.Context(), prefix))
			u := *r.URL
			u.Path = strip(u.Path, prefix)
			if u.RawPath != "" {
				u.RawPath = strip(u.RawPath, prefix)
			}
			r2.URL = &u

			slog.DebugContext(r2.Context(), "Ingress path applied",
				"base_path", prefix,
				"original_path", r.URL.Path,
				"path", u.Path)

			next.ServeHTTP(w, r2)
		})
	}
}

// normalize drops a trailing slash and rejects values that are not absolute
// same-host paths.
func normalize(v string) (string, bool) {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, "/")
	if v == "" || !strings.HasPrefix(v, "/") || strings.HasPrefix(v, "//") {
		return "", false
	}
	return v, true
}

// strip removes prefix only on a segment boundary.
func strip(path, prefix string) string {
	if path == prefix {
		return "/"
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):]
	}
	return path
}

// WithBasePath stores the external prefix in ctx.
func WithBasePath(ctx context.Context, base string) context.Context {
	return context.WithValue(ctx, contextKey{}, base)
}

// BasePath returns the external prefix of the current request, empty when
// the app is served at the root.
func BasePath(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}

// URL joins the base path of ctx with an application path.
func URL(ctx context.Context, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return BasePath(ctx) + path
}
