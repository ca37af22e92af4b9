package ingress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type seen struct {
	path    string
	rawPath string
	base    string
}

func capture(t *testing.T, header string, req *http.Request) seen {
	t.Helper()
	var s seen
	h := Middleware(header)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s = seen{path: r.URL.Path, rawPath: r.URL.RawPath, base: BasePath(r.Context())}
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return s
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		ingress  string
		wantPath string
		wantBase string
	}{
		{"no header", "/gifts", "", "/gifts", ""},
		{"prefix stripped", "/api/hassio_ingress/abc/gifts", "/api/hassio_ingress/abc", "/gifts", "/api/hassio_ingress/abc"},
		{"prefix only maps to root", "/api/hassio_ingress/abc", "/api/hassio_ingress/abc", "/", "/api/hassio_ingress/abc"},
		{"trailing slash on header", "/ing/people/view/3", "/ing/", "/people/view/3", "/ing"},
		{"path without prefix is kept", "/gifts", "/ing", "/gifts", "/ing"},
		{"partial segment is not stripped", "/ingress/gifts", "/ing", "/ingress/gifts", "/ing"},
		{"relative header ignored", "/gifts", "ing", "/gifts", ""},
		{"scheme-relative header ignored", "/gifts", "//evil.example", "/gifts", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.ingress != "" {
				req.Header.Set(DefaultHeader, tt.ingress)
			}
			got := capture(t, "", req)
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			if got.base != tt.wantBase {
				t.Errorf("base = %q, want %q", got.base, tt.wantBase)
			}
		})
	}
}

func TestMiddleware_CustomHeaderAndRawPath(t *testing.T) {
	req := httptest.NewRequest("GET", "/ing/uploads/a%2Fb.png", nil)
	req.Header.Set("X-Forwarded-Prefix", "/ing")

	got := capture(t, "X-Forwarded-Prefix", req)

	if got.path != "/uploads/a/b.png" {
		t.Errorf("path = %q", got.path)
	}
	if got.rawPath != "/uploads/a%2Fb.png" {
		t.Errorf("rawPath = %q", got.rawPath)
	}
	if got.base != "/ing" {
		t.Errorf("base = %q", got.base)
	}
}

func TestURL(t *testing.T) {
	if got := URL(context.Background(), "/gifts"); got != "/gifts" {
		t.Errorf("URL() = %q", got)
	}
	ctx := WithBasePath(context.Background(), "/ing")
	if got := URL(ctx, "people"); got != "/ing/people" {
		t.Errorf("URL() = %q", got)
	}
}
