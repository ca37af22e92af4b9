package http

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	applog "giftguardian/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}
	writeJSON(w, http.StatusOK, health)
}

// handleReady checks the database, the templates and the image directory.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)
	failed := func(name string, err error) {
		checks[name] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if err := s.store.Ping(ctx); err != nil {
		failed("database", err)
	} else {
		checks["database"] = "ok"
	}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if _, err := os.Stat(s.images.Dir()); err != nil {
		failed("images", err)
	} else {
		checks["images"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"enabled":        s.limiter.Enabled(),
		"active_clients": s.limiter.ActiveClients(),
	}

	if httpStatus != http.StatusOK {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", "checks", checks)
	}
	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleUpload serves a stored gift image. Names that could leave the image
// directory are a 404.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	path, err := s.images.Path(r.PathValue("filename"))
	if err != nil {
		s.notFound(w, r)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Image read failed",
				applog.FieldImage, r.PathValue("filename"),
				applog.FieldError, err)
		}
		s.notFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.notFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
