package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	applog "giftguardian/internal/log"
	"giftguardian/internal/metrics"
	"giftguardian/internal/middleware/ingress"
	"giftguardian/internal/middleware/ratelimit"
	"giftguardian/internal/middleware/security"
	"giftguardian/internal/middleware/trace"
	"giftguardian/internal/services"
	"giftguardian/internal/storage"
	"giftguardian/internal/uploads"
	appweb "giftguardian/web"
)

// multipartMemory is how much of a multipart form is kept in memory before
// spilling to temporary files.
const multipartMemory = 4 << 20

// Options configures a Server.
type Options struct {
	Addr               string
	IngressHeader      string
	MaxUploadBytes     int64
	RateLimitPerMinute int
	CurrencySymbol     string
	Logger             *applog.Logger
	Metrics            *metrics.Metrics
	// Now is the clock used for "today"; defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	logger    *applog.Logger
	metrics   *metrics.Metrics
	limiter   *ratelimit.Limiter
	store     *storage.SQLiteRepository
	images    *uploads.ImageStore
	now       func() time.Time
	maxUpload int64
	started   time.Time

	dashboard *services.DashboardService
	people    *services.PeopleService
	gifts     *services.GiftService
	settings  *services.SettingsService
	stats     *services.StatsService

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware,
// returning a ready-to-run http.Server.
func NewServer(opts Options, store *storage.SQLiteRepository, images *uploads.ImageStore) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "€"
	}

	t, err := template.New("").Funcs(templateFuncs(opts.CurrencySymbol)).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		templates: t,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		metrics:   opts.Metrics,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		store:     store,
		images:    images,
		now:       opts.Now,
		maxUpload: opts.MaxUploadBytes,
		started:   time.Now(),
		dashboard: services.NewDashboardService(store),
		people:    services.NewPeopleService(store, images, opts.Metrics),
		gifts:     services.NewGiftService(store, images, opts.Metrics),
		settings:  services.NewSettingsService(store),
		stats:     services.NewStatsService(store),
	}

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		return nil, err
	}

	route := func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		return pattern
	}
	tracer := trace.NewMiddleware(logger, extractClientIP, route, opts.Metrics)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(extractClientIP, s.handleRateLimited)

	// The ingress shim runs first so everything after it, routing included,
	// sees application-relative paths.
	s.Handler = ingress.Middleware(opts.IngressHeader)(
		tracer.Middleware(
			headers.Middleware(
				limit(mux))))
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metricsHandler())

	// Each page group logs under its own component.
	group := func(component string) func(pattern string, h http.HandlerFunc) {
		mw := applog.ComponentMiddleware(component)
		return func(pattern string, h http.HandlerFunc) {
			mux.Handle(pattern, mw(h))
		}
	}

	dashboard := group(applog.ComponentDashboard)
	dashboard("GET /{$}", s.handleDashboard)

	people := group(applog.ComponentPeople)
	people("GET /people", s.handlePeople)
	people("POST /people/add", s.handleAddPerson)
	people("GET /people/edit/{id}", s.handleEditPersonForm)
	people("POST /people/edit/{id}", s.handleEditPerson)
	people("POST /people/delete/{id}", s.handleDeletePerson)
	people("GET /people/view/{id}", s.handleViewPerson)
	people("POST /people/{id}/occasion/add", s.handleAddPersonOccasion)
	people("POST /people/occasion/delete/{id}", s.handleDeletePersonOccasion)

	gifts := group(applog.ComponentGifts)
	gifts("GET /gifts", s.handleGifts)
	gifts("POST /gifts/add", s.handleAddGift)
	gifts("GET /gifts/edit/{id}", s.handleEditGiftForm)
	gifts("POST /gifts/edit/{id}", s.handleEditGift)
	gifts("POST /gifts/delete/{id}", s.handleDeleteGift)

	settings := group(applog.ComponentSettings)
	settings("GET /settings", s.handleSettings)
	settings("POST /settings/relation/add", s.handleAddRelation)
	settings("POST /settings/relation/delete/{id}", s.handleDeleteRelation)
	settings("POST /settings/occasion/add", s.handleAddOccasion)
	settings("POST /settings/occasion/delete/{id}", s.handleDeleteOccasion)

	stats := group(applog.ComponentStats)
	stats("GET /stats", s.handleStats)

	images := group(applog.ComponentUploads)
	images("GET /uploads/{filename}", s.handleUpload)
	return nil
}

func (s *Server) metricsHandler() http.Handler {
	if s.metrics == nil {
		return http.NotFoundHandler()
	}
	return s.metrics.Handler()
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// page is the data every full page template receives.
type page struct {
	Title   string
	Active  string
	Base    string
	Flashes []Flash
	Data    any
}

// URL prefixes an application path with the ingress base path.
func (p page) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.Base + path
}

// render executes a page template into a buffer so a template failure never
// leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title, active string, data any) {
	p := page{
		Title:   title,
		Active:  active,
		Base:    ingress.BasePath(r.Context()),
		Flashes: popFlashes(w, r),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, p); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err,
			"template", name)
		InternalServerError("Error rendering page").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}

// redirect sends the client back to an application path with a flash
// message for the next page.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path, category, message string) {
	if message != "" {
		setFlash(w, category, message)
	}
	SeeOther(ingress.URL(r.Context(), path)).Write(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found_page", "Not found", "", nil)
}

// fail maps a service error to a response: missing records are a 404 page,
// anything else is logged and reported as a server error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogError(r.Context(), "Request failed", err, op, nil)
	InternalServerError("Something went wrong").Write(w)
}

// parseForm reads a url-encoded or multipart form, bounded by the upload
// limit.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// formFailed answers a form that could not be read at all.
func (s *Server) formFailed(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Form exceeds upload limit",
			"limit_bytes", tooLarge.Limit)
		RequestTooLargeError("Upload too large").Write(w)
		return
	}
	BadRequestError("Invalid request format").Write(w)
}

// formMessage is the warning shown when a submitted form is rejected.
func formMessage(err error, missing string) string {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, errMissingFields):
		return missing
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s.", verr.Field)
	default:
		return "Invalid input data."
	}
}

// isFormError reports whether err came from user input rather than from
// the store.
func isFormError(err error) bool {
	var verr *services.ValidationError
	return errors.Is(err, errMissingFields) || errors.Is(err, errMalformedInput) || errors.As(err, &verr)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.RateLimited()
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, extractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError("Rate limit exceeded. Please try again later.").Write(w)
}
