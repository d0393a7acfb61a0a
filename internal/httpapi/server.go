// Package httpapi serves the ordering page and its JSON API. The server holds
// no per-visitor state: the cooldown lives in a cookie and a validation run in
// a signed attempt token that the visitor hands back on confirm.
package httpapi

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/cooldown"
	"github.com/Veraticus/la-lenera/internal/hours"
	"github.com/Veraticus/la-lenera/internal/sequencer"
	"github.com/Veraticus/la-lenera/internal/zone"
)

//go:embed templates/*.gohtml
var uiFS embed.FS

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// site is everything derived from one catalog. It is replaced whole on reload.
type site struct {
	catalog  *catalog.Catalog
	matcher  *zone.Matcher
	hours    *hours.Gate
	composer *compose.Composer
}

func buildSite(cat *catalog.Catalog, phone string) (*site, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	gate, err := hours.FromSchedule(cat.Schedule)
	if err != nil {
		return nil, err
	}
	if phone == "" {
		phone = cat.Phone
	}
	composer, err := compose.New(phone, catalog.Sentinel)
	if err != nil {
		return nil, err
	}
	return &site{
		catalog:  cat,
		matcher:  zone.NewMatcher(cat.Neighborhoods, catalog.Sentinel),
		hours:    gate,
		composer: composer,
	}, nil
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithCooldown overrides the catalog rate limit.
func WithCooldown(d time.Duration) Option {
	return func(s *Server) { s.cooldownFor = d }
}

// WithSecureCookies marks the cooldown cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) { s.secure = secure }
}

// WithTLS serves HTTPS with cert.
func WithTLS(cert tls.Certificate) Option {
	return func(s *Server) { s.tlsCert = &cert }
}

// WithAttemptKey sets the key attempt tokens are signed with. Servers sharing
// a key accept each other's tokens.
func WithAttemptKey(key []byte) Option {
	return func(s *Server) { s.attempts = attemptSigner{key: key} }
}

// WithRand sets the source for dispatch estimates and testimonial order.
func WithRand(r *rand.Rand) Option {
	return func(s *Server) { s.rng = r }
}

// Server wires HTTP endpoints to the order composition logic.
type Server struct {
	clock       Clock
	page        *template.Template
	logger      *slog.Logger
	rng         *rand.Rand
	site        *site
	tlsCert     *tls.Certificate
	seq         *sequencer.Sequencer
	attempts    attemptSigner
	phone       string
	cooldownFor time.Duration
	mu          sync.RWMutex
	rngMu       sync.Mutex
	secure      bool
}

// New prepares the template once and binds the first catalog. phone overrides
// the catalog's contact number when set.
func New(cat *catalog.Catalog, phone string, opts ...Option) (*Server, error) {
	tmpl, err := template.New("page.gohtml").Funcs(template.FuncMap{
		"icon": bundleIcon,
	}).ParseFS(uiFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	st, err := buildSite(cat, phone)
	if err != nil {
		return nil, err
	}

	s := &Server{
		clock:  systemClock{},
		page:   tmpl,
		logger: slog.Default(),
		site:   st,
		seq:    sequencer.New(clock.Real{}),
		phone:  phone,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if len(s.attempts.key) == 0 {
		key, err := newAttemptKey()
		if err != nil {
			return nil, err
		}
		s.attempts = attemptSigner{key: key}
	}
	return s, nil
}

// Reload swaps in a new catalog. The old one stays active when cat is invalid.
func (s *Server) Reload(cat *catalog.Catalog) error {
	st, err := buildSite(cat, s.phone)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	s.mu.Lock()
	s.site = st
	s.mu.Unlock()
	return nil
}

func (s *Server) current() *site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

func (s *Server) rateLimit(st *site) time.Duration {
	if s.cooldownFor > 0 {
		return s.cooldownFor
	}
	return st.catalog.RateLimit()
}

func (s *Server) gate(w http.ResponseWriter, r *http.Request) *cooldown.Gate {
	return cooldown.NewGate(newCookieStore(w, r, s.secure), cooldown.WithLogger(s.logger))
}

// Handler exposes the mux with the page, the JSON API and the redirect.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.pageHandler())
	mux.Handle("/order", s.orderRedirect())
	mux.Handle("/api/status", s.statusEndpoint())
	mux.Handle("/api/bundles", s.bundlesEndpoint())
	mux.Handle("/api/suggestions", s.suggestionsEndpoint())
	mux.Handle("/api/validation", s.validationEndpoint())
	mux.Handle("/api/attempt", s.attemptEndpoint())
	mux.Handle("/api/compose", s.composeEndpoint())
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	return mux
}

// ListenAndServe runs the site on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listen := server.ListenAndServe
	if s.tlsCert != nil {
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*s.tlsCert},
			MinVersion:   tls.VersionTLS12,
		}
		listen = func() error { return server.ListenAndServeTLS("", "") }
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr, "tls", s.tlsCert != nil)
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
