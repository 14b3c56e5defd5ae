// Package api is the HTTP core: it dispatches requests to the trap
// surfaces, runs the capture middleware that turns every request into a
// scored, classified, persisted event, and stamps persona-shaped headers on
// every response.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/config"
	"github.com/sundew-sh/sundew/pkg/interpolate"
	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/persona"
	"github.com/sundew-sh/sundew/pkg/session"
	"github.com/sundew-sh/sundew/pkg/storage"
	"github.com/sundew-sh/sundew/pkg/traps"
)

// defaultRequestTimeout bounds how long any single request may run,
// including the artificial latency sleep.
const defaultRequestTimeout = 30 * time.Second

// Server is the honeypot's HTTP server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg      *config.Config
	persona  models.Persona
	engine   *persona.Engine
	store    *storage.Store
	sessions *session.Manager

	requestTimeout time.Duration
}

// NewServer wires the trap routers, catch-all, and capture middleware onto
// a fresh Echo instance. Which traps are mounted follows the configuration;
// the health endpoint and the persona-styled catch-all are always present.
func NewServer(
	cfg *config.Config,
	p models.Persona,
	engine *persona.Engine,
	store *storage.Store,
	sessions *session.Manager,
) *Server {
	e := echo.New()

	s := &Server{
		echo:           e,
		cfg:            cfg,
		persona:        p,
		engine:         engine,
		store:          store,
		sessions:       sessions,
		requestTimeout: defaultRequestTimeout,
	}

	s.setupRoutes()
	return s
}

// ValidateWiring checks that every collaborator the request path depends on
// has been provided. Call before Start so wiring gaps fail at startup
// instead of surfacing as 503s at request time.
func (s *Server) ValidateWiring() error {
	var errs []error
	if s.engine == nil {
		errs = append(errs, fmt.Errorf("template engine not set"))
	}
	if s.store == nil {
		errs = append(errs, fmt.Errorf("storage not set"))
	}
	if s.sessions == nil {
		errs = append(errs, fmt.Errorf("session manager not set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("server wiring incomplete: %w", errors.Join(errs...))
	}
	return nil
}

// setupRoutes registers middleware and all routes. Trap routes are
// registered before the catch-all so specific matches win; the catch-all
// consults the template engine before giving up with a persona-styled 404.
func (s *Server) setupRoutes() {
	s.echo.Use(s.captureMiddleware)

	s.echo.GET("/health", s.healthHandler)

	if s.cfg.Traps.AIDiscovery {
		traps.NewDiscovery(s.persona).Register(s.echo)
	}
	if s.cfg.Traps.RESTAPI {
		traps.NewREST(s.persona).Register(s.echo)
	}
	if s.cfg.Traps.MCPServer {
		traps.NewMCP(s.persona).Register(s.echo)
	}

	s.echo.Any("/*", s.unmatchedHandler)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// unmatchedHandler serves any path no trap route claimed. It first asks the
// template engine for a match — the engine may carry LLM-generated or
// pack endpoints beyond the fixed trap routes — and only then falls back to
// a persona-styled 404.
func (s *Server) unmatchedHandler(c *echo.Context) error {
	req := c.Request()
	path := req.URL.Path

	tmpl, ok := s.engine.GetTemplate(req.Method, path)
	if !ok {
		traps.Mark(c, models.TrapTypeUnmatched, "")
		return s.personaError(c, http.StatusNotFound, "not_found",
			fmt.Sprintf("No route matches %s %s", req.Method, path))
	}

	traps.Mark(c, models.TrapTypeRESTAPI, tmpl.Endpoint)

	ctx := map[string]string{"source_ip": sourceIP(req)}
	for name, value := range tmpl.Headers {
		c.Response().Header().Set(name, interpolate.String(value, ctx))
	}

	contentType := tmpl.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	body := interpolate.String(tmpl.BodyTemplate, ctx)
	return c.Blob(tmpl.StatusCode, contentType, []byte(body))
}

// ServeHTTP makes the server mountable as a plain http.Handler, which is
// how the tests drive it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.echo,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
