// Package api exposes a contactbook.Repository over HTTP.
package api

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/sicko7947/contactbook"
)

// HeaderRequestID carries the per-request identifier
const HeaderRequestID = "X-Request-ID"

// Server wires the HTTP routes to a repository
type Server struct {
	app      *fiber.App
	repo     contactbook.Repository
	logger   zerolog.Logger
	pageSize int
}

// ServerOption configures the server
type ServerOption func(*Server)

// WithLogger sets the logger used for request logs
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaultPageSize sets the page size used when a list request has none
func WithDefaultPageSize(size int) ServerOption {
	return func(s *Server) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewServer creates the fiber app and registers every route
func NewServer(repo contactbook.Repository, opts ...ServerOption) *Server {
	s := &Server{
		repo:     repo,
		logger:   zerolog.Nop(),
		pageSize: contactbook.DefaultConfig().List.DefaultPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName: "contactbook",
	})
	s.registerRoutes()

	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info().Str("address", addr).Msg("Starting HTTP server")
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server, waiting up to timeout for in-flight requests
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) registerRoutes() {
	s.app.Use(s.requestLogger)

	// Health check endpoint
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "contactbook",
		})
	})

	// API v1 routes
	v1 := s.app.Group("/api/v1")
	contacts := v1.Group("/contacts")

	contacts.Get("/", s.handleList)
	contacts.Get("/count", s.handleCount)
	contacts.Get("/:name", s.handleGet)
	contacts.Put("/:name", s.handleAdd)
	contacts.Patch("/:name/email", s.handleUpdateEmail)
	contacts.Patch("/:name/phone", s.handleUpdatePhone)
	contacts.Delete("/:name", s.handleDelete)
}
