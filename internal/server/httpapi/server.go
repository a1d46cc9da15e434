// Package httpapi exposes the account operations over HTTP. Routes, request
// decoding, the bearer-token gate, and error-to-status mapping live here;
// business rules stay in the services layer.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"doorman/internal/logging"
	"doorman/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	app       *fiber.App
	logger    logging.Logger
	users     *services.UserService
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us *services.UserService, secretKey string) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/users", s.register)
	app.Post("/sessions", s.login)
	app.Put("/users", s.requireToken, s.update)

	s.app = app
	return s
}

// App returns the underlying fiber application, used by tests to drive
// requests in-process.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = s.app.ShutdownWithTimeout(shutdownTimeout)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
