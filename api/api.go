package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quillardco/sensei/pkg/assist"
	"github.com/quillardco/sensei/pkg/storage"
)

// Server is the API server fronting the assist orchestrator.
type Server struct {
	config  Config
	service *assist.Service
	storer  storage.Driver
	logger  *zap.Logger
	app     *fiber.App
}

// NewServer creates a new API server. The storer is injected alongside the
// service so the history inspection endpoint can read turns directly.
func NewServer(config Config, service *assist.Service, storer storage.Driver, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		service: service,
		storer:  storer,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/assist", s.handleAssist)
	app.Get("/v1/history", s.handleHistory)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
